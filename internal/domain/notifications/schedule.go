package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-care-hub/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// Schedule dispara Scanner.Tick según una expresión cron ("@every 1m" por defecto).
type Schedule struct {
	cron    *cron.Cron
	scanner *Scanner
	log     logger.Logger
	timeout time.Duration
}

func NewSchedule(spec string, scanner *Scanner, log logger.Logger) (*Schedule, error) {
	if spec == "" {
		spec = "@every 1m"
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"component": "schedule"})

	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Schedule{cron: c, scanner: scanner, log: log, timeout: 50 * time.Second}
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid notify schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Schedule) Start() {
	s.cron.Start()
	s.log.Info("notification schedule started", nil)
}

// Stop deja de programar ticks y espera al que esté corriendo (o a ctx).
func (s *Schedule) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("stopped without waiting for running tick", nil)
	}
}

func (s *Schedule) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rep, err := s.scanner.Tick(ctx)
	if err != nil {
		if !errors.Is(err, ErrTickInProgress) {
			s.log.Error("scan tick failed", map[string]any{"err": err})
		}
		return
	}
	if rep.Found > 0 {
		s.log.Info("scan tick", map[string]any{
			"from":    rep.From,
			"to":      rep.To,
			"found":   rep.Found,
			"sent":    rep.Sent,
			"skipped": rep.Skipped,
			"failed":  rep.Failed,
		})
	}
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, kv(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := kv(keysAndValues)
	fields["err"] = err
	l.log.Error("cron: "+msg, fields)
}

func kv(keysAndValues []any) map[string]any {
	out := make(map[string]any, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		k, ok := keysAndValues[i].(string)
		if !ok {
			k = fmt.Sprint(keysAndValues[i])
		}
		out[k] = keysAndValues[i+1]
	}
	return out
}
