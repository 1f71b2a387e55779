package notifications

import (
	"context"
	"errors"
	"sync"
	"time"

	"pet-care-hub/internal/platform/logger"
)

var ErrTickInProgress = errors.New("scan tick already in progress")

// TickReport resume una pasada del scanner.
type TickReport struct {
	From    time.Time
	To      time.Time
	Found   int
	Sent    int
	Skipped int
	Failed  int
}

type ScannerOptions struct {
	// Interval define la ventana del primer tick: [now-Interval, now).
	Interval time.Duration
	// MaxCatchUp limita cuánto hacia atrás se recupera después de una caída.
	MaxCatchUp time.Duration
}

// Scanner recorre ventanas contiguas [cursor, now): ticks seguidos no se
// pisan ni dejan huecos. Un tick a la vez.
type Scanner struct {
	finder   Finder
	marker   Marker
	notifier *Notifier
	log      logger.Logger
	opts     ScannerOptions
	now      func() time.Time

	mu     sync.Mutex
	cursor time.Time
}

func NewScanner(finder Finder, marker Marker, notifier *Notifier, log logger.Logger, opts ScannerOptions) *Scanner {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.MaxCatchUp <= 0 {
		opts.MaxCatchUp = time.Hour
	}
	if opts.MaxCatchUp < opts.Interval {
		opts.MaxCatchUp = opts.Interval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{
		finder:   finder,
		marker:   marker,
		notifier: notifier,
		log:      log.With(map[string]any{"component": "scanner"}),
		opts:     opts,
		now:      time.Now,
	}
}

// Tick busca tareas vencidas en la ventana y manda un aviso por cada una.
// Si la búsqueda falla el cursor no avanza y el próximo tick reintenta la ventana.
// Un fallo de envío se loguea y el job se descarta.
func (s *Scanner) Tick(ctx context.Context) (TickReport, error) {
	if !s.mu.TryLock() {
		return TickReport{}, ErrTickInProgress
	}
	defer s.mu.Unlock()

	now := s.now()
	from := s.cursor
	if from.IsZero() {
		from = now.Add(-s.opts.Interval)
	}
	if gap := now.Sub(from); gap > s.opts.MaxCatchUp {
		s.log.Warn("scan gap exceeds catch-up limit, skipping older tasks", map[string]any{
			"gap":          gap.String(),
			"max_catch_up": s.opts.MaxCatchUp.String(),
		})
		from = now.Add(-s.opts.MaxCatchUp)
	}

	rep := TickReport{From: from, To: now}
	if !from.Before(now) {
		return rep, nil
	}

	jobs, err := s.finder.FindDue(ctx, from, now)
	if err != nil {
		s.log.Error("find due tasks failed", map[string]any{"err": err, "from": from, "to": now})
		return rep, err
	}
	rep.Found = len(jobs)

	for _, job := range jobs {
		fields := map[string]any{"pet_id": job.PetID, "task_id": job.TaskID}

		err := s.notifier.Notify(ctx, job)
		switch {
		case errors.Is(err, ErrNoRecipients):
			rep.Skipped++
			s.log.Debug("task has no recipients", fields)
			continue
		case err != nil:
			rep.Failed++
			fields["err"] = err
			s.log.Error("notification dropped", fields)
			continue
		}

		rep.Sent++
		if err := s.marker.MarkNotified(ctx, job.PetID, job.TaskID, now); err != nil {
			fields["err"] = err
			s.log.Warn("mark notified failed", fields)
		}
	}

	s.cursor = now
	return rep, nil
}

// Cursor es el final de la última ventana escaneada (cero si nunca corrió).
func (s *Scanner) Cursor() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}
