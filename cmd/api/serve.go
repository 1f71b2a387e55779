package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pet-care-hub/internal/adapters/storage/postgres"
	"pet-care-hub/internal/domain/notifications"
	"pet-care-hub/internal/router"

	"github.com/spf13/cobra"
)

var flagAutoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta la API HTTP y el scheduler de avisos",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagAutoMigrate, "migrate", false, "aplicar migraciones antes de arrancar")
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if flagAutoMigrate && a.db != nil {
		applied, err := postgres.Migrate(ctx, a.db)
		if err != nil {
			return err
		}
		a.log.Info("migrations applied", map[string]any{"versions": applied})
	}

	var sched *notifications.Schedule
	if a.cfg.Notify.Enabled {
		scanner, err := a.scanner()
		if err != nil {
			return err
		}
		sched, err = notifications.NewSchedule(a.cfg.Notify.Schedule, scanner, a.log)
		if err != nil {
			return err
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr: ":" + a.cfg.Port,
		Handler: router.NewRouter(router.Options{
			Services: a.services,
			Verifier: a.issuer,
			DevAuth:  a.cfg.DevAuth,
			Logger:   a.log,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", map[string]any{"addr": srv.Addr, "dev_auth": a.cfg.DevAuth})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	a.log.Info("shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}
