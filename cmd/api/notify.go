package main

import (
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Corre una pasada del scanner de tareas ahora",
	Long: `Busca tareas con dateFrom en la última ventana (NOTIFY_INTERVAL) y manda
los avisos. Útil para disparar el scanner desde un cron externo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		scanner, err := a.scanner()
		if err != nil {
			return err
		}
		rep, err := scanner.Tick(cmd.Context())
		if err != nil {
			return err
		}
		a.log.Info("scan tick", map[string]any{
			"from":    rep.From,
			"to":      rep.To,
			"found":   rep.Found,
			"sent":    rep.Sent,
			"skipped": rep.Skipped,
			"failed":  rep.Failed,
		})
		return nil
	},
}
