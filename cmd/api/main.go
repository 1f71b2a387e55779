// @title        pet-care-hub API
// @version      1.0
// @description  Mascotas compartidas, grupos, clubes de lectura y avisos de tareas.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "pet-care-hub",
	Short:         "API de mascotas compartidas, grupos y clubes de lectura",
	SilenceUsage:  true,
	SilenceErrors: true,
	// sin subcomando => serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagConfig != "" {
			_ = os.Setenv("CONFIG_FILE", flagConfig)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "archivo YAML de configuración (pisa CONFIG_FILE)")
	rootCmd.AddCommand(serveCmd, migrateCmd, notifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
