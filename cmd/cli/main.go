package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var opts globalOptions
	rootCmd := &cobra.Command{
		Use:           "afmdash-cli",
		Short:         "Headless access to the AFM analysis backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.backendURL, "backend", "", "Backend base URL (overrides BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "ERROR, WARN, INFO, DEBUG or TRACE")

	rootCmd.AddCommand(
		newStreamCmd(&opts),
		newImportCmd(&opts),
		newExportCmd(&opts),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
