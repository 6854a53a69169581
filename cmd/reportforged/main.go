package main

import (
	"fmt"
	"os"

	"github.com/clearsight-ai/reportforge/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reportforged",
		Short: "Reportforge daemon and CLI",
		Long:  "Reportforge daemon for serving the report API and running ingestion and generation from the command line",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.GapsCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
