package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jellyjae/cliftonstrengths/internal/platform/shutdown"
)

var version = "0.1.0"

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "promptctl",
		Short:         "Manage the strengths prompt catalog",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Report format (json/yaml)")
	rootCmd.AddCommand(newImportCmd(), newAnalyzeCmd(), newSeedCmd(), newStatusCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
