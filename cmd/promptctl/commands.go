package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jellyjae/cliftonstrengths/internal/app"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

var outputFormat string

type sourceFlags struct {
	file string
	url  string
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Path to a prompt CSV")
	cmd.Flags().StringVarP(&f.url, "url", "u", "", "URL of a published prompt CSV")
}

func (f *sourceFlags) rows(ctx context.Context) ([]services.ImportRow, error) {
	switch {
	case f.file != "" && f.url != "":
		return nil, fmt.Errorf("--file and --url are mutually exclusive")
	case f.file != "":
		fh, err := os.Open(f.file)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		return services.ParseCSV(fh)
	case f.url != "":
		return services.FetchCSV(ctx, http.DefaultClient, f.url)
	default:
		return nil, fmt.Errorf("one of --file or --url is required")
	}
}

func newImportCmd() *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import prompts from a CSV (Strength, Wellbeing Domain, Prompt)",
		Long: `Import prompts from a CSV with the columns Strength, Wellbeing Domain and Prompt.

Rows naming an unknown strength or domain, or with prompt text that is too
short, are reported and left out. Prompts already in the catalog are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := src.rows(cmd.Context())
			if err != nil {
				return err
			}
			tools, err := app.NewTools(cmd.Context())
			if err != nil {
				return err
			}
			defer tools.Close()

			report, err := tools.Import.Import(cmd.Context(), rows)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	src.bind(cmd)
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize a prompt CSV without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := src.rows(cmd.Context())
			if err != nil {
				return err
			}
			tools, err := app.NewTools(cmd.Context())
			if err != nil {
				return err
			}
			defer tools.Close()

			analysis, err := tools.Import.Analyze(cmd.Context(), rows)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), analysis)
		},
	}
	src.bind(cmd)
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-themes",
		Short: "Write the 34 strength themes and the fallback prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := app.NewTools(cmd.Context())
			if err != nil {
				return err
			}
			defer tools.Close()

			report, err := tools.Theme.Seed(cmd.Context())
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog size and the theme/aspect pairs that have no prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := app.NewTools(cmd.Context())
			if err != nil {
				return err
			}
			defer tools.Close()

			status, err := tools.Import.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), status)
		},
	}
}

// printReport writes v as indented JSON, or as YAML with the same keys.
func printReport(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch strings.ToLower(outputFormat) {
	case "", "json":
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		return yaml.NewEncoder(w).Encode(generic)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
