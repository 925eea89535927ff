package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nuqta-dev/tenadmin/internal/reporting"
)

var (
	reportFormat string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a subscription status report",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenants, err := client.ListTenants(cmd.Context())
		if err != nil {
			return fmt.Errorf("list tenants: %w", err)
		}

		data := reporting.Build(tenants, time.Now(), cfg.Locale)

		var out []byte
		switch reportFormat {
		case "csv":
			out, err = reporting.NewCSVGenerator().Generate(data)
		case "pdf":
			out, err = reporting.NewPDFGenerator().Generate(data)
		default:
			return fmt.Errorf("unknown format %q (want csv or pdf)", reportFormat)
		}
		if err != nil {
			return fmt.Errorf("generate %s report: %w", reportFormat, err)
		}

		if reportOutput == "" || reportOutput == "-" {
			_, err = os.Stdout.Write(out)
			return err
		}
		if err := os.WriteFile(reportOutput, out, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d tenants)\n", reportOutput, len(data.Rows))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "csv", "output format: csv or pdf")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default stdout)")
}
