package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"servicehub/pkg/models"
)

var csvHeader = []string{
	"service_name", "category", "paybill_number", "account_format",
	"cost", "requirements", "process_steps", "source_url",
}

func exportCmd(cl *client) *cobra.Command {
	var (
		format   string
		out      string
		category string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as JSON or CSV",
		Long: `Export the current catalog. The CSV layout uses the same column names
as the JSON keys, so an exported file can be fed back through ingest.

Examples:
  servicehub export --format csv --out data/services.csv
  servicehub export --format json --category Government`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := cl.listServices(cmd, category, "")
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "json":
				err = printJSON(w, items)
			case "csv":
				err = writeCSV(w, items)
			default:
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d services to %s\n", len(items), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only export one category")
	return cmd
}

func writeCSV(w io.Writer, items []models.Service) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range items {
		if err := writer.Write([]string{
			s.ServiceName,
			s.Category,
			s.PaybillNumber,
			s.AccountFormat,
			s.Cost,
			s.Requirements,
			s.ProcessSteps,
			s.SourceURL,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
