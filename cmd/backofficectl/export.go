package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/container"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export <invoice|quotation> <id>",
		Short: "Render a document to PDF or Excel",
		Example: `  # Write INV-xxxx.pdf to the current directory
  backofficectl export invoice 12

  # Excel, explicit output path
  backofficectl export quotation 3 --format xlsx --out /tmp/quote.xlsx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseDocumentKind(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid document id %q", args[1])
			}

			return a.withContainer(cmd.Context(), func(ctx context.Context, c *container.Container) error {
				res, err := c.Services().Exports.Export(ctx, kind, id, port.ExportFormat(format))
				if err != nil {
					return err
				}

				path := out
				if path == "" {
					path = res.Filename
				}
				if err := os.WriteFile(path, res.Data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(res.Data))
				if res.ArchivePath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "archived as %s\n", res.ArchivePath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(port.ExportPDF), "output format: pdf or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: the document number plus extension)")
	return cmd
}
