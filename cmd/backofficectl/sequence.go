package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techvibe/backoffice/internal/container"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

func newSequenceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Inspect document numbering",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "next <invoice|quotation>",
		Short: "Show the number the next document will get, without consuming it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseDocumentKind(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			return a.withContainer(cmd.Context(), func(ctx context.Context, c *container.Container) error {
				number, err := c.Services().Documents.NextNumber(ctx, kind)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), number)
				return nil
			})
		},
	})

	return cmd
}
