package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/techvibe/backoffice/internal/container"
)

func newClientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Inspect the client directory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Find clients by name, email or company",
		Example: `  backofficectl clients search acme
  backofficectl clients search "rahim@"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return a.withContainer(cmd.Context(), func(ctx context.Context, c *container.Container) error {
				res, err := c.Services().Clients.Search(ctx, query)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if len(res.Matches) == 0 {
					fmt.Fprintf(w, "no client matches %q\n", query)
					return nil
				}

				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tEMAIL\tPHONE")
				for _, cl := range res.Matches {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", cl.ID, cl.Name, cl.Company, cl.Email, cl.Phone)
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}
