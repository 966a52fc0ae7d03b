package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"servicehub/pkg/models"
)

func servicesCmd(cl *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List and look up catalog entries",
	}
	cmd.AddCommand(servicesListCmd(cl))
	cmd.AddCommand(servicesGetCmd(cl))
	return cmd
}

func servicesListCmd(cl *client) *cobra.Command {
	var (
		category string
		search   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List services, optionally filtered",
		Long: `List catalog entries in catalog order.

Examples:
  servicehub services list
  servicehub services list --category Utilities
  servicehub services list --search 888880 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := cl.listServices(cmd, category, search)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No services found.")
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderServices(items))
			return err
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category filter (case-insensitive, \"all\" for none)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "substring of name, requirements or paybill")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func servicesGetCmd(cl *client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show one service by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s models.Service
			endpoint := cl.endpoint("/api/services/"+url.PathEscape(args[0]), nil)
			if err := cl.doJSON(cmd.Context(), http.MethodGet, endpoint, nil, &s); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
}

func categoriesCmd(cl *client) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cats []string
			if err := cl.doJSON(cmd.Context(), http.MethodGet, cl.endpoint("/api/categories", nil), nil, &cats); err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), cats)
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (cl *client) listServices(cmd *cobra.Command, category, search string) ([]models.Service, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if search != "" {
		q.Set("search", search)
	}

	var items []models.Service
	if err := cl.doJSON(cmd.Context(), http.MethodGet, cl.endpoint("/api/services", q), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
