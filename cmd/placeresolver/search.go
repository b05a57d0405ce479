package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "search QUERY",
		Short:   "Search places by name, one hit per line",
		Example: `  placeresolver search "Plaza Mayor, Salamanca" --limit 3`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			places, err := a.geocoder.Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return fmt.Errorf("search places: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, p := range places {
				if _, err := fmt.Fprintf(out, "%.6f,%.6f\t%s\n", p.Lat, p.Lon, p.DisplayName); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "maximum number of results (capped at 50)")
	return cmd
}
