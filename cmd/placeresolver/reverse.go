package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newReverseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reverse LAT LON",
		Short: "Print the place label for a coordinate",
		Example: `  placeresolver reverse 40.4168 -3.7038
  placeresolver reverse -- -33.8688 151.2093`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.resolver.Resolve(cmd.Context(), lat, lon))
			return err
		},
	}
}
