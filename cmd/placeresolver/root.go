package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "placeresolver",
		Short: "Resolve coordinates to human-readable place names",
		Long: `
placeresolver turns latitude/longitude pairs into "locality, region, country"
labels using OpenStreetMap Nominatim. It runs as an HTTP service and Kafka
enricher (serve) or as a one-shot lookup tool (reverse, search, batch).

Configuration is read from environment variables; see NOMINATIM_URL,
GEOCODER_LANGUAGE, CACHE_BACKEND and friends.
`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newServeCmd(),
		newReverseCmd(),
		newSearchCmd(),
		newBatchCmd(),
	)
	return root
}
