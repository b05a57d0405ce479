package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// labeler resolves a coordinate to a display label.
type labeler interface {
	Resolve(ctx context.Context, lat, lon float64) string
}

// batchItem is one input line. Unparsable components are NaN and resolve
// straight to the fallback label.
type batchItem struct {
	text     string
	lat, lon float64
}

func newBatchCmd() *cobra.Command {
	var (
		file        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve lat,lon lines from a file or stdin",
		Long: `
batch reads one "lat,lon" pair per line and prints "lat,lon<TAB>label" in
input order. Blank lines and lines starting with # are skipped. Lookups run
concurrently; keep --concurrency low against the public Nominatim instance.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
			}

			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			items, err := readBatch(in)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var bar *progressbar.ProgressBar
			if isatty.IsTerminal(os.Stderr.Fd()) {
				bar = progressbar.NewOptions(len(items),
					progressbar.OptionSetDescription("Resolving"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			progress := func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			}

			labels := resolveBatch(cmd.Context(), a.resolver, items, concurrency, progress)
			return writeBatch(cmd.OutOrStdout(), items, labels)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input file (default stdin)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "maximum concurrent lookups")
	return cmd
}

func readBatch(r io.Reader) ([]batchItem, error) {
	var items []batchItem
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, parseBatchLine(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return items, nil
}

func parseBatchLine(line string) batchItem {
	item := batchItem{text: line, lat: math.NaN(), lon: math.NaN()}
	latStr, lonStr, ok := strings.Cut(line, ",")
	if !ok {
		return item
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64); err == nil {
		item.lat = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64); err == nil {
		item.lon = v
	}
	return item
}

// resolveBatch resolves items with at most concurrency lookups in flight and
// returns labels in input order.
func resolveBatch(ctx context.Context, r labeler, items []batchItem, concurrency int, done func()) []string {
	labels := make([]string, len(items))
	semaphore := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item batchItem) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			labels[i] = r.Resolve(ctx, item.lat, item.lon)
			if done != nil {
				done()
			}
		}(i, item)
	}
	wg.Wait()
	return labels
}

func writeBatch(w io.Writer, items []batchItem, labels []string) error {
	bw := bufio.NewWriter(w)
	for i, item := range items {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", item.text, labels[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
