package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tanmay/placementdesk/internal/app/dataset"
	"github.com/tanmay/placementdesk/pkg/client"
)

// console is a terminal front end for the PlacementDesk API. It keeps a
// polled copy of the full dataset, filters and aggregates it locally, and
// also drives the import, export and delete operations.
func main() {
	var (
		addr      = flag.String("addr", "http://localhost:8080", "base URL of the PlacementDesk API")
		search    = flag.String("search", "", "initial search term, matched against every field")
		branch    = flag.String("branch", "", "exact branch filter")
		batch     = flag.String("batch", "", "exact batch filter")
		bucket    = flag.String("bucket", "", "package bucket filter (<5LPA, 5-10LPA, 10-20LPA, 20LPA+)")
		interval  = flag.Duration("interval", dataset.DefaultRefreshInterval, "polling interval in watch mode")
		debounce  = flag.Duration("debounce", dataset.DefaultDebounceDelay, "quiet period before a typed search term is applied")
		watch     = flag.Bool("watch", false, "keep polling and re-render on every refresh; type to search, Ctrl-C to quit")
		importCSV = flag.String("import", "", "path of a CSV file to upload, then exit")
		export    = flag.String("export", "", "write the filtered view as CSV to this path, then exit")
		deleteID  = flag.String("delete", "", "id of a record to delete, then exit")
	)
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	filter := dataset.Filter{Search: *search, Branch: *branch, Batch: *batch}
	if *bucket != "" {
		b, ok := dataset.ParseBucket(*bucket)
		if !ok {
			log.Fatal().Str("bucket", *bucket).Msg("Unknown package bucket")
		}
		filter.Bucket = b
	}

	api := client.New(*addr)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *importCSV != "":
		runImport(ctx, api, *importCSV, log)
	case *deleteID != "":
		runDelete(ctx, api, *deleteID, log)
	case *export != "":
		runExport(ctx, api, filter, *export, log)
	case *watch:
		runWatch(ctx, api, filter, *interval, *debounce, log)
	default:
		store := dataset.NewStore(api, log)
		if err := store.Refresh(ctx); err != nil {
			log.Fatal().Err(err).Msg("Initial fetch failed")
		}
		render(os.Stdout, store.Snapshot(), filter)
	}
}

func runImport(ctx context.Context, api *client.Client, path string, log zerolog.Logger) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Cannot open CSV file")
	}
	defer f.Close()

	result, err := api.ImportCSV(ctx, path, f)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Printf("Inserted %d record(s)\n", result.InsertedCount)
	for _, skip := range result.Skipped {
		fmt.Printf("  row %d skipped: %s\n", skip.Row, skip.Reason)
	}
}

func runDelete(ctx context.Context, api *client.Client, id string, log zerolog.Logger) {
	record, err := api.Delete(ctx, id)
	if err != nil {
		log.Fatal().Err(err).Str("id", id).Msg("Delete failed")
	}
	fmt.Printf("Deleted %s (%s, %s)\n", record.Name, record.RegNo, record.Company)
}

func runExport(ctx context.Context, api *client.Client, filter dataset.Filter, path string, log zerolog.Logger) {
	data, err := api.ExportCSV(ctx, filter.Search, filter.Branch, filter.Batch, string(filter.Bucket))
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Cannot write export file")
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(data), path)
}

// runWatch polls the API on the given interval and re-renders after every
// refresh. Lines typed on stdin become the search term once input has been
// quiet for the debounce delay.
func runWatch(ctx context.Context, api *client.Client, filter dataset.Filter, interval, debounce time.Duration, log zerolog.Logger) {
	store := dataset.NewStore(api, log, dataset.WithInterval(interval))
	updates := store.Subscribe()

	searchTerms := make(chan string, 1)
	deb := dataset.NewDebouncer(debounce, func(term string) {
		select {
		case searchTerms <- term:
		default:
		}
	})
	defer deb.Cancel()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			deb.Set(scanner.Text())
		}
	}()

	store.Start(ctx)
	defer store.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case term := <-searchTerms:
			filter.Search = term
			render(os.Stdout, store.Snapshot(), filter)
		case <-updates:
			render(os.Stdout, store.Snapshot(), filter)
		}
	}
}

func render(out *os.File, snap dataset.Snapshot, filter dataset.Filter) {
	if snap.Err != nil {
		fmt.Fprintf(out, "! last refresh failed: %v (showing data from %s)\n",
			snap.Err, snap.FetchedAt.Format(time.RFC3339))
	}

	view := filter.Apply(snap.Records)
	stats := dataset.Aggregate(view)

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tREG NO\tBATCH\tCOMPANY\tPACKAGE\tBRANCH\tPLACED")
	for _, r := range view {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.RegNo, r.Batch, r.Company, r.Package, r.Branch, r.PlacedDate)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d of %d record(s)", stats.Total, len(snap.Records))
	if !snap.FetchedAt.IsZero() {
		fmt.Fprintf(out, ", fetched %s", snap.FetchedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(out)

	for _, branch := range sortedKeys(stats.ByBranch) {
		g := stats.ByBranch[branch]
		fmt.Fprintf(out, "  %s: %d placed, avg %.2f LPA\n", branch, g.Count, g.AvgPackage)
	}
	if len(stats.TopCompanies) > 0 {
		fmt.Fprint(out, "  top recruiters:")
		for _, c := range stats.TopCompanies {
			fmt.Fprintf(out, " %s(%d)", c.Company, c.Count)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

func sortedKeys(m map[string]dataset.GroupStat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
