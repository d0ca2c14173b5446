// Command careboard-import copies every spreadsheet resource into the
// configured database, one transaction per resource.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aasthafoundation/careboard/internal/bootstrap"
	"github.com/aasthafoundation/careboard/internal/config"
	"github.com/aasthafoundation/careboard/internal/logging"
	"github.com/aasthafoundation/careboard/internal/repository"
	"github.com/aasthafoundation/careboard/internal/service"
)

type options struct {
	dryRun   bool
	truncate bool
	force    bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.dryRun, "dry-run", false, "read the workbooks and count records without writing")
	flag.BoolVar(&opts.truncate, "truncate", false, "empty each table before importing")
	flag.BoolVar(&opts.force, "force", false, "truncate even when workbooks are missing or a resource reads no records")
	flag.Parse()

	cfg, _ := config.Load()
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader, _, err := bootstrap.Loader(ctx, cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Workbook source")
	}
	sheets := service.NewSpreadsheetBackend(loader)

	var store *repository.Store
	if !opts.dryRun {
		s, d, err := bootstrap.Store(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer d.Close()
		store = s
	}

	if err := run(ctx, sheets, store, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

type result struct {
	resource string
	read     int
	removed  int64
	inserted int
	elapsed  time.Duration
}

// run reads every resource first and only then writes, stopping at the
// first failure. With truncate, each table is emptied and refilled in one
// transaction; missing workbooks or an empty resource abort the run before
// anything is written unless force is set. store is nil in dry-run mode.
func run(ctx context.Context, src service.Backend, store *repository.Store, opts options, out io.Writer) error {
	if opts.truncate && !opts.dryRun && !opts.force {
		if err := src.Ping(ctx); err != nil {
			return fmt.Errorf("refusing to truncate: %w (use -force)", err)
		}
	}

	names := service.ResourceNames()
	loaded := make([][]service.Record, len(names))
	results := make([]result, len(names))
	for i, name := range names {
		start := time.Now()
		recs, err := src.List(ctx, name)
		if err != nil {
			return fmt.Errorf("%s: read: %w", name, err)
		}
		if opts.truncate && !opts.dryRun && !opts.force && len(recs) == 0 {
			return fmt.Errorf("%s: no records read, refusing to truncate (use -force)", name)
		}
		loaded[i] = recs
		results[i] = result{resource: name, read: len(recs), elapsed: time.Since(start)}
	}

	if !opts.dryRun {
		for i, name := range names {
			res, _ := service.LookupResource(name)
			r := &results[i]
			start := time.Now()

			rows := make([]map[string]any, len(loaded[i]))
			for j, rec := range loaded[i] {
				// Sheet ids are positional; the database assigns its own.
				delete(rec, "id")
				rows[j] = rec
			}
			var err error
			if opts.truncate {
				r.removed, r.inserted, err = store.ReplaceAll(ctx, res.Table, rows)
			} else {
				r.inserted, err = store.InsertBatch(ctx, res.Table, rows)
			}
			if err != nil {
				return fmt.Errorf("%s: insert: %w", name, err)
			}
			r.elapsed += time.Since(start)
			log.Info().Str("resource", name).Int("read", r.read).Int("inserted", r.inserted).Msg("Imported")
		}
	}

	report(out, results, opts)
	return nil
}

func report(out io.Writer, results []result, opts options) {
	mode := "import"
	if opts.dryRun {
		mode = "dry run"
	}
	fmt.Fprintf(out, "careboard import (%s)\n", mode)
	fmt.Fprintf(out, "%-12s %8s %8s %8s %10s\n", "resource", "read", "removed", "inserted", "time")
	var read, inserted int
	for _, r := range results {
		fmt.Fprintf(out, "%-12s %8d %8d %8d %10s\n", r.resource, r.read, r.removed, r.inserted, r.elapsed.Round(time.Millisecond))
		read += r.read
		inserted += r.inserted
	}
	fmt.Fprintf(out, "%-12s %8d %8s %8d\n", "total", read, "", inserted)
}
