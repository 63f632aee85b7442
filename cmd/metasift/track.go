package main

import (
	"context"
	"fmt"

	"github.com/siftworks/metasift"
	"github.com/siftworks/metasift/jsonl"
	"github.com/siftworks/metasift/scrape"
	metaslog "github.com/siftworks/metasift/slog"
	"github.com/siftworks/metasift/sqlite"
	"github.com/siftworks/metasift/yaml"
)

// Run executes the track command.
func (c *TrackCmd) Run(deps *Dependencies) error {
	urls := append([]string{}, c.URLs...)
	outputs := map[string]string{}

	if c.Watchlist != "" {
		list, err := yaml.LoadWatchlist(c.Watchlist)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", metasift.ErrorMessage(err))
			return err
		}
		for _, target := range list.Targets {
			urls = append(urls, target.URL)
			if target.Output != "" {
				outputs[target.URL] = target.Output
			}
		}
	}

	if len(urls) == 0 {
		return metasift.Errorf(metasift.EINVALID, "no URLs to track: pass them as arguments or via --watchlist")
	}

	store, cleanup, err := c.store(outputs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metasift.ErrorMessage(err))
		return err
	}
	defer cleanup()

	scraper := &scrape.Scraper{
		Fetcher:     deps.Fetcher,
		Prices:      deps.Prices,
		Store:       metaslog.NewLoggingPriceWriter(store, deps.Logger),
		Limiter:     scrape.NewDomainLimiter(c.Rate),
		Concurrency: c.Concurrency,
	}

	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressCompleted:
			line := fmt.Sprintf("[%d/%d] %s", event.Completed, event.Total, event.URL)
			if event.Info != nil && event.Info.Price != nil {
				line += fmt.Sprintf(": %.2f %s", *event.Info.Price, event.Info.Currency)
			}
			fmt.Fprintln(deps.Stdout, line)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s: failed (%s)\n",
				event.Completed, event.Total, event.URL, metasift.ErrorMessage(event.Error))
		}
	}

	result, err := scraper.TrackAll(deps.Ctx, urls, progress)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Tracked %d, failed %d\n", result.Tracked, result.Failed)
	if result.Failed > 0 {
		return metasift.Errorf(metasift.EINTERNAL, "%d of %d URLs failed", result.Failed, len(urls))
	}
	return nil
}

// store builds the configured persistence sink: a SQLite history when --db
// is set, otherwise JSONL files. The cleanup function closes whatever the
// sink holds open.
func (c *TrackCmd) store(outputs map[string]string) (metasift.PriceWriter, func(), error) {
	if c.DB != "" {
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			return nil, nil, metasift.Errorf(metasift.EINTERNAL, "open database %q: %v", c.DB, err)
		}
		svc := sqlite.NewPriceService(db)
		cleanup := func() { _ = db.Close() }
		if c.ChangesOnly {
			return &changeWriter{svc: svc}, cleanup, nil
		}
		return svc, cleanup, nil
	}

	if c.ChangesOnly {
		return nil, nil, metasift.Errorf(metasift.EINVALID, "--changes-only requires --db")
	}

	return &jsonlRouter{fixed: c.Out, outputs: outputs}, func() {}, nil
}

// changeWriter adapts RecordChange to the PriceWriter interface, dropping
// unchanged observations silently.
type changeWriter struct {
	svc *sqlite.PriceService
}

func (w *changeWriter) RecordPrice(ctx context.Context, info *metasift.PriceInfo) error {
	_, err := w.svc.RecordChange(ctx, info)
	return err
}

// jsonlRouter writes each observation to its JSONL file: the fixed --out
// path when given, a per-URL watchlist output when declared, and the
// per-ASIN default file otherwise.
type jsonlRouter struct {
	fixed   string
	outputs map[string]string
}

func (r *jsonlRouter) RecordPrice(ctx context.Context, info *metasift.PriceInfo) error {
	path := r.fixed
	if path == "" {
		path = r.outputs[info.URL]
	}
	if path == "" {
		path = jsonl.DefaultPath(info.ASIN)
	}
	return jsonl.NewStore(path).RecordPrice(ctx, info)
}
