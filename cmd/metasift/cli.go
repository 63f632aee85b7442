package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/siftworks/metasift"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	DBPath string

	Fetcher  metasift.Fetcher
	Articles metasift.ArticleParser
	Prices   metasift.PriceParser
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout    time.Duration     `default:"20s" help:"Per-request timeout"`
	Retries    int               `default:"2" help:"Retries after a failed attempt"`
	Backoff    time.Duration     `default:"500ms" help:"Base delay for exponential backoff between retries"`
	UserAgent  string            `help:"Override the default User-Agent"`
	Header     map[string]string `help:"Extra request headers as key=value (repeatable)"`
	Proxy      string            `help:"Proxy URL for all requests"`
	Insecure   bool              `help:"Skip TLS certificate verification"`
	CACert     string            `name:"ca-cert" type:"path" help:"Verify servers against this CA bundle"`
	ClientCert string            `name:"client-cert" type:"path" help:"Client certificate PEM file"`
	ClientKey  string            `name:"client-key" type:"path" help:"Client certificate key file"`
	Verbose    bool              `short:"v" help:"Enable debug logging"`

	Article ArticleCmd `cmd:"" help:"Extract article metadata from a URL"`
	Price   PriceCmd   `cmd:"" help:"Extract price information from a product page URL"`
	Track   TrackCmd   `cmd:"" help:"Extract price observations and persist them"`
	History HistoryCmd `cmd:"" help:"List recorded price observations for a URL"`
}

// ArticleCmd is the "article" subcommand.
type ArticleCmd struct {
	URL string `arg:"" help:"Page URL"`
}

// PriceCmd is the "price" subcommand.
type PriceCmd struct {
	URL string `arg:"" help:"Product page URL"`
}

// TrackCmd is the "track" subcommand.
type TrackCmd struct {
	URLs        []string `arg:"" optional:"" name:"url" help:"Product page URLs"`
	Watchlist   string   `type:"path" help:"YAML watchlist file with additional targets"`
	Out         string   `help:"JSONL output path (default: prices_<asin>.jsonl per product)"`
	DB          string   `help:"Record to the SQLite database at this path instead of JSONL"`
	ChangesOnly bool     `help:"With --db, record only observations that changed"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	Rate        float64  `default:"1" help:"Max requests per second per domain"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `arg:"" help:"Product page URL"`
	DB    string `help:"SQLite database path (default: $METASIFT_DB or ~/.metasift/metasift.db)"`
	Limit int    `default:"20" help:"Max observations to list"`
}
