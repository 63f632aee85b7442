package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/siftworks/metasift/goquery"
	metasifthttp "github.com/siftworks/metasift/http"
	metaslog "github.com/siftworks/metasift/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Default database path for commands that read or write history.
	// Set before calling Run().
	DBPath string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		DBPath: m.DBPath,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("metasift"),
		kong.Description("Extract article metadata and product prices from web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'metasift --help' to see available commands")
	}
	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	fetcher, err := metasifthttp.NewFetcher(fetcherOptions(cli)...)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	deps.Fetcher = metaslog.NewLoggingFetcher(fetcher, deps.Logger)
	deps.Articles = goquery.NewArticleParser()
	deps.Prices = goquery.NewPriceParser()

	return kongCtx.Run(deps)
}

// fetcherOptions translates the global flags into Fetcher options.
func fetcherOptions(cli *CLI) []metasifthttp.Option {
	opts := []metasifthttp.Option{
		metasifthttp.WithTimeout(cli.Timeout),
		metasifthttp.WithMaxRetries(cli.Retries),
		metasifthttp.WithBackoffBase(cli.Backoff),
	}
	if cli.UserAgent != "" {
		opts = append(opts, metasifthttp.WithUserAgent(cli.UserAgent))
	}
	for k, v := range cli.Header {
		opts = append(opts, metasifthttp.WithHeader(k, v))
	}
	if cli.Proxy != "" {
		opts = append(opts, metasifthttp.WithProxy(cli.Proxy))
	}
	if cli.Insecure {
		opts = append(opts, metasifthttp.WithTLSVerify(false))
	}
	if cli.CACert != "" {
		opts = append(opts, metasifthttp.WithCACert(cli.CACert))
	}
	if cli.ClientCert != "" {
		opts = append(opts, metasifthttp.WithClientCert(cli.ClientCert, cli.ClientKey))
	}
	return opts
}

func defaultDBPath() string {
	if path := os.Getenv("METASIFT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "metasift.db"
	}
	dir := filepath.Join(home, ".metasift")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "metasift.db")
}
