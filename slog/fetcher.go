// Package slog provides log/slog logging decorators for the metasift
// service interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/siftworks/metasift"
)

// Ensure LoggingFetcher implements metasift.Fetcher.
var _ metasift.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   metasift.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next metasift.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped Fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (result *metasift.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs, "err", metasift.ErrorCode(err))
			f.logger.Error("fetch failed", attrs...)
			return
		}
		attrs = append(attrs, "final_url", result.FinalURL, "bytes", len(result.HTML))
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped Fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
