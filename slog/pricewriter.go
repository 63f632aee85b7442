package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/siftworks/metasift"
)

// Ensure LoggingPriceWriter implements metasift.PriceWriter.
var _ metasift.PriceWriter = (*LoggingPriceWriter)(nil)

// LoggingPriceWriter wraps a PriceWriter with per-record logging.
type LoggingPriceWriter struct {
	next   metasift.PriceWriter
	logger *slog.Logger
}

// NewLoggingPriceWriter creates a new LoggingPriceWriter.
func NewLoggingPriceWriter(next metasift.PriceWriter, logger *slog.Logger) *LoggingPriceWriter {
	return &LoggingPriceWriter{next: next, logger: logger}
}

// RecordPrice delegates to the wrapped writer and logs the operation.
func (w *LoggingPriceWriter) RecordPrice(ctx context.Context, info *metasift.PriceInfo) (err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", info.URL,
			"asin", info.ASIN,
			"duration", time.Since(begin),
		}
		if info.Price != nil {
			attrs = append(attrs, "price", *info.Price, "currency", info.Currency)
		}
		if err != nil {
			attrs = append(attrs, "err", metasift.ErrorCode(err))
			w.logger.Error("record price failed", attrs...)
			return
		}
		w.logger.Info("record price", attrs...)
	}(time.Now())
	return w.next.RecordPrice(ctx, info)
}
