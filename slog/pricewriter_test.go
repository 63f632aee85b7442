package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/siftworks/metasift"
	"github.com/siftworks/metasift/mock"
	metaslog "github.com/siftworks/metasift/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPriceWriter_RecordPrice(t *testing.T) {
	t.Parallel()

	t.Run("logs the recorded observation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PriceWriter{
			RecordPriceFn: func(ctx context.Context, info *metasift.PriceInfo) error {
				return nil
			},
		}

		writer := metaslog.NewLoggingPriceWriter(inner, logger)

		price := 19.99
		err := writer.RecordPrice(context.Background(), &metasift.PriceInfo{
			URL:       "https://example.com/p",
			ASIN:      "B08N5WRWNW",
			Price:     &price,
			Currency:  "USD",
			Timestamp: time.Now().UTC(),
		})

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "msg=\"record price\"")
		assert.Contains(t, out, "asin=B08N5WRWNW")
		assert.Contains(t, out, "price=19.99")
	})

	t.Run("logs write failures with the error code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PriceWriter{
			RecordPriceFn: func(ctx context.Context, info *metasift.PriceInfo) error {
				return metasift.Errorf(metasift.EINTERNAL, "disk full")
			},
		}

		writer := metaslog.NewLoggingPriceWriter(inner, logger)

		err := writer.RecordPrice(context.Background(), &metasift.PriceInfo{
			URL:       "https://example.com/p",
			Timestamp: time.Now().UTC(),
		})

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "err=internal")
	})
}
