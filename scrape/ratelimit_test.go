package scrape_test

import (
	"context"
	"testing"
	"time"

	"github.com/siftworks/metasift/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request to a domain proceeds immediately", func(t *testing.T) {
		t.Parallel()

		limiter := scrape.NewDomainLimiter(1.0)

		start := time.Now()
		err := limiter.Wait(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("different domains do not share a bucket", func(t *testing.T) {
		t.Parallel()

		limiter := scrape.NewDomainLimiter(1.0)

		require.NoError(t, limiter.Wait(context.Background(), "https://one.example.com/a"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "https://two.example.com/a")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("second request to the same domain is throttled", func(t *testing.T) {
		t.Parallel()

		limiter := scrape.NewDomainLimiter(10.0) // 100ms between requests

		require.NoError(t, limiter.Wait(context.Background(), "https://example.com/a"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "https://example.com/b")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("canceled context interrupts the wait", func(t *testing.T) {
		t.Parallel()

		limiter := scrape.NewDomainLimiter(0.001)

		require.NoError(t, limiter.Wait(context.Background(), "https://example.com/a"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx, "https://example.com/b")

		assert.Error(t, err)
	})
}
