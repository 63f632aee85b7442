// Package mock provides function-field test doubles for the metasift
// service interfaces.
package mock

import (
	"context"

	"github.com/siftworks/metasift"
)

var _ metasift.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of metasift.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*metasift.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*metasift.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
