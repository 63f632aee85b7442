package mock

import (
	"context"

	"github.com/siftworks/metasift"
)

var _ metasift.PriceWriter = (*PriceWriter)(nil)

// PriceWriter is a mock implementation of metasift.PriceWriter.
type PriceWriter struct {
	RecordPriceFn func(ctx context.Context, info *metasift.PriceInfo) error
}

func (w *PriceWriter) RecordPrice(ctx context.Context, info *metasift.PriceInfo) error {
	return w.RecordPriceFn(ctx, info)
}

var _ metasift.PriceService = (*PriceService)(nil)

// PriceService is a mock implementation of metasift.PriceService.
type PriceService struct {
	RecordPriceFn  func(ctx context.Context, info *metasift.PriceInfo) error
	RecordChangeFn func(ctx context.Context, info *metasift.PriceInfo) (bool, error)
	LastPriceFn    func(ctx context.Context, url string) (*metasift.PriceInfo, error)
	FindPricesFn   func(ctx context.Context, filter metasift.PriceFilter) ([]*metasift.PriceInfo, error)
}

func (s *PriceService) RecordPrice(ctx context.Context, info *metasift.PriceInfo) error {
	return s.RecordPriceFn(ctx, info)
}

func (s *PriceService) RecordChange(ctx context.Context, info *metasift.PriceInfo) (bool, error) {
	return s.RecordChangeFn(ctx, info)
}

func (s *PriceService) LastPrice(ctx context.Context, url string) (*metasift.PriceInfo, error) {
	return s.LastPriceFn(ctx, url)
}

func (s *PriceService) FindPrices(ctx context.Context, filter metasift.PriceFilter) ([]*metasift.PriceInfo, error) {
	return s.FindPricesFn(ctx, filter)
}
