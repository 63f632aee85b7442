// Package scrape coordinates fetching, parsing and persistence into the
// two extraction pipelines: articles and price observations.
package scrape

import (
	"context"
	"sync/atomic"

	"github.com/siftworks/metasift"
	"golang.org/x/sync/errgroup"
)

// Scraper orchestrates extraction runs. The Fetcher and the parser for
// the record type being extracted are required; Store and Limiter are
// optional.
type Scraper struct {
	Fetcher  metasift.Fetcher
	Articles metasift.ArticleParser
	Prices   metasift.PriceParser

	// Store receives every observation produced by Track and TrackAll.
	Store metasift.PriceWriter

	// Limiter throttles requests per domain during batch runs.
	Limiter *DomainLimiter

	// Concurrency bounds the number of in-flight fetches in TrackAll.
	Concurrency int
}

// Result holds the outcome of a batch tracking run.
type Result struct {
	Tracked int
	Failed  int
}

// ProgressEvent reports progress during a batch tracking run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Info      *metasift.PriceInfo
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Article fetches the page at url and extracts an Article from it.
// Relative URLs in the page resolve against the final post-redirect URL,
// which is also the article's URL.
func (s *Scraper) Article(ctx context.Context, url string) (*metasift.Article, error) {
	result, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.Articles.ParseArticle(result.HTML, result.FinalURL)
}

// Price fetches the page at url and extracts a price observation from it.
func (s *Scraper) Price(ctx context.Context, url string) (*metasift.PriceInfo, error) {
	result, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.Prices.ParsePrice(result.HTML, result.FinalURL)
}

// Track extracts a price observation and records it in the configured
// store. Without a store it behaves exactly like Price.
func (s *Scraper) Track(ctx context.Context, url string) (*metasift.PriceInfo, error) {
	info, err := s.Price(ctx, url)
	if err != nil {
		return nil, err
	}
	if s.Store != nil {
		if err := s.Store.RecordPrice(ctx, info); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// trackResult holds the outcome of tracking a single URL.
type trackResult struct {
	position int
	url      string
	info     *metasift.PriceInfo
	err      error
}

// TrackAll tracks every URL with bounded concurrency. Per-URL failures
// are counted, reported through the progress callback and do not abort
// the run; only context cancellation does.
func (s *Scraper) TrackAll(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan trackResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, url := range urls {
			i, url := i, url
			g.Go(func() error {
				info, err := s.Track(gctx, url)
				resultCh <- trackResult{position: i, url: url, info: info, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	result := &Result{}
	for r := range resultCh {
		completed.Add(1)
		event := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
		}
		if r.err != nil {
			result.Failed++
			event.Type = ProgressFailed
			event.Error = r.err
		} else {
			result.Tracked++
			event.Type = ProgressCompleted
			event.Info = r.info
		}
		if progress != nil {
			progress(event)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// fetch applies the rate limiter, if any, before delegating to the
// Fetcher.
func (s *Scraper) fetch(ctx context.Context, url string) (*metasift.FetchResult, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, url); err != nil {
			return nil, err
		}
	}
	return s.Fetcher.Fetch(ctx, url)
}
