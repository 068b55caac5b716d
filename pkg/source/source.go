// Package source turns a page crawl into a single listing count observation.
package source

import (
	"context"

	"cpme_monitor/pkg/crawler"
	"cpme_monitor/pkg/parser"

	"go.uber.org/zap"
)

// Counter returns the currently observed listing count.
// An error is reserved for faults the caller should treat as a skipped
// observation; ordinary scrape failures read as 0.
type Counter interface {
	Fetch(ctx context.Context) (int, error)
}

// Adapter to allow a use of functions as Counter.
type Func func(ctx context.Context) (int, error)

func (fnc Func) Fetch(ctx context.Context) (int, error) {
	return fnc(ctx)
}

// Web page backed Counter.
type Source struct {
	crawler crawler.Crawler[int]
	counter crawler.Countable // optional
	log     *zap.Logger
}

func New(c crawler.Crawler[int], log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}

	counter, _ := c.(crawler.Countable)

	return &Source{
		crawler: c,
		counter: counter,
		log:     log.With(zap.String("component", "source")),
	}
}

// Returns the first count found on the page, 0 when none is found
// or the page could not be loaded.
func (s *Source) Fetch(ctx context.Context) (int, error) {
	var first parser.FirstOf[int]

	if err := s.crawler.Crawl(ctx, first.Handle); err != nil {
		s.log.Error("error scraping website", s.crawlField(), zap.Error(err))
		return 0, nil
	}

	count, found := first.Get()
	if !found {
		s.log.Warn("listing count not found on page", s.crawlField())
		return 0, nil
	}

	return count, nil
}

func (s *Source) crawlField() zap.Field {
	if s.counter == nil {
		return zap.Skip()
	}

	return zap.Uint64("crawl", s.counter.GetCount())
}
