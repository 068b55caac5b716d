package crawler

import (
	"context"

	"cpme_monitor/pkg/parser"
)

// Crawler loads a resource once per call and feeds parsed results to handler.
type Crawler[Result any] interface {
	Crawl(ctx context.Context, handler parser.HandlerFunc[Result]) error
}

type Countable interface {
	GetCount() uint64
}
