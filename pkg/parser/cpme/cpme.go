package cpme

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"cpme_monitor/pkg/parser"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	DefaultPrefix = "Andares disponíveis"
)

var digits = regexp.MustCompile(`\d+`)

// Extracts listing counts from elements whose text starts with Prefix,
// e.g. "Andares disponíveis: 12".
type Parser struct {
	Prefix string
}

func (p *Parser) Parse(payload io.Reader, handler parser.HandlerFunc[int]) error {
	doc, err := goquery.NewDocumentFromReader(payload)
	if err != nil {
		return errors.Wrap(err, "failed to load html document")
	}

	prefix := p.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	// every element in document order, ancestors included
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(text, prefix) {
			return
		}

		raw := digits.FindString(text[len(prefix):])
		if raw == "" {
			return
		}

		if count, err := strconv.Atoi(raw); err == nil {
			handler(count)
		}
	})

	return nil
}
