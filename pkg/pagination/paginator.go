// Package pagination drives the sequential page loop shared by
// reference-data initialization and product retrieval.
//
// The API call budget is shared and stateful across calls, so pages
// are fetched strictly one at a time in increasing order.
package pagination

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/catalogport/plenty-export/pkg/plenty"
)

// DefaultItemsPerPage is the page size used when none is configured.
const DefaultItemsPerPage = 100

// Config holds the paginator configuration.
type Config struct {
	// ItemsPerPage is the page size requested from the API.
	ItemsPerPage int

	// StartPage is the first page number (1 when zero).
	StartPage int
}

// PageFunc fetches one page. Implementations set the pagination
// overrides on the client before calling, since the client clears
// them after every request.
type PageFunc func(ctx context.Context, page, itemsPerPage int) (*plenty.Page, error)

// ConsumeFunc receives each fetched page. An error stops pagination
// and propagates to the caller unmodified.
type ConsumeFunc func(page *plenty.Page) error

// Walk fetches pages sequentially until the server signals the last
// one. Every non-nil page is handed to consume before the termination
// check, so consumers see the final page too. Termination occurs when
// the response is absent, carries no entries list, lacks the
// isLastPage marker, or marks itself last.
func Walk(ctx context.Context, cfg Config, fetch PageFunc, consume ConsumeFunc) error {
	perPage := cfg.ItemsPerPage
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	pageNum := cfg.StartPage
	if pageNum <= 0 {
		pageNum = 1
	}

	for {
		page, err := fetch(ctx, pageNum, perPage)
		if err != nil {
			return err
		}

		if page != nil {
			if err := consume(page); err != nil {
				return err
			}
		}

		if page == nil || !page.HasEntries() || page.Last() {
			return nil
		}

		log.Trace().Int("page", pageNum).Int("entries", len(page.Entries)).Msg("Page consumed")
		pageNum++
	}
}
