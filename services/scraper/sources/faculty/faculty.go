// Package faculty scrapes clubs from the faculty society directories
// (mathsoc, scisoc, engsoc). The pages are unstructured prose, so listing
// delegates the heavy parsing to the enrichment service: one directory parse
// per faculty page yields the per-club raw items.
package faculty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"watclub-backend/lib/enrich"
	"watclub-backend/lib/fetch"
	"watclub-backend/lib/htmlutil"
	"watclub-backend/lib/images"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type Item struct {
	Faculty   string
	SourceUrl string
	Entry     enrich.ClubEntry
}

type Extractor struct {
	// Directories maps a faculty society name to its club directory url.
	Directories map[string]string
	Fetcher     fetch.Fetcher
	Enricher    enrich.Client
	// Images is optional; nil disables logo downloads.
	Images *images.Downloader
}

func New(fetcher fetch.Fetcher, enricher enrich.Client, downloader *images.Downloader) Extractor {
	return Extractor{
		Directories: map[string]string{
			"mathsoc": "https://mathsoc.uwaterloo.ca/community/community",
			"scisoc":  "https://uwaterloo.ca/science-society/departmental-clubs",
			"engsoc":  "https://www.engsoc.uwaterloo.ca/about-us/affiliates/",
		},
		Fetcher:  fetcher,
		Enricher: enricher,
		Images:   downloader,
	}
}

func (e Extractor) Source() orgs.Type { return orgs.TypeFaculty }

func (e Extractor) ItemName(item Item) string {
	return fmt.Sprintf("%s/%s", item.Faculty, item.Entry.Name)
}

// ListItems parses every configured directory into per-club items. A single
// directory failing is logged and skipped; the source only counts as
// unavailable when no directory could be listed at all.
func (e Extractor) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	var errList []error

	for faculty, directoryUrl := range e.Directories {
		entries, err := e.listDirectory(ctx, faculty, directoryUrl)
		if err != nil {
			slog.ErrorContext(ctx, "failed to list faculty directory",
				"faculty", faculty,
				"err", err,
			)
			errList = append(errList, fmt.Errorf("%s: %w", faculty, err))
			continue
		}

		slog.InfoContext(ctx, "listed faculty clubs", "faculty", faculty, "clubs", len(entries))
		for _, entry := range entries {
			items = append(items, Item{
				Faculty:   faculty,
				SourceUrl: directoryUrl,
				Entry:     entry,
			})
		}
	}

	if len(items) == 0 && len(errList) > 0 {
		return nil, errors.Join(errList...)
	}
	return items, nil
}

func (e Extractor) listDirectory(ctx context.Context, faculty, directoryUrl string) ([]enrich.ClubEntry, error) {
	html, err := e.Fetcher.HTML(ctx, directoryUrl)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(directoryUrl)
	if err != nil {
		return nil, err
	}

	pageText := htmlutil.PageText(doc)
	pageImages := htmlutil.GetImages(ctx, doc, base)
	return e.Enricher.ParseDirectory(ctx, faculty, pageText, pageImages)
}

// ExtractOne turns one parsed club entry into a record and tries to fetch
// its logo. A failed download keeps the record, just without an image.
func (e Extractor) ExtractOne(ctx context.Context, item Item) (*orgs.Organization, error) {
	name := textutil.CollapseWhitespace(item.Entry.Name)
	if name == "" {
		slog.WarnContext(ctx, "directory entry has no name, skipping", "faculty", item.Faculty)
		return nil, nil
	}

	org := orgs.New(name, orgs.TypeFaculty, item.SourceUrl)
	org.Faculty = item.Faculty
	org.Description = item.Entry.Description
	org.SocialMedia = item.Entry.SocialMedia.Normalize()

	if e.Images != nil && item.Entry.ImageUrl != "" {
		_, err := e.Images.Download(ctx, item.Entry.ImageUrl, item.Faculty, org.Slug)
		if err != nil {
			slog.WarnContext(ctx, "failed to download club image",
				"club", name,
				"url", item.Entry.ImageUrl,
				"err", err,
			)
		}
	}

	return &org, nil
}
