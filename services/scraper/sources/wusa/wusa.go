// Package wusa scrapes the WUSA club directory. The listing is paginated;
// each club has its own detail page.
package wusa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"watclub-backend/lib/enrich"
	"watclub-backend/lib/fetch"
	"watclub-backend/lib/htmlutil"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// pagination safety cap, the real directory is well under this
const maxPages = 50

type Extractor struct {
	BaseUrl  string
	Fetcher  fetch.Fetcher
	Enricher enrich.Client
}

func New(fetcher fetch.Fetcher, enricher enrich.Client) Extractor {
	return Extractor{
		BaseUrl:  "https://clubs.wusa.ca",
		Fetcher:  fetcher,
		Enricher: enricher,
	}
}

func (e Extractor) Source() orgs.Type { return orgs.TypeWUSA }

func (e Extractor) ItemName(clubPath string) string { return clubPath }

// ListItems walks the paginated listing until a page yields no club links.
func (e Extractor) ListItems(ctx context.Context) ([]string, error) {
	var all []string

	for page := 1; page <= maxPages; page++ {
		pageUrl := fmt.Sprintf("%s/club_listings?page=%d", e.BaseUrl, page)
		html, err := e.Fetcher.HTML(ctx, pageUrl)
		if err != nil {
			return nil, fmt.Errorf("fetch listing page %d: %w", page, err)
		}

		links, err := clubLinks(ctx, html)
		if err != nil {
			return nil, err
		}
		if len(links) == 0 {
			slog.DebugContext(ctx, "no clubs on page, stopping", "page", page)
			break
		}

		slog.InfoContext(ctx, "listed clubs", "page", page, "clubs", len(links))
		all = append(all, links...)
	}

	return all, nil
}

func clubLinks(ctx context.Context, html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []string
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a")) {
		if strings.Contains(anchor.Name, "Learn More") && strings.Contains(anchor.Href, "/clubs/") {
			links = append(links, anchor.Href)
		}
	}
	return links, nil
}

// ExtractOne fetches one club's detail page and enriches its text into a
// record. Pages without a recognizable club name are skipped.
func (e Extractor) ExtractOne(ctx context.Context, clubPath string) (*orgs.Organization, error) {
	clubUrl := e.BaseUrl + clubPath

	html, err := e.Fetcher.HTML(ctx, clubUrl)
	if err != nil {
		return nil, fmt.Errorf("fetch club page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	name := textutil.CollapseWhitespace(doc.Find("h1").First().Text())
	if name == "" {
		slog.WarnContext(ctx, "club page has no name, skipping", "url", clubUrl)
		return nil, nil
	}

	fields := e.Enricher.Enrich(ctx, htmlutil.PageText(doc))

	org := orgs.New(name, orgs.TypeWUSA, clubUrl)
	org.Description = fields.Description
	org.SocialMedia = fields.SocialMedia.Normalize()
	org.MeetingInfo = fields.MeetingInfo
	org.MembershipInfo = fields.MembershipInfo
	return &org, nil
}
