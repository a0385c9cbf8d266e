// Package athletics scrapes the Warrior Recreation club listing. The page
// renders its accordion content via client-side script, so the fetcher here
// must be a browser-backed one.
package athletics

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

// accordionSelector marks the hydrated accordion content on the listing
// page. Club detail pages have their own layouts and never carry it, so
// the wait applies to the listing fetch only.
const accordionSelector = "div.c-story-blocks__structural_accordion_block__list-item-content"

type Extractor struct {
	ListingUrl string
	Fetcher    fetch.Fetcher
	Enricher   enrich.Client
}

func New(fetcher fetch.Fetcher, enricher enrich.Client) Extractor {
	return Extractor{
		ListingUrl: "https://athletics.uwaterloo.ca/sports/2012/9/4/Warrior_Recreation_Clubs.aspx",
		Fetcher:    fetcher,
		Enricher:   enricher,
	}
}

func (e Extractor) Source() orgs.Type { return orgs.TypeAthletics }

func (e Extractor) ItemName(clubUrl string) string { return clubUrl }

// ListItems renders the accordion page and collects the deduplicated club
// links from every accordion section.
func (e Extractor) ListItems(ctx context.Context) ([]string, error) {
	var html string
	var err error
	if waiter, ok := e.Fetcher.(fetch.SelectorWaiter); ok {
		html, err = waiter.HTMLWait(ctx, e.ListingUrl, accordionSelector)
	} else {
		html, err = e.Fetcher.HTML(ctx, e.ListingUrl)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch club listing: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var links []string
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find(accordionSelector+" a")) {
		if anchor.Href == "" {
			continue
		}
		if _, ok := seen[anchor.Href]; ok {
			continue
		}
		seen[anchor.Href] = struct{}{}
		links = append(links, anchor.Href)
	}

	slog.InfoContext(ctx, "listed sports clubs", "clubs", len(links))
	return links, nil
}

// ExtractOne renders one club page and enriches its text into a record.
func (e Extractor) ExtractOne(ctx context.Context, clubUrl string) (*orgs.Organization, error) {
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
		name = textutil.CollapseWhitespace(doc.Find("title").First().Text())
	}
	if name == "" {
		slog.WarnContext(ctx, "club page has no name, skipping", "url", clubUrl)
		return nil, nil
	}

	fields := e.Enricher.Enrich(ctx, htmlutil.PageText(doc))

	org := orgs.New(name, orgs.TypeAthletics, clubUrl)
	org.Category = "Warrior Recreation"
	org.Description = fields.Description
	org.SocialMedia = fields.SocialMedia.Normalize()
	org.MeetingInfo = fields.MeetingInfo
	org.MembershipInfo = fields.MembershipInfo
	return &org, nil
}
