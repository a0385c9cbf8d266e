// Package design scrapes the SEDRA student design centre team directory.
// All teams live on one page as summary/details sections.
package design

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"watclub-backend/lib/enrich"
	"watclub-backend/lib/fetch"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type Item struct {
	Name        string
	SectionText string
}

type Extractor struct {
	DirectoryUrl string
	Fetcher      fetch.Fetcher
	Enricher     enrich.Client
}

func New(fetcher fetch.Fetcher, enricher enrich.Client) Extractor {
	return Extractor{
		DirectoryUrl: "https://uwaterloo.ca/sedra-student-design-centre/directory-teams",
		Fetcher:      fetcher,
		Enricher:     enricher,
	}
}

func (e Extractor) Source() orgs.Type { return orgs.TypeDesignTeam }

func (e Extractor) ItemName(item Item) string { return item.Name }

// ListItems fetches the directory once and pairs every team summary with its
// details section.
func (e Extractor) ListItems(ctx context.Context) ([]Item, error) {
	html, err := e.Fetcher.HTML(ctx, e.DirectoryUrl)
	if err != nil {
		return nil, fmt.Errorf("fetch team directory: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	summaries := doc.Find("summary.details__summary")
	sections := doc.Find("div.details__content")

	var items []Item
	summaries.Each(func(i int, summary *goquery.Selection) {
		section := sections.Eq(i)
		if section.Length() == 0 {
			return
		}
		name := textutil.CollapseWhitespace(summary.Text())
		if name == "" {
			return
		}
		items = append(items, Item{
			Name:        name,
			SectionText: textutil.CollapseWhitespace(section.Text()),
		})
	})

	slog.InfoContext(ctx, "listed design teams", "teams", len(items))
	return items, nil
}

// ExtractOne enriches one team's section text into a record.
func (e Extractor) ExtractOne(ctx context.Context, item Item) (*orgs.Organization, error) {
	if item.SectionText == "" {
		slog.WarnContext(ctx, "design team section is empty, skipping", "team", item.Name)
		return nil, nil
	}

	fields := e.Enricher.Enrich(ctx, item.SectionText)

	org := orgs.New(item.Name, orgs.TypeDesignTeam, e.DirectoryUrl)
	org.Description = fields.Description
	org.SocialMedia = fields.SocialMedia.Normalize()
	org.MeetingInfo = fields.MeetingInfo
	org.MembershipInfo = fields.MembershipInfo
	return &org, nil
}
