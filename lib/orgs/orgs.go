// Package orgs holds the canonical student-organization record shared by
// every scraper and by the database sync.
package orgs

import (
	"fmt"
	"time"
	"watclub-backend/lib/textutil"
	"watclub-backend/lib/timezone"
)

// Type is the category of directory an organization was scraped from.
// (Name, Type) is the natural key of a record everywhere downstream.
type Type string

const (
	TypeWUSA             Type = "wusa"
	TypeFaculty          Type = "faculty"
	TypeDesignTeam       Type = "design_team"
	TypeAthletics        Type = "athletics"
	TypeAdvocacy         Type = "advocacy"
	TypeEntrepreneurship Type = "entrepreneurship"
	TypeMedia            Type = "media"
)

var AllTypes = []Type{
	TypeWUSA,
	TypeFaculty,
	TypeDesignTeam,
	TypeAthletics,
	TypeAdvocacy,
	TypeEntrepreneurship,
	TypeMedia,
}

func ParseType(s string) (Type, error) {
	for _, t := range AllTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown organization type: %q", s)
}

// SocialMedia maps a platform name (website, email, facebook, instagram,
// twitter, linkedin, youtube, discord, ...) to an ordered list of urls.
type SocialMedia map[string][]string

// Normalize drops platforms with no urls and removes duplicate urls while
// preserving first-seen order. Returns nil when nothing survives so empty
// maps never end up serialized.
func (s SocialMedia) Normalize() SocialMedia {
	var out SocialMedia
	for platform, urls := range s {
		seen := make(map[string]struct{}, len(urls))
		var deduped []string
		for _, u := range urls {
			if u == "" {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			deduped = append(deduped, u)
		}
		if len(deduped) == 0 {
			continue
		}
		if out == nil {
			out = SocialMedia{}
		}
		out[platform] = deduped
	}
	return out
}

// Organization is immutable once constructed; re-scraping the same source
// item produces a fresh record that replaces the old one through the
// (name, org_type) upsert key.
type Organization struct {
	Name        string `json:"name"`
	Type        Type   `json:"org_type"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`

	SocialMedia SocialMedia `json:"social_media,omitempty"`

	Faculty  string   `json:"faculty,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	MeetingInfo    string `json:"meeting_info,omitempty"`
	MembershipInfo string `json:"membership_info,omitempty"`
	IsActive       bool   `json:"is_active"`
	LastActive     string `json:"last_active"`

	SourceUrl string    `json:"source_url"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// New builds a record from its required fields, stamping the slug and scrape
// time. Callers fill optional fields on the returned value before handing it
// to the pipeline; after that the record must not be mutated.
func New(name string, orgType Type, sourceUrl string) Organization {
	return Organization{
		Name:       name,
		Type:       orgType,
		Slug:       textutil.Slugify(name),
		IsActive:   true,
		LastActive: "Current",
		SourceUrl:  sourceUrl,
		ScrapedAt:  timezone.Now(),
	}
}

// Validate reports whether the record carries every required field.
func (o Organization) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("organization has no name")
	}
	if o.Type == "" {
		return fmt.Errorf("organization %q has no org_type", o.Name)
	}
	if o.SourceUrl == "" {
		return fmt.Errorf("organization %q has no source_url", o.Name)
	}
	if o.LastActive == "" {
		return fmt.Errorf("organization %q has no last_active", o.Name)
	}
	return nil
}
