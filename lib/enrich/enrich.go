// Package enrich turns noisy page text into structured organization fields
// via an external text-generation service. Every entry point degrades to a
// deterministic fallback instead of propagating service failures.
package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"text/template"
	"watclub-backend/lib/htmlutil"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("watclub.lib.enrich")

// fallbackDescriptionLimit bounds how much raw text turns into a description
// when the service fails.
const fallbackDescriptionLimit = 500

// StructuredFields is the partial record an enrichment call produces.
// Unknown fields in the service response are ignored.
type StructuredFields struct {
	Description    string           `json:"description"`
	SocialMedia    orgs.SocialMedia `json:"social_media"`
	Tags           []string         `json:"tags"`
	MeetingInfo    string           `json:"meeting_info"`
	MembershipInfo string           `json:"membership_info"`
}

// ClubEntry is one club discovered by a directory-page parse.
type ClubEntry struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	SocialMedia orgs.SocialMedia `json:"social_media"`
	ImageUrl    string           `json:"image_url"`
}

type Client struct {
	gen TextGenerator
}

func NewClient(gen TextGenerator) Client {
	return Client{gen: gen}
}

// Enrich extracts structured fields from one organization's page text.
// Exactly one service attempt; on transport or parse failure it returns the
// fallback (raw text as description, empty social map) and never errors.
func (c Client) Enrich(ctx context.Context, rawText string) StructuredFields {
	ctx, span := tracer.Start(ctx, "Enrich")
	defer span.End()

	fallback := StructuredFields{
		Description: textutil.Truncate(rawText, fallbackDescriptionLimit),
		SocialMedia: orgs.SocialMedia{},
	}

	prompt, err := renderTemplate(enrichTemplate, enrichData{Content: rawText})
	if err != nil {
		span.RecordError(err)
		return fallback
	}

	response, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrichment call failed")
		slog.WarnContext(ctx, "enrichment call failed, using fallback", "err", err)
		return fallback
	}

	var fields StructuredFields
	err = json.Unmarshal([]byte(StripFences(response)), &fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrichment response did not parse")
		slog.WarnContext(ctx, "enrichment response did not parse, using fallback", "err", err)
		return fallback
	}

	fields.SocialMedia = fields.SocialMedia.Normalize()
	if fields.SocialMedia == nil {
		fields.SocialMedia = orgs.SocialMedia{}
	}
	return fields
}

// ParseDirectory extracts every club mentioned on a faculty directory page.
// Unlike Enrich there is no usable fallback: a page listing dozens of clubs
// cannot degrade to a single description, so failures surface as errors and
// the caller treats them as a listing failure.
func (c Client) ParseDirectory(ctx context.Context, faculty, pageText string, images []htmlutil.Image) ([]ClubEntry, error) {
	ctx, span := tracer.Start(ctx, "ParseDirectory")
	defer span.End()

	imagesJson, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}
	prompt, err := renderTemplate(directoryTemplate, directoryData{
		Faculty: faculty,
		Content: pageText,
		Images:  string(imagesJson),
	})
	if err != nil {
		return nil, err
	}

	response, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directory parse call failed")
		return nil, err
	}

	var entries []ClubEntry
	err = json.Unmarshal([]byte(StripFences(response)), &entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directory parse response did not parse")
		return nil, err
	}
	for i := range entries {
		entries[i].SocialMedia = entries[i].SocialMedia.Normalize()
	}
	return entries, nil
}

// Tag assigns 1-3 vocabulary tags to a record. Failures produce no tags
// rather than an error.
func (c Client) Tag(ctx context.Context, org orgs.Organization) []string {
	ctx, span := tracer.Start(ctx, "Tag")
	defer span.End()

	orgJson, err := json.Marshal(org)
	if err != nil {
		span.RecordError(err)
		return nil
	}
	prompt, err := renderTemplate(tagTemplate, tagData{
		Tags: strings.Join(Vocabulary, ", "),
		Club: string(orgJson),
	})
	if err != nil {
		span.RecordError(err)
		return nil
	}

	response, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tag call failed")
		slog.WarnContext(ctx, "tagging call failed", "org", org.Name, "err", err)
		return nil
	}

	var parsed struct {
		Tags []string `json:"tags"`
	}
	err = json.Unmarshal([]byte(StripFences(response)), &parsed)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "tagging response did not parse", "org", org.Name, "err", err)
		return nil
	}
	return parsed.Tags
}

// StripFences removes a leading/trailing markdown code fence from a service
// response, tolerating a ```json language marker.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if newline := strings.IndexByte(s, '\n'); newline != -1 {
		firstLine := strings.TrimSpace(s[:newline])
		// a bare language tag like "json" on the fence line
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]") {
			s = s[newline+1:]
		}
	}
	if end := strings.LastIndex(s, "```"); end != -1 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
