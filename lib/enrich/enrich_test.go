package enrich

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"watclub-backend/lib/htmlutil"
	"watclub-backend/lib/orgs"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestEnrich(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"description": "A club for chess players.",
		"social_media": {
			"instagram": ["https://instagram.com/uwchess", "https://instagram.com/uwchess"],
			"facebook": []
		},
		"meeting_info": "Fridays 6pm, SLC"
	}`}
	client := NewClient(gen)

	fields := client.Enrich(context.Background(), "raw page text")
	require.Equal(t, "A club for chess players.", fields.Description)
	require.Equal(t, orgs.SocialMedia{
		"instagram": {"https://instagram.com/uwchess"},
	}, fields.SocialMedia)
	require.Equal(t, "Fridays 6pm, SLC", fields.MeetingInfo)
}

func TestEnrichFencedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"description\": \"d\", \"social_media\": {}}\n```"}
	client := NewClient(gen)

	fields := client.Enrich(context.Background(), "raw")
	require.Equal(t, "d", fields.Description)
}

func TestEnrichFallbackOnTransportFailure(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("service unavailable")}
	client := NewClient(gen)

	raw := strings.Repeat("long raw text ", 100)
	fields := client.Enrich(context.Background(), raw)
	require.Equal(t, orgs.SocialMedia{}, fields.SocialMedia)
	require.True(t, strings.HasPrefix(raw, fields.Description))
	require.LessOrEqual(t, len(fields.Description), fallbackDescriptionLimit)
	// exactly one attempt, no retry
	require.Len(t, gen.prompts, 1)
}

func TestEnrichFallbackOnGarbageResponse(t *testing.T) {
	gen := &fakeGenerator{response: "I could not find any clubs, sorry!"}
	client := NewClient(gen)

	fields := client.Enrich(context.Background(), "original text")
	require.Equal(t, "original text", fields.Description)
	require.Equal(t, orgs.SocialMedia{}, fields.SocialMedia)
}

func TestParseDirectory(t *testing.T) {
	gen := &fakeGenerator{response: `[
		{"name": "Pure Math Club", "description": "math", "social_media": {"website": ["https://pmclub.uwaterloo.ca"]}, "image_url": "https://x/pm.png"},
		{"name": "Actsci Club", "description": "actuarial science", "social_media": {}}
	]`}
	client := NewClient(gen)

	entries, err := client.ParseDirectory(
		context.Background(),
		"mathsoc",
		"page text",
		[]htmlutil.Image{{Src: "https://x/pm.png", Alt: "pure math"}},
	)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Pure Math Club", entries[0].Name)
	require.Equal(t, "https://x/pm.png", entries[0].ImageUrl)
	require.Nil(t, entries[1].SocialMedia)
}

func TestParseDirectoryFailure(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("timeout")}
	client := NewClient(gen)

	_, err := client.ParseDirectory(context.Background(), "engsoc", "text", nil)
	require.Error(t, err)
}

func TestTag(t *testing.T) {
	gen := &fakeGenerator{response: "```\n{\"tags\": [\"Gaming\", \"Boardgames\"]}\n```"}
	client := NewClient(gen)

	org := orgs.New("Boardgames Club", orgs.TypeWUSA, "https://clubs.wusa.ca/clubs/bg")
	require.Equal(t, []string{"Gaming", "Boardgames"}, client.Tag(context.Background(), org))
}

func TestTagFailureYieldsNoTags(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("nope")}
	client := NewClient(gen)

	org := orgs.New("x", orgs.TypeWUSA, "https://clubs.wusa.ca/clubs/x")
	require.Nil(t, client.Tag(context.Background(), org))
}

func TestStripFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
	require.Equal(t, `[1,2]`, StripFences("  ```json\n[1,2]\n```  "))
}
