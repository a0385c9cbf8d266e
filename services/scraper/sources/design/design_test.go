package design

import (
	"context"
	"fmt"
	"testing"
	"watclub-backend/lib/enrich"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type fakeFetcher map[string]string

func (f fakeFetcher) HTML(ctx context.Context, url string) (string, error) {
	html, ok := f[url]
	if !ok {
		return "", fmt.Errorf("GET %s: status 404", url)
	}
	return html, nil
}

type fakeGenerator struct {
	response string
	err      error
}

func (f fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

const directoryPage = `<html><body>
	<details>
		<summary class="details__summary">Midnight Sun</summary>
		<div class="details__content">Solar car team. Contact: team@midnightsun.ca</div>
	</details>
	<details>
		<summary class="details__summary">Waterloo Rocketry</summary>
		<div class="details__content">We build rockets. IG @uwrocketry</div>
	</details>
</body></html>`

func TestListItems(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:design")
	defer cleanup()

	ex := New(fakeFetcher{
		"https://sedra.test/directory": directoryPage,
	}, enrich.NewClient(fakeGenerator{}))
	ex.DirectoryUrl = "https://sedra.test/directory"

	items, err := ex.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Midnight Sun", items[0].Name)
	require.Contains(t, items[0].SectionText, "Solar car team")
	require.Equal(t, "Waterloo Rocketry", items[1].Name)
}

func TestListItemsSourceDown(t *testing.T) {
	ex := New(fakeFetcher{}, enrich.NewClient(fakeGenerator{}))
	_, err := ex.ListItems(context.Background())
	require.Error(t, err)
}

func TestExtractOne(t *testing.T) {
	ex := New(nil, enrich.NewClient(fakeGenerator{
		response: `{"description": "Solar car team.", "social_media": {"email": ["team@midnightsun.ca"]}}`,
	}))

	org, err := ex.ExtractOne(context.Background(), Item{
		Name:        "Midnight Sun",
		SectionText: "Solar car team. Contact: team@midnightsun.ca",
	})
	require.NoError(t, err)
	require.NotNil(t, org)
	require.Equal(t, orgs.TypeDesignTeam, org.Type)
	require.Equal(t, "Solar car team.", org.Description)
	require.Equal(t, []string{"team@midnightsun.ca"}, org.SocialMedia["email"])
	require.NoError(t, org.Validate())
}

func TestExtractOneEnrichmentFallback(t *testing.T) {
	// service failure falls back to section text, never errors
	ex := New(nil, enrich.NewClient(fakeGenerator{err: fmt.Errorf("overloaded")}))

	org, err := ex.ExtractOne(context.Background(), Item{
		Name:        "Waterloo Rocketry",
		SectionText: "We build rockets.",
	})
	require.NoError(t, err)
	require.NotNil(t, org)
	require.Equal(t, "We build rockets.", org.Description)
	require.Empty(t, org.SocialMedia)
}

func TestExtractOneSkipsEmptySection(t *testing.T) {
	ex := New(nil, enrich.NewClient(fakeGenerator{}))

	org, err := ex.ExtractOne(context.Background(), Item{Name: "Ghost Team"})
	require.NoError(t, err)
	require.Nil(t, org)
}
