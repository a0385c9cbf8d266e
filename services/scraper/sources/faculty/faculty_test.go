package faculty

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"watclub-backend/lib/enrich"
	"watclub-backend/lib/images"
	"watclub-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
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

const directoryResponse = `[
	{"name": "Pure Math Club", "description": "For lovers of proofs.", "social_media": {"website": ["https://pmclub.uwaterloo.ca"]}},
	{"name": "Actsci Club", "description": "Actuarial science.", "social_media": {}}
]`

func singleDirectory(fetcher fakeFetcher, gen fakeGenerator) Extractor {
	ex := New(fetcher, enrich.NewClient(gen), nil)
	ex.Directories = map[string]string{"mathsoc": "https://mathsoc.test/community"}
	return ex
}

func TestListItems(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:faculty")
	defer cleanup()

	ex := singleDirectory(fakeFetcher{
		"https://mathsoc.test/community": `<html><body><h2>Clubs</h2></body></html>`,
	}, fakeGenerator{response: directoryResponse})

	items, err := ex.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "mathsoc", items[0].Faculty)
	require.Equal(t, "Pure Math Club", items[0].Entry.Name)
	require.Equal(t, "https://mathsoc.test/community", items[0].SourceUrl)
}

func TestListItemsPartialDirectoryFailure(t *testing.T) {
	// one directory down, the other still lists
	ex := New(fakeFetcher{
		"https://mathsoc.test/community": `<html><body>ok</body></html>`,
	}, enrich.NewClient(fakeGenerator{response: directoryResponse}), nil)
	ex.Directories = map[string]string{
		"mathsoc": "https://mathsoc.test/community",
		"engsoc":  "https://engsoc.test/affiliates",
	}

	items, err := ex.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestListItemsAllDirectoriesFail(t *testing.T) {
	ex := singleDirectory(fakeFetcher{}, fakeGenerator{})

	_, err := ex.ListItems(context.Background())
	require.Error(t, err)
}

func TestListItemsBadParse(t *testing.T) {
	// directory parse failure counts as a listing failure for that faculty
	ex := singleDirectory(fakeFetcher{
		"https://mathsoc.test/community": `<html><body>ok</body></html>`,
	}, fakeGenerator{response: "not json at all"})

	_, err := ex.ListItems(context.Background())
	require.Error(t, err)
}

func TestExtractOne(t *testing.T) {
	ex := singleDirectory(fakeFetcher{}, fakeGenerator{})

	org, err := ex.ExtractOne(context.Background(), Item{
		Faculty:   "mathsoc",
		SourceUrl: "https://mathsoc.test/community",
		Entry: enrich.ClubEntry{
			Name:        "Pure Math Club",
			Description: "For lovers of proofs.",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, org)
	require.Equal(t, "mathsoc", org.Faculty)
	require.Equal(t, "pure-math-club", org.Slug)
	require.NoError(t, org.Validate())
}

func TestExtractOneSkipsNamelessEntry(t *testing.T) {
	ex := singleDirectory(fakeFetcher{}, fakeGenerator{})

	org, err := ex.ExtractOne(context.Background(), Item{Faculty: "mathsoc"})
	require.NoError(t, err)
	require.Nil(t, org)
}

func TestExtractOneDownloadsImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	downloader := images.NewDownloader(resty.New(), dir)
	ex := New(nil, enrich.NewClient(fakeGenerator{}), &downloader)

	org, err := ex.ExtractOne(context.Background(), Item{
		Faculty:   "scisoc",
		SourceUrl: "https://scisoc.test/clubs",
		Entry: enrich.ClubEntry{
			Name:     "BioSoc",
			ImageUrl: server.URL + "/biosoc.png",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, org)

	_, err = os.Stat(filepath.Join(dir, "scisoc", "biosoc.png"))
	require.NoError(t, err)
}

func TestExtractOneKeepsRecordOnImageFailure(t *testing.T) {
	downloader := images.NewDownloader(resty.New(), t.TempDir())
	ex := New(nil, enrich.NewClient(fakeGenerator{}), &downloader)

	org, err := ex.ExtractOne(context.Background(), Item{
		Faculty:   "scisoc",
		SourceUrl: "https://scisoc.test/clubs",
		Entry: enrich.ClubEntry{
			Name:     "ChemClub",
			ImageUrl: "http://127.0.0.1:1/nope.png",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, org)
}
