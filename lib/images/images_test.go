package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("content-type", "image/png")
		w.Write([]byte("not-really-a-png"))
	}))
	defer server.Close()

	dir := t.TempDir()
	d := NewDownloader(resty.New(), dir)

	rel, err := d.Download(context.Background(), server.URL+"/logo", "faculty", "pure-math-club")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("faculty", "pure-math-club.png"), rel)

	contents, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	require.Equal(t, "not-really-a-png", string(contents))

	// second download for the same slug is a no-op
	rel2, err := d.Download(context.Background(), server.URL+"/logo", "faculty", "pure-math-club")
	require.NoError(t, err)
	require.Equal(t, rel, rel2)
	require.Equal(t, int32(1), hits.Load())
}

func TestDownloadErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := NewDownloader(resty.New(), t.TempDir())
	_, err := d.Download(context.Background(), server.URL+"/missing", "wusa", "x")
	require.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	require.Equal(t, ".jpg", extensionFor("image/jpeg", "https://x/a"))
	require.Equal(t, ".webp", extensionFor("image/webp", "https://x/a"))
	require.Equal(t, ".svg", extensionFor("image/svg+xml", "https://x/a"))
	require.Equal(t, ".png", extensionFor("", "https://x/logo.png"))
	require.Equal(t, ".jpg", extensionFor("application/octet-stream", "https://x/blob"))
}
