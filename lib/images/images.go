// Package images downloads organization logos to deterministic paths derived
// from the record's slug.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
)

type Downloader struct {
	client *resty.Client
	dir    string
}

func NewDownloader(client *resty.Client, dir string) Downloader {
	return Downloader{client: client, dir: dir}
}

// extensions in priority order; content-type wins over url suffix.
var contentTypeExts = []struct {
	match string
	ext   string
}{
	{"jpeg", ".jpg"},
	{"jpg", ".jpg"},
	{"png", ".png"},
	{"webp", ".webp"},
	{"gif", ".gif"},
	{"svg", ".svg"},
}

func extensionFor(contentType, url string) string {
	contentType = strings.ToLower(contentType)
	for _, e := range contentTypeExts {
		if strings.Contains(contentType, e.match) {
			return e.ext
		}
	}
	if ext := strings.ToLower(filepath.Ext(url)); ext != "" {
		for _, e := range contentTypeExts {
			if ext == e.ext || ext == "."+e.match {
				return e.ext
			}
		}
	}
	return ".jpg"
}

// Download fetches imageUrl and persists it under <dir>/<group>/<slug><ext>,
// returning the relative path. The download is idempotent: when a file for
// the slug already exists it is kept and its path returned.
func (d Downloader) Download(ctx context.Context, imageUrl, group, slug string) (string, error) {
	targetDir := filepath.Join(d.dir, group)

	// existing file for this slug, regardless of extension, means done
	matches, _ := filepath.Glob(filepath.Join(targetDir, slug+".*"))
	if len(matches) > 0 {
		rel, err := filepath.Rel(d.dir, matches[0])
		if err != nil {
			return "", err
		}
		slog.DebugContext(ctx, "image already exists", "slug", slug, "path", rel)
		return rel, nil
	}

	res, err := d.client.R().
		SetContext(ctx).
		Get(imageUrl)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("GET %s: status %d", imageUrl, res.StatusCode())
	}

	err = os.MkdirAll(targetDir, 0755)
	if err != nil {
		return "", err
	}

	ext := extensionFor(res.Header().Get("content-type"), imageUrl)
	target := filepath.Join(targetDir, slug+ext)
	err = os.WriteFile(target, res.Body(), 0644)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(d.dir, target)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "saved image", "slug", slug, "path", rel)
	return rel, nil
}
