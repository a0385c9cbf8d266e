// Package fetch constructs the HTTP clients shared by all scrapers and
// abstracts "fetch this URL, give me the realized HTML" so extractors do not
// care whether a page is static or rendered client-side.
package fetch

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"
	"watclub-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Fetcher returns the realized HTML of a page.
type Fetcher interface {
	HTML(ctx context.Context, url string) (string, error)
}

// SelectorWaiter is implemented by fetchers that can hold off serializing a
// page until a selector appears. Extractors whose listing pages hydrate
// after load check for it and fall back to a plain fetch otherwise.
type SelectorWaiter interface {
	HTMLWait(ctx context.Context, url, selector string) (string, error)
}

// NewClient builds the resty client shared read-only across a pipeline run:
// cookie jar, cloudflare bypass transport, browser user-agent, bounded
// per-call timeout.
func NewClient() *resty.Client {
	client := resty.New()

	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "watclub.lib.fetch")
	return client
}

// Static fetches pages over plain HTTP. Good enough for every directory that
// ships its content in the initial response.
type Static struct {
	Client *resty.Client
}

func NewStatic(client *resty.Client) Static {
	return Static{Client: client}
}

func (s Static) HTML(ctx context.Context, url string) (string, error) {
	res, err := s.Client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("GET %s: status %d", url, res.StatusCode())
	}
	return res.String(), nil
}
