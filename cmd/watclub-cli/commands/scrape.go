package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
	"watclub-backend/lib/enrich"
	"watclub-backend/lib/fetch"
	"watclub-backend/lib/fetch/browser"
	"watclub-backend/lib/images"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/restyutil"
	"watclub-backend/lib/util/serviceutil"
	"watclub-backend/services/scraper"
	"watclub-backend/services/scraper/snapshot"
	"watclub-backend/services/scraper/sources/athletics"
	"watclub-backend/services/scraper/sources/design"
	"watclub-backend/services/scraper/sources/faculty"
	"watclub-backend/services/scraper/sources/wusa"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// the types that have a live extractor behind them
var scrapeableTypes = []orgs.Type{
	orgs.TypeWUSA,
	orgs.TypeDesignTeam,
	orgs.TypeFaculty,
	orgs.TypeAthletics,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func newEnricher(apiKey string) enrich.Client {
	gen, err := enrich.NewAnthropicGenerator(apiKey)
	if err != nil {
		if !errors.Is(err, enrich.ErrAPIKeyRequired) {
			serviceutil.Fatal("failed to initialize enrichment", err)
		}
		slog.Warn("no API key configured, scraping with fallback descriptions only")
		return enrich.NewClient(enrich.Unavailable{})
	}
	return enrich.NewClient(gen)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [types...]",
	Short: "Scrapes the given directory types (default: all scrapeable) and writes snapshot files.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		types, err := parseTypes(args, scrapeableTypes)
		if err != nil {
			serviceutil.Fatal("bad type argument", err)
		}

		client := fetch.NewClient()
		if cfg.DebugHttpDir != "" {
			restyutil.InstrumentClient(client, restyutil.NewFilesystemOutput(cfg.DebugHttpDir))
		}
		static := fetch.NewStatic(client)
		enricher := newEnricher(cfg.Anthropic.ApiKey)
		store := snapshot.NewStore(cfg.DataDir)
		opts := scraper.Options{Fanout: cfg.Fanout}

		var downloader *images.Downloader
		if cfg.ImagesDir != "" {
			d := images.NewDownloader(client, cfg.ImagesDir)
			downloader = &d
		}

		runners := map[orgs.Type]func(ctx context.Context) (scraper.Result, error){
			orgs.TypeWUSA: func(ctx context.Context) (scraper.Result, error) {
				return scraper.RunAndSave(ctx, wusa.New(static, enricher), store, opts)
			},
			orgs.TypeDesignTeam: func(ctx context.Context) (scraper.Result, error) {
				return scraper.RunAndSave(ctx, design.New(static, enricher), store, opts)
			},
			orgs.TypeFaculty: func(ctx context.Context) (scraper.Result, error) {
				return scraper.RunAndSave(ctx, faculty.New(static, enricher, downloader), store, opts)
			},
			orgs.TypeAthletics: func(ctx context.Context) (scraper.Result, error) {
				b, err := browser.Connect(browser.Options{
					RemoteURL: cfg.Browser.RemoteUrl,
				})
				if err != nil {
					return scraper.Result{Source: orgs.TypeAthletics}, err
				}
				defer b.Close()
				return scraper.RunAndSave(ctx, athletics.New(b, enricher), store, opts)
			},
		}
		for _, t := range types {
			if runners[t] == nil {
				serviceutil.Fatal("no scraper for type", fmt.Errorf("%s", t))
			}
		}

		ctx := cmd.Context()
		t1 := time.Now()

		var wg sync.WaitGroup
		results := make([]scraper.Result, len(types))
		failures := make([]error, len(types))
		for i, t := range types {
			wg.Add(1)
			go func(i int, t orgs.Type) {
				defer wg.Done()
				results[i], failures[i] = runners[t](ctx)
				if failures[i] != nil {
					slog.Error("scrape failed", "source", t, "err", failures[i])
				}
			}(i, t)
		}
		wg.Wait()

		slog.Info("scraping time", "seconds", time.Since(t1).Seconds())

		out := table.NewWriter()
		out.SetStyle(table.StyleRounded)
		out.SetOutputMirror(os.Stdout)
		out.AppendHeader(table.Row{"source", "records", "failed items", "error"})
		failed := false
		for i, result := range results {
			errText := ""
			if failures[i] != nil {
				failed = true
				errText = failures[i].Error()
			}
			out.AppendRow(table.Row{
				types[i],
				len(result.Records),
				len(result.Failures),
				errText,
			})
		}
		out.Render()

		if failed {
			os.Exit(1)
		}
	},
}
