package commands

import (
	"log/slog"
	"sync/atomic"
	"watclub-backend/lib/enrich"
	"watclub-backend/lib/util/serviceutil"
	"watclub-backend/services/scraper"
	"watclub-backend/services/scraper/snapshot"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tagCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag [types...]",
	Short: "Assigns vocabulary tags to every record in the given snapshots and rewrites them.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		types, err := parseTypes(args, scrapeableTypes)
		if err != nil {
			serviceutil.Fatal("bad type argument", err)
		}

		gen, err := enrich.NewAnthropicGenerator(cfg.Anthropic.ApiKey)
		if err != nil {
			serviceutil.Fatal("tagging needs a working generator", err)
		}
		enricher := enrich.NewClient(gen)
		store := snapshot.NewStore(cfg.DataDir)

		ctx := cmd.Context()
		for _, source := range types {
			snap, err := store.Load(source)
			if err != nil {
				slog.Error("cannot load snapshot, skipping", "source", source, "err", err)
				continue
			}

			var tagged atomic.Int32
			scraper.ForEachLimit(len(snap.Data), cfg.Fanout, func(i int) {
				tags := enricher.Tag(ctx, snap.Data[i])
				if tags == nil {
					return
				}
				snap.Data[i].Tags = tags
				tagged.Add(1)
			})

			err = store.Save(source, snap.Data)
			if err != nil {
				serviceutil.Fatal("failed to rewrite snapshot", err)
			}
			slog.Info("tagged snapshot", "source", source, "tagged", tagged.Load(), "total", len(snap.Data))
		}
	},
}
