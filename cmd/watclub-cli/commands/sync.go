package commands

import (
	"fmt"
	"watclub-backend/lib/sqliteutil"
	"watclub-backend/lib/util/serviceutil"
	"watclub-backend/services/orgsync"
	"watclub-backend/services/orgsync/db"
	"watclub-backend/services/scraper/snapshot"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [types...]",
	Short: "Pushes snapshot files to the organizations database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if cfg.Database.Url == "" {
			serviceutil.Fatal("cannot sync", fmt.Errorf("database.url is not configured"))
		}

		types, err := parseTypes(args, scrapeableTypes)
		if err != nil {
			serviceutil.Fatal("bad type argument", err)
		}

		target := cfg.Database.Url
		if cfg.Database.AuthToken != "" {
			target += "?authToken=" + cfg.Database.AuthToken
		}
		database, err := sqliteutil.OpenDB(db.Schema, target)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		service := orgsync.NewService(database, snapshot.NewStore(cfg.DataDir))
		err = service.SyncAll(cmd.Context(), types)
		if err != nil {
			serviceutil.Fatal("sync did not complete", err)
		}
	},
}
