package commands

import (
	"context"
	"fmt"
	"os"
	"watclub-backend/lib/configutil"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "watclub-cli",
	Short: "watclub-cli scrapes student-organization directories and syncs them to the hosted database.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	// DataDir is where snapshot files live. Default "data".
	DataDir string `json:"data_dir"`
	// ImagesDir is where downloaded club images land. Empty disables downloads.
	ImagesDir string `json:"images_dir"`
	// Fanout bounds per-source extraction concurrency.
	Fanout int `json:"fanout"`
	// DebugHttpDir, when set, dumps every HTTP transaction there.
	DebugHttpDir string `json:"debug_http_dir"`

	Anthropic struct {
		ApiKey string `json:"api_key"`
	} `json:"anthropic"`

	Database struct {
		// Url is a local sqlite path or a libsql:// url of the hosted instance.
		Url string `json:"url"`
		// AuthToken authenticates against a hosted instance.
		AuthToken string `json:"auth_token"`
	} `json:"database"`

	Browser struct {
		// RemoteUrl is the devtools websocket of an external Chrome.
		// Empty launches a local headless Chrome.
		RemoteUrl string `json:"remote_url"`
	} `json:"browser"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	return cfg
}

func parseTypes(args []string, fallback []orgs.Type) ([]orgs.Type, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	types := make([]orgs.Type, len(args))
	for i, arg := range args {
		t, err := orgs.ParseType(arg)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}
