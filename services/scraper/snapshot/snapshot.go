// Package snapshot reads and writes the per-source JSON files that hold the
// full current set of records for one source type. A snapshot is overwritten
// on every run, never appended to.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/textutil"
	"watclub-backend/lib/timezone"

	"github.com/antzucaro/matchr"
)

// name similarity above which two records in one snapshot look like the same
// organization scraped twice
const nearDuplicateThreshold = 0.95

type Snapshot struct {
	Scraper   string              `json:"scraper"`
	ScrapedAt time.Time           `json:"scraped_at"`
	Count     int                 `json:"count"`
	Data      []orgs.Organization `json:"data"`
}

type Store struct {
	dir string
}

func NewStore(dir string) Store {
	return Store{dir: dir}
}

func (s Store) path(source orgs.Type) string {
	return filepath.Join(s.dir, string(source), fmt.Sprintf("%s_data.json", source))
}

// Save overwrites the snapshot file for source. The write goes through a
// temp file + rename so a crash never leaves a half-written snapshot behind.
func (s Store) Save(source orgs.Type, records []orgs.Organization) error {
	warnNearDuplicates(source, records)

	snap := Snapshot{
		Scraper:   string(source),
		ScrapedAt: timezone.Now(),
		Count:     len(records),
		Data:      records,
	}
	contents, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	target := s.path(source)
	err = os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return err
	}

	tmp := target + ".tmp"
	err = os.WriteFile(tmp, contents, 0644)
	if err != nil {
		return err
	}
	err = os.Rename(tmp, target)
	if err != nil {
		return err
	}

	slog.Info("saved snapshot", "source", source, "count", len(records), "path", target)
	return nil
}

// Load reads the snapshot for source back as plain data.
func (s Store) Load(source orgs.Type) (Snapshot, error) {
	var snap Snapshot
	contents, err := os.ReadFile(s.path(source))
	if err != nil {
		return snap, err
	}
	err = json.Unmarshal(contents, &snap)
	if err != nil {
		return snap, fmt.Errorf("corrupt snapshot for %s: %w", source, err)
	}
	return snap, nil
}

// warnNearDuplicates flags pairs of records whose names are nearly identical.
// Diagnostic only: both records are kept, dedup is the remote upsert's job.
func warnNearDuplicates(source orgs.Type, records []orgs.Organization) {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = textutil.NormalizeName(r.Name)
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			similarity := matchr.JaroWinkler(names[i], names[j], false)
			if similarity >= nearDuplicateThreshold {
				slog.Warn("near-duplicate record names in snapshot",
					"source", source,
					"left", records[i].Name,
					"right", records[j].Name,
					"similarity", similarity,
				)
			}
		}
	}
}
