package scraper

import "fmt"

// The three error tiers of a scrape run:
//
//   - SourceUnavailableError: listing the source failed, the whole run for
//     that source produces nothing. Fatal, not retried.
//   - ExtractError: one raw item failed unexpectedly. Isolated, logged,
//     dropped; siblings keep going.
//   - PersistenceError: the snapshot write failed after extraction. Fatal
//     for that source only; other sources run independently.
//
// Enrichment failures are absorbed inside lib/enrich and never surface here.

type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

type ExtractError struct {
	Item string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract item %s: %v", e.Item, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

type PersistenceError struct {
	Source string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s results: %v", e.Source, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
