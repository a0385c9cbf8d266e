// Package scraper drives one source extractor end-to-end: list the raw
// items, fan out per-item extraction with bounded concurrency, isolate
// per-item failures, and persist the surviving records as a snapshot.
package scraper

import (
	"context"
	"log/slog"
	"sync"
	"watclub-backend/lib/orgs"
	"watclub-backend/services/scraper/snapshot"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("watclub.services.scraper")

const defaultFanout = 8

// Extractor produces the records visible at one source right now.
//
// ListItems fails when the source is unreachable; the pipeline treats that as
// fatal for the run. ExtractOne maps one raw item to a record; returning
// (nil, nil) means the item is recognized but intentionally skipped, while an
// error is an isolated per-item failure that never aborts siblings. ItemName
// gives a raw item's printable identity for failure logs.
type Extractor[T any] interface {
	Source() orgs.Type
	ListItems(ctx context.Context) ([]T, error)
	ExtractOne(ctx context.Context, item T) (*orgs.Organization, error)
	ItemName(item T) string
}

type Failure struct {
	// Item is the raw payload's printable identity, kept for diagnosis.
	Item string
	Err  error
}

type Result struct {
	Source   orgs.Type
	Records  []orgs.Organization
	Failures []Failure
}

type Options struct {
	// Fanout bounds how many items are extracted concurrently. The sites and
	// the enrichment service both rate-limit, so unbounded fan-out is not an
	// option here. Default 8.
	Fanout int
}

// Run lists the source and extracts every item concurrently. It returns a
// SourceUnavailableError when listing fails; per-item failures end up in
// Result.Failures, logged, without affecting the rest of the batch. Record
// order is unspecified.
func Run[T any](ctx context.Context, ex Extractor[T], opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	source := ex.Source()
	span.SetAttributes(attribute.String("source", string(source)))
	result := Result{Source: source}

	fanout := opts.Fanout
	if fanout <= 0 {
		fanout = defaultFanout
	}

	items, err := ex.ListItems(ctx)
	if err != nil {
		err = &SourceUnavailableError{Source: string(source), Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing failed")
		return result, err
	}
	slog.InfoContext(ctx, "listed source", "source", source, "items", len(items))

	var mu sync.Mutex
	ForEachLimit(len(items), fanout, func(i int) {
		item := items[i]

		org, err := ex.ExtractOne(ctx, item)
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			name := ex.ItemName(item)
			failure := Failure{Item: name, Err: &ExtractError{Item: name, Err: err}}
			result.Failures = append(result.Failures, failure)
			slog.ErrorContext(ctx, "failed to extract item",
				"source", source,
				"item", failure.Item,
				"err", err,
			)
			return
		}
		if org == nil {
			// intentional skip
			return
		}
		result.Records = append(result.Records, *org)
	})

	span.SetAttributes(
		attribute.Int("records", len(result.Records)),
		attribute.Int("failures", len(result.Failures)),
	)
	slog.InfoContext(ctx, "source complete",
		"source", source,
		"records", len(result.Records),
		"failures", len(result.Failures),
	)
	return result, nil
}

// RunAndSave runs the extractor and writes the snapshot once every item has
// resolved. Nothing is written when listing fails; a failed write is a
// PersistenceError for this source only.
func RunAndSave[T any](ctx context.Context, ex Extractor[T], store snapshot.Store, opts Options) (Result, error) {
	result, err := Run(ctx, ex, opts)
	if err != nil {
		return result, err
	}

	err = store.Save(result.Source, result.Records)
	if err != nil {
		return result, &PersistenceError{Source: string(result.Source), Err: err}
	}
	return result, nil
}
