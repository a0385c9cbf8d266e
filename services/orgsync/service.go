// Package orgsync pushes snapshot files into the hosted organizations
// database. Each source type syncs independently; a record is keyed by
// (name, org_type) so re-syncing the same snapshot is idempotent.
package orgsync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"watclub-backend/lib/orgs"
	"watclub-backend/services/orgsync/db"
	"watclub-backend/services/scraper/snapshot"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/orgsync")

type Service struct {
	db        *sql.DB
	qry       *db.Queries
	snapshots snapshot.Store
}

func NewService(database *sql.DB, snapshots snapshot.Store) Service {
	return Service{
		db:        database,
		qry:       db.New(database),
		snapshots: snapshots,
	}
}

// toParams flattens a record into database columns. Social media and tags
// are stored as JSON text so the schema stays one flat table.
func toParams(org orgs.Organization) (db.UpsertOrganizationParams, error) {
	socialMedia := []byte("{}")
	if normalized := org.SocialMedia.Normalize(); normalized != nil {
		var err error
		socialMedia, err = json.Marshal(normalized)
		if err != nil {
			return db.UpsertOrganizationParams{}, err
		}
	}
	tags := []byte("[]")
	if len(org.Tags) > 0 {
		var err error
		tags, err = json.Marshal(org.Tags)
		if err != nil {
			return db.UpsertOrganizationParams{}, err
		}
	}
	return db.UpsertOrganizationParams{
		Name:           org.Name,
		OrgType:        string(org.Type),
		Slug:           org.Slug,
		Description:    org.Description,
		SocialMedia:    string(socialMedia),
		Faculty:        org.Faculty,
		Category:       org.Category,
		Tags:           string(tags),
		MeetingInfo:    org.MeetingInfo,
		MembershipInfo: org.MembershipInfo,
		IsActive:       org.IsActive,
		LastActive:     org.LastActive,
		SourceUrl:      org.SourceUrl,
		ScrapedAt:      org.ScrapedAt.Format(time.RFC3339),
	}, nil
}

// SyncType loads the snapshot for source and upserts every record in a
// single transaction. Either the whole snapshot lands or none of it does.
// Returns the number of records written.
func (s Service) SyncType(ctx context.Context, source orgs.Type) (int, error) {
	ctx, span := tracer.Start(ctx, "SyncType")
	defer span.End()

	span.SetAttributes(attribute.String("source", string(source)))

	snap, err := s.snapshots.Load(source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("load snapshot for %s: %w", source, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, org := range snap.Data {
		// records always belong to the snapshot they came from
		org.Type = source
		if err := org.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
		params, err := toParams(org)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
		err = txqry.UpsertOrganization(ctx, params)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, fmt.Errorf("upsert %q (%s): %w", org.Name, source, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	slog.Info("synced snapshot to database", "source", source, "count", len(snap.Data))
	return len(snap.Data), nil
}

// SyncAll syncs every given source type concurrently. One type failing
// never blocks the others; all failures come back joined.
func (s Service) SyncAll(ctx context.Context, types []orgs.Type) error {
	ctx, span := tracer.Start(ctx, "SyncAll")
	defer span.End()

	var wg sync.WaitGroup
	errs := make([]error, len(types))
	for i, source := range types {
		wg.Add(1)
		go func(i int, source orgs.Type) {
			defer wg.Done()
			_, err := s.SyncType(ctx, source)
			if err != nil {
				slog.Error("sync failed", "source", source, "err", err)
				errs[i] = err
			}
		}(i, source)
	}
	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
