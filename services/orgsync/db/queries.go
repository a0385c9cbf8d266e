package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Organization struct {
	ID             int64
	Name           string
	OrgType        string
	Slug           string
	Description    string
	SocialMedia    string
	Faculty        string
	Category       string
	Tags           string
	MeetingInfo    string
	MembershipInfo string
	IsActive       bool
	LastActive     string
	SourceUrl      string
	ScrapedAt      string
}

type UpsertOrganizationParams struct {
	Name           string
	OrgType        string
	Slug           string
	Description    string
	SocialMedia    string
	Faculty        string
	Category       string
	Tags           string
	MeetingInfo    string
	MembershipInfo string
	IsActive       bool
	LastActive     string
	SourceUrl      string
	ScrapedAt      string
}

const upsertOrganization = `
INSERT INTO organizations (
	name, org_type, slug, description, social_media, faculty, category,
	tags, meeting_info, membership_info, is_active, last_active,
	source_url, scraped_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (name, org_type) DO UPDATE SET
	slug = excluded.slug,
	description = excluded.description,
	social_media = excluded.social_media,
	faculty = excluded.faculty,
	category = excluded.category,
	tags = excluded.tags,
	meeting_info = excluded.meeting_info,
	membership_info = excluded.membership_info,
	is_active = excluded.is_active,
	last_active = excluded.last_active,
	source_url = excluded.source_url,
	scraped_at = excluded.scraped_at
`

func (q *Queries) UpsertOrganization(ctx context.Context, arg UpsertOrganizationParams) error {
	_, err := q.db.ExecContext(ctx, upsertOrganization,
		arg.Name,
		arg.OrgType,
		arg.Slug,
		arg.Description,
		arg.SocialMedia,
		arg.Faculty,
		arg.Category,
		arg.Tags,
		arg.MeetingInfo,
		arg.MembershipInfo,
		arg.IsActive,
		arg.LastActive,
		arg.SourceUrl,
		arg.ScrapedAt,
	)
	return err
}

const getOrganization = `
SELECT id, name, org_type, slug, description, social_media, faculty,
	category, tags, meeting_info, membership_info, is_active, last_active,
	source_url, scraped_at
FROM organizations
WHERE name = ? AND org_type = ?
`

type GetOrganizationParams struct {
	Name    string
	OrgType string
}

func (q *Queries) GetOrganization(ctx context.Context, arg GetOrganizationParams) (Organization, error) {
	row := q.db.QueryRowContext(ctx, getOrganization, arg.Name, arg.OrgType)
	var o Organization
	err := row.Scan(
		&o.ID,
		&o.Name,
		&o.OrgType,
		&o.Slug,
		&o.Description,
		&o.SocialMedia,
		&o.Faculty,
		&o.Category,
		&o.Tags,
		&o.MeetingInfo,
		&o.MembershipInfo,
		&o.IsActive,
		&o.LastActive,
		&o.SourceUrl,
		&o.ScrapedAt,
	)
	return o, err
}

const countOrganizations = `SELECT COUNT(*) FROM organizations WHERE org_type = ?`

func (q *Queries) CountOrganizations(ctx context.Context, orgType string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countOrganizations, orgType)
	var count int64
	err := row.Scan(&count)
	return count, err
}
