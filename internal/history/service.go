// Package history records finished evaluations in Postgres so score trends
// per organization can be queried later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/charapi/charapi/pkg/evaluate"
)

// Service provides evaluation history backed by Postgres.
type Service struct {
	db *sql.DB
}

// NewService creates a history Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Organization is a tracked organization.
type Organization struct {
	EIN       string
	Name      string
	CreatedAt time.Time
}

// EvaluationRow is one recorded evaluation. Result holds the full
// EvaluationResult document as JSON.
type EvaluationRow struct {
	ID          string
	EIN         string
	Score       float64
	Grade       string
	Summary     string
	Result      json.RawMessage
	ArchiveRef  *string
	EvaluatedAt time.Time
	CreatedAt   time.Time
}

// UpsertOrganization creates or renames a tracked organization.
func (s *Service) UpsertOrganization(ctx context.Context, ein, name string) (*Organization, error) {
	o := &Organization{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO organizations (ein, name)
		 VALUES ($1, $2)
		 ON CONFLICT (ein) DO UPDATE
		   SET name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE organizations.name END
		 RETURNING ein, name, created_at`,
		evaluate.NormalizeEIN(ein), name,
	).Scan(&o.EIN, &o.Name, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert organization %s: %w", ein, err)
	}
	return o, nil
}

// RecordEvaluation stores a finished evaluation and returns the stored row.
// archiveRef may be nil when archival is disabled.
func (s *Service) RecordEvaluation(ctx context.Context, result *evaluate.EvaluationResult, archiveRef *string) (*EvaluationRow, error) {
	if _, err := s.UpsertOrganization(ctx, result.EIN, result.OrganizationName); err != nil {
		return nil, err
	}

	doc, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal evaluation result: %w", err)
	}

	row := &EvaluationRow{}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO evaluations (id, ein, score, grade, summary, result, archive_ref, evaluated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, ein, score, grade, summary, result, archive_ref, evaluated_at, created_at`,
		uuid.New().String(), evaluate.NormalizeEIN(result.EIN),
		result.Score, result.Grade, result.Summary, doc, archiveRef, result.EvaluatedAt,
	).Scan(
		&row.ID, &row.EIN, &row.Score, &row.Grade, &row.Summary,
		&row.Result, &row.ArchiveRef, &row.EvaluatedAt, &row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record evaluation for %s: %w", result.EIN, err)
	}
	return row, nil
}

// ListEvaluations returns an organization's evaluations, newest first.
func (s *Service) ListEvaluations(ctx context.Context, ein string, limit int) ([]EvaluationRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ein, score, grade, summary, result, archive_ref, evaluated_at, created_at
		 FROM evaluations WHERE ein = $1
		 ORDER BY evaluated_at DESC LIMIT $2`,
		evaluate.NormalizeEIN(ein), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list evaluations for %s: %w", ein, err)
	}
	defer rows.Close()

	var out []EvaluationRow
	for rows.Next() {
		var row EvaluationRow
		if err := rows.Scan(
			&row.ID, &row.EIN, &row.Score, &row.Grade, &row.Summary,
			&row.Result, &row.ArchiveRef, &row.EvaluatedAt, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetEvaluation returns one evaluation by ID.
func (s *Service) GetEvaluation(ctx context.Context, id string) (*EvaluationRow, error) {
	row := &EvaluationRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, ein, score, grade, summary, result, archive_ref, evaluated_at, created_at
		 FROM evaluations WHERE id = $1`,
		id,
	).Scan(
		&row.ID, &row.EIN, &row.Score, &row.Grade, &row.Summary,
		&row.Result, &row.ArchiveRef, &row.EvaluatedAt, &row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get evaluation %s: %w", id, err)
	}
	return row, nil
}

// LatestEvaluation returns an organization's most recent evaluation.
func (s *Service) LatestEvaluation(ctx context.Context, ein string) (*EvaluationRow, error) {
	row := &EvaluationRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, ein, score, grade, summary, result, archive_ref, evaluated_at, created_at
		 FROM evaluations WHERE ein = $1
		 ORDER BY evaluated_at DESC LIMIT 1`,
		evaluate.NormalizeEIN(ein),
	).Scan(
		&row.ID, &row.EIN, &row.Score, &row.Grade, &row.Summary,
		&row.Result, &row.ArchiveRef, &row.EvaluatedAt, &row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("latest evaluation for %s: %w", ein, err)
	}
	return row, nil
}

// ListOrganizations returns every tracked organization, by EIN.
func (s *Service) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ein, name, created_at FROM organizations ORDER BY ein`,
	)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.EIN, &o.Name, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
