package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/briefdeck/briefdeck/internal/port/audit"
)

// AuditStore implements audit.Store on PostgreSQL. Rows are append-only.
type AuditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore creates an AuditStore backed by the given connection pool.
func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

// RecordAcquisition inserts an audit row and fills in the generated ID and
// timestamp.
func (s *AuditStore) RecordAcquisition(ctx context.Context, rec *audit.Record) error {
	const q = `
		INSERT INTO acquisition_audit (acquisition_id, platform, connection_id, project_id, source, route, attempts, duration_ms, risk_level, completion_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, q,
		rec.AcquisitionID, rec.Platform, rec.ConnectionID, rec.ProjectID,
		string(rec.Source), rec.Route, rec.Attempts, rec.DurationMS,
		rec.RiskLevel, rec.CompletionRate,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("record acquisition: %w", err)
	}
	return nil
}

// ListRecent returns the most recent audit rows, newest first.
func (s *AuditStore) ListRecent(ctx context.Context, limit int) ([]audit.Record, error) {
	const q = `
		SELECT id, acquisition_id, platform, connection_id, project_id, source, route, attempts, duration_ms, risk_level, completion_rate, created_at
		FROM acquisition_audit
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent acquisitions: %w", err)
	}
	defer rows.Close()

	var result []audit.Record
	for rows.Next() {
		var rec audit.Record
		if err := rows.Scan(
			&rec.ID, &rec.AcquisitionID, &rec.Platform, &rec.ConnectionID,
			&rec.ProjectID, &rec.Source, &rec.Route, &rec.Attempts,
			&rec.DurationMS, &rec.RiskLevel, &rec.CompletionRate, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// FallbackRate returns the fraction of acquisitions since the given time that
// were served from fallback data. Returns 0 when there were no acquisitions.
func (s *AuditStore) FallbackRate(ctx context.Context, since time.Time) (float64, error) {
	const q = `
		SELECT count(*) FILTER (WHERE source = 'fallback'), count(*)
		FROM acquisition_audit
		WHERE created_at >= $1`

	var fallbacks, total int64
	if err := s.pool.QueryRow(ctx, q, since).Scan(&fallbacks, &total); err != nil {
		return 0, fmt.Errorf("fallback rate: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(fallbacks) / float64(total), nil
}
