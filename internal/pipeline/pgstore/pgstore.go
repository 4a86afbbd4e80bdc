// Package pgstore provides a PostgreSQL implementation of pipeline.Store.
package pgstore

import (
	_ "embed"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinelcare/pulse/internal/pipeline"
)

var tracer = otel.Tracer("github.com/sentinelcare/pulse/internal/pipeline/pgstore")

//go:embed schema.sql
var schema string

// Store persists evaluation run records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const runColumns = `id, patient_id, status, severity, risk_score, risk_label,
	model_version, alert_id, error, created_at, completed_at, duration_s`

// Get retrieves a run record by ID.
//
//nolint:dupl // similar structure to LatestByPatient is intentional
func (s *Store) Get(ctx context.Context, id string) (*pipeline.Run, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + runColumns + ` FROM evaluation_runs WHERE id = $1`
	r, err := scanRun(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if r == nil {
		return nil, false, nil
	}
	return r, true, nil
}

// LatestByPatient retrieves the most recent run record for a patient.
//
//nolint:dupl // similar structure to Get is intentional
func (s *Store) LatestByPatient(ctx context.Context, patientID string) (*pipeline.Run, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.LatestByPatient", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + runColumns + ` FROM evaluation_runs
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT 1`
	r, err := scanRun(s.pool.QueryRow(ctx, query, patientID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if r == nil {
		return nil, false, nil
	}
	return r, true, nil
}

// Put inserts or updates a run record.
func (s *Store) Put(ctx context.Context, r *pipeline.Run) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	var completedAt *time.Time
	if !r.CompletedAt.IsZero() {
		completedAt = &r.CompletedAt
	}

	query := `INSERT INTO evaluation_runs (
		id, patient_id, status, severity, risk_score, risk_label,
		model_version, alert_id, error, created_at, completed_at, duration_s
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	ON CONFLICT (id) DO UPDATE SET
		status        = EXCLUDED.status,
		severity      = EXCLUDED.severity,
		risk_score    = EXCLUDED.risk_score,
		risk_label    = EXCLUDED.risk_label,
		model_version = EXCLUDED.model_version,
		alert_id      = EXCLUDED.alert_id,
		error         = EXCLUDED.error,
		completed_at  = EXCLUDED.completed_at,
		duration_s    = EXCLUDED.duration_s`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.PatientID, string(r.Status), string(r.Severity), r.RiskScore, r.RiskLabel,
		r.ModelVersion, r.AlertID, r.Error, r.CreatedAt, completedAt, r.Duration,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

func scanRun(row pgx.Row) (*pipeline.Run, error) {
	var r pipeline.Run
	var completedAt *time.Time
	err := row.Scan(
		&r.ID, &r.PatientID, &r.Status, &r.Severity, &r.RiskScore, &r.RiskLabel,
		&r.ModelVersion, &r.AlertID, &r.Error, &r.CreatedAt, &completedAt, &r.Duration,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if completedAt != nil {
		r.CompletedAt = *completedAt
	}
	return &r, nil
}
