package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/subtextlab/subtext/pkg/models"
)

// Analysis is a stored analysis record.
type Analysis struct {
	ID          uuid.UUID
	Text        string
	ContentType models.ContentType
	Status      models.Status
	Report      *models.DiagnosticReport
	CreatedAt   time.Time
}

// CreateAnalysisParams contains parameters for storing an analysis.
type CreateAnalysisParams struct {
	Text        string
	ContentType models.ContentType
	Report      *models.DiagnosticReport
}

// analysisColumns is the standard column list for analysis queries.
const analysisColumns = `id, text, content_type, status, report, created_at`

// scanAnalysis scans a row into an Analysis and unmarshals the report JSON.
func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	var reportJSON []byte
	err := row.Scan(&a.ID, &a.Text, &a.ContentType, &a.Status, &reportJSON, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalReport(reportJSON, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// unmarshalReport unmarshals report JSON into an Analysis if present.
func unmarshalReport(reportJSON []byte, a *Analysis) error {
	if reportJSON != nil {
		a.Report = &models.DiagnosticReport{}
		return json.Unmarshal(reportJSON, a.Report)
	}
	return nil
}

// CreateAnalysis stores a new analysis record.
func (db *DB) CreateAnalysis(ctx context.Context, params CreateAnalysisParams) (*Analysis, error) {
	reportJSON, err := json.Marshal(params.Report)
	if err != nil {
		return nil, err
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO analyses (text, content_type, status, report)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+analysisColumns,
		params.Text, params.ContentType, params.Report.Status, reportJSON,
	)
	return scanAnalysis(row)
}

// GetAnalysis retrieves an analysis by ID.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`,
		id,
	)
	return scanAnalysis(row)
}

// ListAnalysesParams contains parameters for listing analyses.
type ListAnalysesParams struct {
	Limit  int
	Offset int
	Status *models.Status
}

// ListAnalyses returns stored analyses, ordered by creation date descending.
func (db *DB) ListAnalyses(ctx context.Context, params ListAnalysesParams) ([]Analysis, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}

	var rows pgx.Rows
	var err error

	if params.Status != nil {
		rows, err = db.pool.Query(ctx,
			`SELECT `+analysisColumns+` FROM analyses
			 WHERE status = $1
			 ORDER BY created_at DESC
			 LIMIT $2 OFFSET $3`,
			*params.Status, params.Limit, params.Offset,
		)
	} else {
		rows, err = db.pool.Query(ctx,
			`SELECT `+analysisColumns+` FROM analyses
			 ORDER BY created_at DESC
			 LIMIT $1 OFFSET $2`,
			params.Limit, params.Offset,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		var reportJSON []byte
		if err := rows.Scan(&a.ID, &a.Text, &a.ContentType, &a.Status, &reportJSON, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalReport(reportJSON, &a); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// CountAnalysesSince returns the number of analyses created since a given time.
func (db *DB) CountAnalysesSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM analyses WHERE created_at >= $1`,
		since,
	).Scan(&count)
	return count, err
}

// DeleteAnalysis deletes an analysis by ID.
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM analyses WHERE id = $1`,
		id,
	)
	return err
}

// DeleteOldAnalyses deletes analyses created before the specified time.
func (db *DB) DeleteOldAnalyses(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM analyses WHERE created_at < $1`,
		olderThan,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
