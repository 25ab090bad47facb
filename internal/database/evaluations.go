package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kozaktomas/photoid/internal/compliance"
)

// Evaluation is one history row. Findings carry the rule outcomes verbatim;
// the photo itself is never stored.
type Evaluation struct {
	ID           string               `json:"id"`
	StandardID   string               `json:"standard_id"`
	SourceWidth  int                  `json:"source_width"`
	SourceHeight int                  `json:"source_height"`
	FaceDetected bool                 `json:"face_detected"`
	NeedsRetake  bool                 `json:"needs_retake"`
	Findings     []compliance.Finding `json:"findings"`
	CreatedAt    time.Time            `json:"created_at"`
}

// EvaluationRepository provides PostgreSQL-backed evaluation history
type EvaluationRepository struct {
	pool *Pool
}

// NewEvaluationRepository creates a new PostgreSQL evaluation repository
func NewEvaluationRepository(pool *Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

// Save stores one evaluation in the database
func (r *EvaluationRepository) Save(ctx context.Context, ev Evaluation) error {
	findings, err := json.Marshal(ev.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}

	query := `
		INSERT INTO evaluations (id, standard_id, source_width, source_height, face_detected, needs_retake, findings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query, ev.ID, ev.StandardID, ev.SourceWidth, ev.SourceHeight, ev.FaceDetected, ev.NeedsRetake, findings)
	if err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}
	return nil
}

// Get retrieves a single evaluation by ID, returns nil if not found
func (r *EvaluationRepository) Get(ctx context.Context, id string) (*Evaluation, error) {
	query := `
		SELECT id, standard_id, source_width, source_height, face_detected, needs_retake, findings, created_at
		FROM evaluations
		WHERE id = $1
	`

	var ev Evaluation
	var findings []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ev.ID,
		&ev.StandardID,
		&ev.SourceWidth,
		&ev.SourceHeight,
		&ev.FaceDetected,
		&ev.NeedsRetake,
		&findings,
		&ev.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}

	if err := json.Unmarshal(findings, &ev.Findings); err != nil {
		return nil, fmt.Errorf("unmarshal findings: %w", err)
	}
	return &ev, nil
}

// Recent returns the newest evaluations, newest first
func (r *EvaluationRepository) Recent(ctx context.Context, limit int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, standard_id, source_width, source_height, face_detected, needs_retake, findings, created_at
		FROM evaluations
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []Evaluation
	for rows.Next() {
		var ev Evaluation
		var findings []byte
		if err := rows.Scan(
			&ev.ID,
			&ev.StandardID,
			&ev.SourceWidth,
			&ev.SourceHeight,
			&ev.FaceDetected,
			&ev.NeedsRetake,
			&findings,
			&ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		if err := json.Unmarshal(findings, &ev.Findings); err != nil {
			return nil, fmt.Errorf("unmarshal findings: %w", err)
		}
		evals = append(evals, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return evals, nil
}

// Count returns the total number of stored evaluations
func (r *EvaluationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM evaluations").Scan(&count); err != nil {
		return 0, fmt.Errorf("count evaluations: %w", err)
	}
	return count, nil
}
