package postgres

import (
	"context"
	"database/sql"

	"assetvault/internal/model"
	"assetvault/internal/repository"
)

// AnalysisPostgres is a PostgreSQL implementation of repository.AnalysisRepository.
type AnalysisPostgres struct {
	db *sql.DB
}

// NewAnalysisPostgres creates a new AnalysisPostgres repository.
func NewAnalysisPostgres(db *sql.DB) *AnalysisPostgres {
	return &AnalysisPostgres{db: db}
}

var _ repository.AnalysisRepository = (*AnalysisPostgres)(nil)

// Create inserts a new asset_analysis row and returns the stored record.
func (r *AnalysisPostgres) Create(ctx context.Context, analysis *model.AssetAnalysis) (*model.AssetAnalysis, error) {
	const q = `
		INSERT INTO asset_analysis (id, asset_id, user_id, analysis_text, estimated_value, confidence_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, asset_id, user_id, analysis_text, estimated_value, confidence_score, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		analysis.ID,
		analysis.AssetID,
		analysis.UserID,
		analysis.AnalysisText,
		analysis.EstimatedValue,
		analysis.ConfidenceScore,
		analysis.CreatedAt,
	)
	var out model.AssetAnalysis
	if err := row.Scan(
		&out.ID,
		&out.AssetID,
		&out.UserID,
		&out.AnalysisText,
		&out.EstimatedValue,
		&out.ConfidenceScore,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
