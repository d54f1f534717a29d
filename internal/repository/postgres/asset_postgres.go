package postgres

import (
	"context"
	"database/sql"

	"assetvault/internal/model"
	"assetvault/internal/repository"
)

// AssetPostgres is a PostgreSQL implementation of repository.AssetRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AssetPostgres struct {
	db *sql.DB
}

// NewAssetPostgres creates a new AssetPostgres repository.
func NewAssetPostgres(db *sql.DB) *AssetPostgres {
	return &AssetPostgres{db: db}
}

var _ repository.AssetRepository = (*AssetPostgres)(nil)

const assetColumns = `id, user_id, title, description, video_path, lidar_path,
		status, validation_status, validation_notes, validator_id,
		blockchain_network, smart_contract_address, created_at`

func scanAsset(row interface{ Scan(...any) error }) (*model.Asset, error) {
	var a model.Asset
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Title,
		&a.Description,
		&a.VideoPath,
		&a.LidarPath,
		&a.Status,
		&a.ValidationStatus,
		&a.ValidationNotes,
		&a.ValidatorID,
		&a.BlockchainNetwork,
		&a.SmartContractAddress,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new asset row and returns the stored record.
func (r *AssetPostgres) Create(ctx context.Context, asset *model.Asset) (*model.Asset, error) {
	const q = `
		INSERT INTO assets (id, user_id, title, description, video_path, lidar_path, status, validation_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + assetColumns
	row := r.db.QueryRowContext(ctx, q,
		asset.ID,
		asset.UserID,
		asset.Title,
		asset.Description,
		asset.VideoPath,
		asset.LidarPath,
		asset.Status,
		asset.ValidationStatus,
		asset.CreatedAt,
	)
	return scanAsset(row)
}

// FindByID fetches a single asset by its ID.
func (r *AssetPostgres) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	const q = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE id = $1
	`
	return scanAsset(r.db.QueryRowContext(ctx, q, id))
}

// ListByUser returns a user's assets using LIMIT/OFFSET pagination and a total count.
func (r *AssetPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Asset], error) {
	// Count total rows for the user
	const qCount = `SELECT COUNT(*) FROM assets WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Asset]{
		Items: items,
		Total: total,
	}, nil
}
