package repository

import (
	"context"

	"assetvault/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

// AssetRepository defines data access for assets using SQL queries only.
// No business logic here — strictly persistence operations.
type AssetRepository interface {
	// Create inserts a new asset record.
	// The caller provides required fields (e.g., ID, CreatedAt) according to the database schema defaults.
	// Returns the stored asset (may include values set by the DB).
	Create(ctx context.Context, asset *model.Asset) (*model.Asset, error)

	// FindByID returns an asset by its ID.
	FindByID(ctx context.Context, id string) (*model.Asset, error)

	// ListByUser returns a paginated list of a user's assets and the total rows count.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Asset], error)
}

// AnalysisRepository defines data access for AI analysis records.
type AnalysisRepository interface {
	// Create inserts a new asset_analysis row linked to an existing asset.
	Create(ctx context.Context, analysis *model.AssetAnalysis) (*model.AssetAnalysis, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
