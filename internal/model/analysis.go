package model

import "time"

// AssetAnalysis is the stored result of an AI vision analysis performed
// before submission. It is linked to its Asset after the asset row exists;
// the two writes are sequential, not transactional.
type AssetAnalysis struct {
	ID              string    `json:"id"`
	AssetID         *string   `json:"asset_id"`
	UserID          string    `json:"user_id"`
	AnalysisText    *string   `json:"analysis_text"`
	EstimatedValue  *float64  `json:"estimated_value"`
	ConfidenceScore *float64  `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}
