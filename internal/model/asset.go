package model

import "time"

// Asset statuses. New submissions always start out pending on both tracks;
// downstream validation and tokenization move them forward.
const (
	StatusPending = "pending"

	// DefaultTitle is used when a submission arrives with a blank title.
	DefaultTitle = "Untitled Asset"
)

// Asset represents a physical item documented for eventual tokenization.
// This is a pure domain model with no database-specific dependencies or tags.
// VideoPath and LidarPath are opaque object-storage keys; either may be
// absent, but a meaningful submission carries at least one of them.
type Asset struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	Title                string    `json:"title"`
	Description          *string   `json:"description"`
	VideoPath            *string   `json:"video_path"`
	LidarPath            *string   `json:"lidar_path"`
	Status               string    `json:"status"`
	ValidationStatus     string    `json:"validation_status"`
	ValidationNotes      *string   `json:"validation_notes,omitempty"`
	ValidatorID          *string   `json:"validator_id,omitempty"`
	BlockchainNetwork    *string   `json:"blockchain_network,omitempty"`
	SmartContractAddress *string   `json:"smart_contract_address,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}
