package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"assetvault/internal/model"
	"assetvault/internal/repository"
	"assetvault/internal/storage"
)

var (
	ErrUserRequired = errors.New("user id is required")
	ErrIDRequired   = errors.New("id is required")
	ErrNotFound     = errors.New("asset not found")
)

// FileUpload is one media file attached to a submission.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// AnalysisInput carries the client's AI analysis result, forwarded with the
// submission so the server can persist it next to the asset.
type AnalysisInput struct {
	Text            string
	EstimatedValue  *float64
	ConfidenceScore *float64
}

// SubmitInput is everything a submission carries. Video and Lidar are both
// optional at this layer; the client UI is what requires at least one.
type SubmitInput struct {
	UserID      string
	Title       string
	Description string
	Video       *FileUpload
	Lidar       *FileUpload
	Analysis    *AnalysisInput
}

// AssetListResult is the service-level DTO for paginated assets.
type AssetListResult struct {
	Items []model.Asset `json:"data"`
	Total int           `json:"total"`
}

// AssetDetail is a single asset with time-limited download URLs for its media.
type AssetDetail struct {
	Asset    model.Asset `json:"asset"`
	VideoURL *string     `json:"video_url,omitempty"`
	LidarURL *string     `json:"lidar_url,omitempty"`
}

// AssetService defines the use cases for the submission workflow's server side.
type AssetService interface {
	// Submit uploads the present media files to their buckets under fresh
	// random keys, creates the asset row, and best-effort persists the
	// attached AI analysis. A failed upload aborts the submission; an
	// already-uploaded file for the other slot is not rolled back, so a
	// failed asset insert can leave orphaned objects behind.
	Submit(ctx context.Context, in SubmitInput) (*model.Asset, error)

	// List returns the user's assets using limit/offset and a total count.
	List(ctx context.Context, userID string, limit, offset int) (*AssetListResult, error)

	// Get returns one of the user's assets with presigned media URLs.
	Get(ctx context.Context, userID, id string) (*AssetDetail, error)
}

// Buckets names the storage destinations for each media kind.
type Buckets struct {
	Video string
	Lidar string
}

// assetService is a concrete implementation of AssetService.
type assetService struct {
	store         storage.Storage
	assets        repository.AssetRepository
	analyses      repository.AnalysisRepository
	buckets       Buckets
	presignExpiry time.Duration
}

// NewAssetService constructs a new AssetService.
func NewAssetService(store storage.Storage, assets repository.AssetRepository, analyses repository.AnalysisRepository, buckets Buckets, presignExpiry time.Duration) AssetService {
	return &assetService{
		store:         store,
		assets:        assets,
		analyses:      analyses,
		buckets:       buckets,
		presignExpiry: presignExpiry,
	}
}

func (s *assetService) Submit(ctx context.Context, in SubmitInput) (*model.Asset, error) {
	if in.UserID == "" {
		return nil, ErrUserRequired
	}

	title := in.Title
	if title == "" {
		title = model.DefaultTitle
	}

	var videoPath, lidarPath *string

	if in.Video != nil {
		key, err := s.uploadMedia(ctx, s.buckets.Video, in.Video)
		if err != nil {
			return nil, fmt.Errorf("upload video: %w", err)
		}
		videoPath = &key
	}

	if in.Lidar != nil {
		key, err := s.uploadMedia(ctx, s.buckets.Lidar, in.Lidar)
		if err != nil {
			return nil, fmt.Errorf("upload lidar scan: %w", err)
		}
		lidarPath = &key
	}

	var description *string
	if in.Description != "" {
		description = &in.Description
	}

	asset := &model.Asset{
		ID:               uuid.New().String(),
		UserID:           in.UserID,
		Title:            title,
		Description:      description,
		VideoPath:        videoPath,
		LidarPath:        lidarPath,
		Status:           model.StatusPending,
		ValidationStatus: model.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	stored, err := s.assets.Create(ctx, asset)
	if err != nil {
		// Uploaded objects are intentionally left in place; see Submit doc.
		return nil, fmt.Errorf("create asset record: %w", err)
	}

	if in.Analysis != nil {
		s.saveAnalysis(ctx, stored, in.Analysis)
	}

	return stored, nil
}

// uploadMedia stores one file under a fresh random key that preserves the
// original file's extension.
func (s *assetService) uploadMedia(ctx context.Context, bucket string, f *FileUpload) (string, error) {
	key := uuid.New().String() + filepath.Ext(f.Filename)

	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	info, err := s.store.Put(ctx, bucket, key, f.Reader, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: ct,
		Metadata: map[string]string{
			"original-filename": f.Filename,
		},
	})
	if err != nil {
		return "", err
	}
	return info.Key, nil
}

// saveAnalysis persists the client's AI analysis linked to the new asset.
// This is a best-effort secondary write: failure is logged and the
// submission still succeeds.
func (s *assetService) saveAnalysis(ctx context.Context, asset *model.Asset, in *AnalysisInput) {
	var text *string
	if in.Text != "" {
		text = &in.Text
	}
	analysis := &model.AssetAnalysis{
		ID:              uuid.New().String(),
		AssetID:         &asset.ID,
		UserID:          asset.UserID,
		AnalysisText:    text,
		EstimatedValue:  in.EstimatedValue,
		ConfidenceScore: in.ConfidenceScore,
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := s.analyses.Create(ctx, analysis); err != nil {
		logJSON(map[string]any{
			"component":     "service",
			"event":         "analysis_save_failed",
			"status":        "error",
			"asset_id":      asset.ID,
			"error_message": err.Error(),
		})
	}
}

// List returns paginated assets without exposing repository types.
func (s *assetService) List(ctx context.Context, userID string, limit, offset int) (*AssetListResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.assets.ListByUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AssetListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns one asset owned by the user, with presigned download URLs for
// whichever media it carries.
func (s *assetService) Get(ctx context.Context, userID, id string) (*AssetDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	asset, err := s.assets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Ownership check: other users' assets are indistinguishable from missing ones.
	if asset.UserID != userID {
		return nil, ErrNotFound
	}

	detail := &AssetDetail{Asset: *asset}

	if asset.VideoPath != nil {
		u, err := s.store.PresignGet(ctx, s.buckets.Video, *asset.VideoPath, s.presignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign video: %w", err)
		}
		detail.VideoURL = &u
	}
	if asset.LidarPath != nil {
		u, err := s.store.PresignGet(ctx, s.buckets.Lidar, *asset.LidarPath, s.presignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign lidar: %w", err)
		}
		detail.LidarURL = &u
	}

	return detail, nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal service log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
