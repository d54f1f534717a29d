package service

import (
	"context"
	"fmt"

	"assetvault/internal/vision"
)

// AnalysisResult is the structured summary extracted from the model's
// free-text analysis. JSON field names are part of the public API contract.
type AnalysisResult struct {
	Analysis        string   `json:"analysis"`
	EstimatedValue  *float64 `json:"estimatedValue"`
	ConfidenceScore float64  `json:"confidenceScore"`
}

// AnalysisService turns an encoded camera frame into a structured valuation.
type AnalysisService interface {
	// Analyze decodes the data-URI image, submits it to the vision model,
	// and extracts a monetary estimate plus a heuristic confidence score
	// from the returned text.
	Analyze(ctx context.Context, imageDataURI string) (*AnalysisResult, error)
}

type analysisService struct {
	analyzer vision.Analyzer
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(analyzer vision.Analyzer) AnalysisService {
	return &analysisService{analyzer: analyzer}
}

func (s *analysisService) Analyze(ctx context.Context, imageDataURI string) (*AnalysisResult, error) {
	image, mimeType, err := vision.DecodeImageDataURI(imageDataURI)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	text, err := s.analyzer.Analyze(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	res := &AnalysisResult{
		Analysis:        text,
		ConfidenceScore: vision.ConfidenceScore(text),
	}
	if v, ok := vision.ExtractEstimate(text); ok {
		res.EstimatedValue = &v
	}
	return res, nil
}
