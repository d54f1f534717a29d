package vision

import "context"

// Package vision wraps the external image analysis model behind a small
// interface so the parsing logic and handlers can be tested without network
// access.

// valuationPrompt is the fixed instruction sent with every asset image.
const valuationPrompt = "Analyze this image of a valuable asset. Please provide: " +
	"1) A detailed description of what you see " +
	"2) An estimated market value range if possible " +
	"3) Any notable features or characteristics that make it valuable. " +
	"Be specific but concise."

// Analyzer produces a free-text valuation analysis for a single still image.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (string, error)
}
