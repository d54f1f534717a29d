package vision

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// currencyPattern matches the first currency-formatted substring in the
// model's free-text output, e.g. "$1,250.00" or "$900".
var currencyPattern = regexp.MustCompile(`\$\d{1,3}(,\d{3})*(\.\d{2})?`)

// dataURIPrefix matches the data-URI header the client prepends when
// encoding a captured camera frame.
var dataURIPrefix = regexp.MustCompile(`^data:image/(png|jpeg|jpg);base64,`)

// ExtractEstimate scans free text for the first currency-formatted
// substring and returns its numeric value. The second return is false when
// no currency substring is present.
func ExtractEstimate(text string) (float64, bool) {
	match := currencyPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(match)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ConfidenceScore is a heuristic based on the specificity of the response:
// longer analyses score higher.
func ConfidenceScore(text string) float64 {
	if len(text) > 200 {
		return 0.8
	}
	return 0.5
}

// DecodeImageDataURI strips the data-URI prefix from an encoded camera
// frame and returns the raw image bytes plus the declared mime type.
// Input without a recognized prefix is rejected.
func DecodeImageDataURI(uri string) ([]byte, string, error) {
	loc := dataURIPrefix.FindStringSubmatch(uri)
	if loc == nil {
		return nil, "", fmt.Errorf("not an image data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, loc[0]))
	if err != nil {
		return nil, "", fmt.Errorf("decode image base64: %w", err)
	}
	sub := loc[1]
	if sub == "jpg" {
		sub = "jpeg"
	}
	return raw, "image/" + sub, nil
}

// EncodeImageDataURI is the inverse of DecodeImageDataURI, used by the
// submission workflow to package a captured frame for the analysis endpoint.
func EncodeImageDataURI(image []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}
