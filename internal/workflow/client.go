package workflow

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
)

// Analysis is the structured valuation the analysis endpoint returns.
type Analysis struct {
	Text            string
	EstimatedValue  *float64
	ConfidenceScore float64
}

// UploadRequest carries everything one submission sends to the server.
type UploadRequest struct {
	Title       string
	Description string
	Video       File
	Lidar       File
	Analysis    *Analysis
}

// APIClient is the workflow's view of the server.
type APIClient interface {
	UploadAsset(ctx context.Context, token string, req UploadRequest) error
	AnalyzeImage(ctx context.Context, token string, imageDataURI string) (*Analysis, error)
}

// Client is the resty-backed APIClient.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds an APIClient against the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) req(ctx context.Context, token string) *resty.Request {
	return c.httpClient.
		NewRequest().
		SetContext(ctx).
		SetAuthToken(token)
}

func (c *Client) UploadAsset(ctx context.Context, token string, req UploadRequest) error {
	r := c.req(ctx, token).
		SetFormData(map[string]string{
			"title":       req.Title,
			"description": req.Description,
		})

	if req.Video != nil {
		f, err := req.Video.Open()
		if err != nil {
			return fmt.Errorf("open video: %w", err)
		}
		defer f.Close()
		r.SetMultipartField("video", req.Video.Name(), "application/octet-stream", f)
	}
	if req.Lidar != nil {
		f, err := req.Lidar.Open()
		if err != nil {
			return fmt.Errorf("open lidar scan: %w", err)
		}
		defer f.Close()
		r.SetMultipartField("lidar", req.Lidar.Name(), "application/octet-stream", f)
	}
	if req.Analysis != nil {
		r.SetMultipartFormData(map[string]string{
			"analysis_text":    req.Analysis.Text,
			"confidence_score": strconv.FormatFloat(req.Analysis.ConfidenceScore, 'f', -1, 64),
		})
		if req.Analysis.EstimatedValue != nil {
			r.SetMultipartFormData(map[string]string{
				"estimated_value": strconv.FormatFloat(*req.Analysis.EstimatedValue, 'f', -1, 64),
			})
		}
	}

	_, err := handleError(r.Post("/functions/v1/upload-asset"))
	return err
}

type analyzeResponse struct {
	Analysis        string   `json:"analysis"`
	EstimatedValue  *float64 `json:"estimatedValue"`
	ConfidenceScore float64  `json:"confidenceScore"`
}

func (c *Client) AnalyzeImage(ctx context.Context, token string, imageDataURI string) (*Analysis, error) {
	result := &analyzeResponse{}

	_, err := handleError(c.req(ctx, token).
		SetBody(map[string]string{"image": imageDataURI}).
		SetResult(result).
		Post("/functions/v1/analyze-asset"))
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Text:            result.Analysis,
		EstimatedValue:  result.EstimatedValue,
		ConfidenceScore: result.ConfidenceScore,
	}, nil
}

// handleError is a generic error handler for failing responses (>399 status
// code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}
