package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"assetvault/internal/auth"
	"assetvault/internal/model"
	"assetvault/internal/service"
	serviceMocks "assetvault/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "dependency unavailable", body.Error)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// multipartBody builds a multipart form with the given text fields and files.
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		io.Copy(part, strings.NewReader("content of "+filename))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadAsset(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := fiber.New()
	app.Post("/functions/v1/upload-asset", UploadAsset(mockSvc))

	t.Run("success with both files", func(t *testing.T) {
		body, ct := multipartBody(t,
			map[string]string{"title": "Vintage Watch", "description": "gold case"},
			map[string]string{"video": "walkaround.mp4", "lidar": "scan.ply"},
		)

		expected := &model.Asset{ID: uuid.New().String(), Title: "Vintage Watch"}
		mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
			return in.Title == "Vintage Watch" &&
				in.Description == "gold case" &&
				in.Video != nil && in.Video.Filename == "walkaround.mp4" &&
				in.Lidar != nil && in.Lidar.Filename == "scan.ply" &&
				in.Analysis == nil
		})).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/functions/v1/upload-asset", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Message string      `json:"message"`
			Asset   model.Asset `json:"asset"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Asset uploaded successfully", result.Message)
		assert.Equal(t, expected.ID, result.Asset.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("analysis fields forwarded", func(t *testing.T) {
		body, ct := multipartBody(t,
			map[string]string{
				"title":            "Watch",
				"analysis_text":    "a fine watch",
				"estimated_value":  "1250.00",
				"confidence_score": "0.8",
			},
			map[string]string{"video": "v.mp4"},
		)

		mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
			return in.Analysis != nil &&
				in.Analysis.Text == "a fine watch" &&
				in.Analysis.EstimatedValue != nil && *in.Analysis.EstimatedValue == 1250.00 &&
				in.Analysis.ConfidenceScore != nil && *in.Analysis.ConfidenceScore == 0.8
		})).Return(&model.Asset{ID: "a"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/functions/v1/upload-asset", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid estimated_value", func(t *testing.T) {
		body, ct := multipartBody(t,
			map[string]string{"title": "Watch", "estimated_value": "a lot"},
			map[string]string{"video": "v.mp4"},
		)

		req := httptest.NewRequest(http.MethodPost, "/functions/v1/upload-asset", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "invalid estimated_value", res.Error)
	})

	t.Run("service error carries details", func(t *testing.T) {
		body, ct := multipartBody(t,
			map[string]string{"title": "Watch"},
			map[string]string{"video": "v.mp4"},
		)

		mockSvc.On("Submit", mock.Anything, mock.Anything).
			Return(nil, errors.New("create asset record: db down")).Once()

		req := httptest.NewRequest(http.MethodPost, "/functions/v1/upload-asset", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Failed to upload asset", res.Error)
		assert.Contains(t, res.Details, "create asset record")
		mockSvc.AssertExpectations(t)
	})
}

func TestAnalyzeAsset(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Post("/functions/v1/analyze-asset", AnalyzeAsset(mockSvc))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/functions/v1/analyze-asset", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		value := 1250.00
		expected := &service.AnalysisResult{
			Analysis:        "a fine watch worth $1,250.00",
			EstimatedValue:  &value,
			ConfidenceScore: 0.5,
		}
		mockSvc.On("Analyze", mock.Anything, "data:image/jpeg;base64,AAAA").Return(expected, nil).Once()

		resp := post(`{"image":"data:image/jpeg;base64,AAAA"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.AnalysisResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.Analysis, result.Analysis)
		assert.Equal(t, value, *result.EstimatedValue)
		assert.Equal(t, 0.5, result.ConfidenceScore)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing image", func(t *testing.T) {
		resp := post(`{}`)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "No image provided", res.Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := post(`{not json`)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, "data:image/png;base64,BBBB").
			Return(nil, errors.New("model unavailable")).Once()

		resp := post(`{"image":"data:image/png;base64,BBBB"}`)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Failed to analyze image", res.Error)
		mockSvc.AssertExpectations(t)
	})
}

func TestListAssets(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := fiber.New()
	app.Get("/assets", ListAssets(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.AssetListResult{
			Items: []model.Asset{{ID: uuid.New().String(), Title: "Watch"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, "", 10, 0).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/assets?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.AssetListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "invalid limit", res.Error)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "", 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/assets", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetAsset(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := fiber.New()
	app.Get("/assets/:id", GetAsset(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		videoURL := "https://store/v.mp4?sig"
		expected := &service.AssetDetail{
			Asset:    model.Asset{ID: id, Title: "Watch"},
			VideoURL: &videoURL,
		}
		mockSvc.On("Get", mock.Anything, "", id).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/assets/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.AssetDetail
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.Asset.ID)
		assert.Equal(t, videoURL, *result.VideoURL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, "", id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/assets/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "asset not found", res.Error)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "invalid id format", res.Error)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, "", id).Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/assets/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	app.Use(CORS())

	tokens := auth.NewTokenService("routing-secret", time.Hour)
	mockAssets := new(serviceMocks.MockAssetService)
	mockAnalysis := new(serviceMocks.MockAnalysisService)
	RegisterRoutes(app, nil, tokens, mockAssets, mockAnalysis)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "resource not found", res.Error)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "method not allowed", res.Error)
	})

	t.Run("submission requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/functions/v1/upload-asset", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Unauthorized", body["error"])
		mockAssets.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("authenticated user id reaches the service", func(t *testing.T) {
		token, err := tokens.Generate("user-42", "u@example.com")
		require.NoError(t, err)

		body, ct := multipartBody(t,
			map[string]string{"title": "Watch"},
			map[string]string{"video": "v.mp4"},
		)

		mockAssets.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
			return in.UserID == "user-42"
		})).Return(&model.Asset{ID: "a"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/functions/v1/upload-asset", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockAssets.AssertExpectations(t)
	})

	t.Run("preflight is open to the browser client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/functions/v1/analyze-asset", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "authorization")
		mockAnalysis.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	})
}
