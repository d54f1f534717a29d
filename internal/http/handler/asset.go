package handler

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"assetvault/internal/auth"
	"assetvault/internal/service"
)

// Multipart field names of the submission endpoint.
const (
	fieldVideo           = "video"
	fieldLidar           = "lidar"
	fieldTitle           = "title"
	fieldDescription     = "description"
	fieldAnalysisText    = "analysis_text"
	fieldEstimatedValue  = "estimated_value"
	fieldConfidenceScore = "confidence_score"
)

// UploadAsset handles POST /functions/v1/upload-asset (multipart/form-data).
// Video and lidar files are both optional here; clients enforce that at
// least one is attached before submitting.
func UploadAsset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.SubmitInput{
			UserID:      auth.UserIDFromCtx(c),
			Title:       c.FormValue(fieldTitle),
			Description: c.FormValue(fieldDescription),
		}

		video, closeVideo, err := openFormFile(c, fieldVideo)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded video")
		}
		if closeVideo != nil {
			defer closeVideo()
		}
		in.Video = video

		lidar, closeLidar, err := openFormFile(c, fieldLidar)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded lidar scan")
		}
		if closeLidar != nil {
			defer closeLidar()
		}
		in.Lidar = lidar

		analysis, err := parseAnalysisFields(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, err.Error())
		}
		in.Analysis = analysis

		asset, err := svc.Submit(c.UserContext(), in)
		if err != nil {
			return writeErrorDetails(c, fiber.StatusInternalServerError, "Failed to upload asset", err.Error())
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Asset uploaded successfully",
			"asset":   asset,
		})
	}
}

// openFormFile opens the named multipart file if present. A missing field is
// not an error; it returns (nil, nil, nil).
func openFormFile(c *fiber.Ctx, field string) (*service.FileUpload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// fasthttp reports a missing field the same way as a missing form,
		// so absence is not distinguishable from "no such file". Treat it
		// as not attached.
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	up := &service.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	}
	return up, func() { closeMultipartFile(f) }, nil
}

func closeMultipartFile(f multipart.File) {
	_ = f.Close()
}

// parseAnalysisFields collects the optional client-side AI analysis fields
// from the form. All absent means no analysis is attached.
func parseAnalysisFields(c *fiber.Ctx) (*service.AnalysisInput, error) {
	text := c.FormValue(fieldAnalysisText)
	valueStr := c.FormValue(fieldEstimatedValue)
	scoreStr := c.FormValue(fieldConfidenceScore)

	if text == "" && valueStr == "" && scoreStr == "" {
		return nil, nil
	}

	in := &service.AnalysisInput{Text: text}

	if valueStr != "" {
		v, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, errors.New("invalid estimated_value")
		}
		in.EstimatedValue = &v
	}
	if scoreStr != "" {
		s, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			return nil, errors.New("invalid confidence_score")
		}
		in.ConfidenceScore = &s
	}

	return in, nil
}

// ListAssets handles GET /assets with limit & offset.
func ListAssets(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid offset")
		}

		res, err := svc.List(c.UserContext(), auth.UserIDFromCtx(c), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(res)
	}
}

// GetAsset handles GET /assets/:id. Assets of other users are reported as
// not found.
func GetAsset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid id format")
		}

		detail, err := svc.Get(c.UserContext(), auth.UserIDFromCtx(c), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "asset not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(detail)
	}
}
