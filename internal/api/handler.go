package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
	"github.com/sumersovitkargit/content-safety-gateway/internal/api/middleware"
	"github.com/sumersovitkargit/content-safety-gateway/internal/audit"
	"github.com/sumersovitkargit/content-safety-gateway/internal/config"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider"
	"github.com/sumersovitkargit/content-safety-gateway/internal/reviewer"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ModerationResponse is the decision returned for a moderated piece of content.
type ModerationResponse struct {
	ReviewID         string                            `json:"review_id"`
	SuggestedAction  models.Action                     `json:"suggested_action"`
	ActionByCategory map[models.Category]models.Action `json:"action_by_category"`
	Severities       models.SeverityResult             `json:"severities,omitempty"`
	Cached           bool                              `json:"cached,omitempty"`
}

type ReviewsResponse struct {
	Reviews []models.Review `json:"reviews"`
}

type Handler struct {
	reviewer *reviewer.Reviewer
	audit    *audit.Store
	policy   *config.PolicyConfig
	logger   *zerolog.Logger
}

func NewHandler(rev *reviewer.Reviewer, auditStore *audit.Store, policy *config.PolicyConfig, logger *zerolog.Logger) *Handler {
	return &Handler{
		reviewer: rev,
		audit:    auditStore,
		policy:   policy,
		logger:   logger,
	}
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

// Upload handler POST /api/v1/upload
// Accepts a multipart form with a "file" field, runs the image through the
// moderation pipeline and returns the decision.
func (h *Handler) Upload(req *restful.Request, resp *restful.Response) {
	r := req.Request
	r.Body = http.MaxBytesReader(resp.ResponseWriter, r.Body, h.policy.Upload.MaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.HandleError(resp, fmt.Errorf("no file part in request"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		middleware.HandleError(resp, fmt.Errorf("no selected file"), http.StatusBadRequest)
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !h.policy.ExtensionAllowed(ext) {
		middleware.HandleError(resp, fmt.Errorf("file extension %q is not allowed", ext), http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleError(resp, fmt.Errorf("failed to read uploaded file: %w", err), http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("filename", header.Filename).
		Int("size", len(content)).
		Msg("Start upload review")

	encoded := base64.StdEncoding.EncodeToString(content)
	review, err := h.reviewer.Review(r.Context(), models.MediaTypeImage, encoded)
	if err != nil {
		h.writeReviewError(resp, err)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, toResponse(review))
}

// Moderate handler POST /api/v1/moderate
// Accepts a JSON body carrying either text or base64 image content.
func (h *Handler) Moderate(req *restful.Request, resp *restful.Response) {
	var modRequest models.ModerationRequest
	if err := req.ReadEntity(&modRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := validateModerationRequest(modRequest); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("request_id", modRequest.RequestID).
		Str("media_type", string(modRequest.MediaType)).
		Msg("Start moderation review")

	review, err := h.reviewer.Review(req.Request.Context(), modRequest.MediaType, modRequest.Content())
	if err != nil {
		h.writeReviewError(resp, err)
		return
	}

	h.logger.Info().
		Str("request_id", modRequest.RequestID).
		Str("review_id", review.ID).
		Str("suggested_action", string(review.SuggestedAction)).
		Msg("Moderation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, toResponse(review))
}

// ListReviews handler GET /api/v1/reviews
func (h *Handler) ListReviews(req *restful.Request, resp *restful.Response) {
	if h.audit == nil {
		middleware.HandleError(resp, fmt.Errorf("audit store is not configured"), http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if limitStr := req.QueryParameter("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 500 {
			middleware.HandleError(resp, fmt.Errorf("limit must be an integer between 1 and 500"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	reviews, err := h.audit.ListRecent(req.Request.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list reviews")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, ReviewsResponse{Reviews: reviews})
}

func (h *Handler) writeReviewError(resp *restful.Response, err error) {
	var detectionErr *provider.DetectionError
	if errors.As(err, &detectionErr) {
		h.logger.Error().
			Str("code", detectionErr.Code).
			Str("message", detectionErr.Message).
			Msg("Provider rejected the detection call")
		middleware.HandleError(resp, detectionErr, http.StatusBadGateway)
		return
	}

	h.logger.Error().Err(err).Msg("Review failed")
	middleware.HandleError(resp, err, http.StatusInternalServerError)
}

func validateModerationRequest(req models.ModerationRequest) error {
	if !req.MediaType.Valid() {
		return fmt.Errorf("media_type must be %q or %q", models.MediaTypeText, models.MediaTypeImage)
	}

	switch req.MediaType {
	case models.MediaTypeText:
		if req.Text == "" {
			return fmt.Errorf("text is required for text moderation")
		}
	case models.MediaTypeImage:
		if req.ImageContent == "" {
			return fmt.Errorf("image_content is required for image moderation")
		}
		if _, err := base64.StdEncoding.DecodeString(req.ImageContent); err != nil {
			return fmt.Errorf("image_content is not valid base64")
		}
	}

	return nil
}

func toResponse(review *models.Review) ModerationResponse {
	return ModerationResponse{
		ReviewID:         review.ID,
		SuggestedAction:  review.SuggestedAction,
		ActionByCategory: review.ActionByCategory,
		Severities:       review.Severities,
		Cached:           review.Cached,
	}
}
