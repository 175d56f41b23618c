package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

// Detector is an interface for fetching moderation severities for content.
// This allows mocking in tests without making real API calls, and keeps the
// decision engine decoupled from any provider's wire format.
type Detector interface {
	Detect(ctx context.Context, media models.MediaType, content string) (*DetectResult, error)
	Name() string
}

// ErrCategoryNotFound is returned when a provider response carries no analysis
// for a requested category.
var ErrCategoryNotFound = errors.New("category not found in detection result")

// DetectionError is a non-success response from the moderation provider. It is
// surfaced to the caller verbatim and never retried.
type DetectionError struct {
	Code    string
	Message string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("detection error %s: %s", e.Code, e.Message)
}

// CategoryAnalysis is one per-category entry of a provider response.
type CategoryAnalysis struct {
	Category string `json:"category"`
	Severity int    `json:"severity"`
}

// DetectResult is the parsed success response of a moderation call.
type DetectResult struct {
	CategoriesAnalysis []CategoryAnalysis `json:"categoriesAnalysis"`
}

// AnalysisFor returns the analysis record for the given category, or
// ErrCategoryNotFound when the response has no entry for it.
func (r *DetectResult) AnalysisFor(category models.Category) (*CategoryAnalysis, error) {
	for i := range r.CategoriesAnalysis {
		if r.CategoriesAnalysis[i].Category == string(category) {
			return &r.CategoriesAnalysis[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
}

// Severities flattens the analysis list into a severity map. Entries with
// unknown category names are dropped; on duplicates the last entry wins.
func (r *DetectResult) Severities() models.SeverityResult {
	severities := make(models.SeverityResult, len(r.CategoriesAnalysis))
	for _, analysis := range r.CategoriesAnalysis {
		category, err := models.ParseCategory(analysis.Category)
		if err != nil {
			continue
		}
		severities[category] = analysis.Severity
	}
	return severities
}
