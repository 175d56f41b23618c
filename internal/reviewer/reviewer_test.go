package reviewer

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sumersovitkargit/content-safety-gateway/internal/decision"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider"
	providermocks "github.com/sumersovitkargit/content-safety-gateway/internal/provider/mocks"
	"github.com/sumersovitkargit/content-safety-gateway/internal/reviewer/mocks"
	"go.uber.org/mock/gomock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func defaultThresholds() models.Thresholds {
	return models.Thresholds{
		models.CategoryHate:     2,
		models.CategorySelfHarm: 2,
		models.CategorySexual:   2,
		models.CategoryViolence: 2,
	}
}

func cleanResult() *provider.DetectResult {
	return &provider.DetectResult{
		CategoriesAnalysis: []provider.CategoryAnalysis{
			{Category: "Hate", Severity: 0},
			{Category: "SelfHarm", Severity: 0},
			{Category: "Sexual", Severity: 0},
			{Category: "Violence", Severity: 0},
		},
	}
}

func TestReviewer_Review_Accept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	detector := providermocks.NewMockDetector(ctrl)
	detector.EXPECT().Detect(gomock.Any(), models.MediaTypeImage, "content").Return(cleanResult(), nil)
	detector.EXPECT().Name().Return("azure-content-safety")

	r := New(detector, defaultThresholds(), nil, nil, testLogger())

	review, err := r.Review(context.Background(), models.MediaTypeImage, "content")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if review.SuggestedAction != models.ActionAccept {
		t.Errorf("expected Accept, got %s", review.SuggestedAction)
	}
	if review.Provider != "azure-content-safety" {
		t.Errorf("expected provider name, got %s", review.Provider)
	}
	if review.ID == "" {
		t.Error("expected a review ID")
	}
	if review.Cached {
		t.Error("fresh review must not be marked cached")
	}
	if len(review.ActionByCategory) != 4 {
		t.Errorf("expected 4 category actions, got %d", len(review.ActionByCategory))
	}
}

func TestReviewer_Review_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	result := &provider.DetectResult{
		CategoriesAnalysis: []provider.CategoryAnalysis{
			{Category: "Hate", Severity: 2},
			{Category: "SelfHarm", Severity: 0},
			{Category: "Sexual", Severity: 0},
			{Category: "Violence", Severity: 0},
		},
	}

	detector := providermocks.NewMockDetector(ctrl)
	detector.EXPECT().Detect(gomock.Any(), models.MediaTypeText, "bad text").Return(result, nil)
	detector.EXPECT().Name().Return("azure-content-safety")

	r := New(detector, defaultThresholds(), nil, nil, testLogger())

	review, err := r.Review(context.Background(), models.MediaTypeText, "bad text")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if review.SuggestedAction != models.ActionReject {
		t.Errorf("expected Reject, got %s", review.SuggestedAction)
	}
	if review.ActionByCategory[models.CategoryHate] != models.ActionReject {
		t.Errorf("expected Hate rejected, got %s", review.ActionByCategory[models.CategoryHate])
	}
}

func TestReviewer_Review_CacheHit_SkipsProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cached := &models.Review{
		ID:              "cached-review",
		SuggestedAction: models.ActionAccept,
	}

	detector := providermocks.NewMockDetector(ctrl)
	cache := mocks.NewMockDecisionCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cached, nil)

	r := New(detector, defaultThresholds(), cache, nil, testLogger())

	review, err := r.Review(context.Background(), models.MediaTypeImage, "content")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if review.ID != "cached-review" {
		t.Errorf("expected cached review, got %s", review.ID)
	}
	if !review.Cached {
		t.Error("expected review to be marked cached")
	}
}

func TestReviewer_Review_CacheMiss_StoresResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	detector := providermocks.NewMockDetector(ctrl)
	detector.EXPECT().Detect(gomock.Any(), models.MediaTypeImage, "content").Return(cleanResult(), nil)
	detector.EXPECT().Name().Return("azure-content-safety")

	cache := mocks.NewMockDecisionCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	audit := mocks.NewMockAuditStore(ctrl)
	audit.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	r := New(detector, defaultThresholds(), cache, audit, testLogger())

	if _, err := r.Review(context.Background(), models.MediaTypeImage, "content"); err != nil {
		t.Fatalf("Review failed: %v", err)
	}
}

func TestReviewer_Review_AuditFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	detector := providermocks.NewMockDetector(ctrl)
	detector.EXPECT().Detect(gomock.Any(), models.MediaTypeText, "content").Return(cleanResult(), nil)
	detector.EXPECT().Name().Return("azure-content-safety")

	audit := mocks.NewMockAuditStore(ctrl)
	audit.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	r := New(detector, defaultThresholds(), nil, audit, testLogger())

	review, err := r.Review(context.Background(), models.MediaTypeText, "content")
	if err != nil {
		t.Fatalf("Review failed despite audit error: %v", err)
	}
	if review.SuggestedAction != models.ActionAccept {
		t.Errorf("expected Accept, got %s", review.SuggestedAction)
	}
}

func TestReviewer_Review_DetectionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	detectionErr := &provider.DetectionError{Code: "Unauthorized", Message: "bad key"}

	detector := providermocks.NewMockDetector(ctrl)
	detector.EXPECT().Detect(gomock.Any(), models.MediaTypeText, "content").Return(nil, detectionErr)

	r := New(detector, defaultThresholds(), nil, nil, testLogger())

	_, err := r.Review(context.Background(), models.MediaTypeText, "content")
	if err == nil {
		t.Fatal("expected error")
	}

	var got *provider.DetectionError
	if !errors.As(err, &got) {
		t.Fatalf("expected DetectionError to surface, got %v", err)
	}
	if got.Code != "Unauthorized" {
		t.Errorf("expected code Unauthorized, got %s", got.Code)
	}
}

func TestReviewer_Review_MissingCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	partial := &provider.DetectResult{
		CategoriesAnalysis: []provider.CategoryAnalysis{
			{Category: "Hate", Severity: 0},
		},
	}

	detector := providermocks.NewMockDetector(ctrl)
	detector.EXPECT().Detect(gomock.Any(), models.MediaTypeText, "content").Return(partial, nil)

	r := New(detector, defaultThresholds(), nil, nil, testLogger())

	_, err := r.Review(context.Background(), models.MediaTypeText, "content")
	if !errors.Is(err, decision.ErrMissingCategoryResult) {
		t.Fatalf("expected ErrMissingCategoryResult, got %v", err)
	}
}

func TestHashContent_DistinguishesMediaType(t *testing.T) {
	if hashContent(models.MediaTypeText, "same") == hashContent(models.MediaTypeImage, "same") {
		t.Error("text and image hashes for identical payloads must differ")
	}
	if hashContent(models.MediaTypeText, "same") != hashContent(models.MediaTypeText, "same") {
		t.Error("hash must be deterministic")
	}
}
