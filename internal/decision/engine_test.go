package decision

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

func defaultThresholds() models.Thresholds {
	return models.Thresholds{
		models.CategoryHate:     2,
		models.CategorySelfHarm: 2,
		models.CategorySexual:   2,
		models.CategoryViolence: 2,
	}
}

func TestDecide_AllBelowThreshold_Accept(t *testing.T) {
	severities := models.SeverityResult{
		models.CategoryHate:     0,
		models.CategorySelfHarm: 0,
		models.CategorySexual:   0,
		models.CategoryViolence: 0,
	}

	decision, err := Decide(severities, defaultThresholds())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if decision.SuggestedAction != models.ActionAccept {
		t.Errorf("expected suggested action Accept, got %s", decision.SuggestedAction)
	}
	for category, action := range decision.ActionByCategory {
		if action != models.ActionAccept {
			t.Errorf("expected %s to be Accept, got %s", category, action)
		}
	}
}

func TestDecide_OneCategoryAtThreshold_Reject(t *testing.T) {
	severities := models.SeverityResult{
		models.CategoryHate:     2,
		models.CategorySelfHarm: 0,
		models.CategorySexual:   0,
		models.CategoryViolence: 0,
	}

	decision, err := Decide(severities, defaultThresholds())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if decision.SuggestedAction != models.ActionReject {
		t.Errorf("expected suggested action Reject, got %s", decision.SuggestedAction)
	}
	if decision.ActionByCategory[models.CategoryHate] != models.ActionReject {
		t.Errorf("expected Hate to be Reject, got %s", decision.ActionByCategory[models.CategoryHate])
	}
	for _, category := range []models.Category{models.CategorySelfHarm, models.CategorySexual, models.CategoryViolence} {
		if decision.ActionByCategory[category] != models.ActionAccept {
			t.Errorf("expected %s to be Accept, got %s", category, decision.ActionByCategory[category])
		}
	}
}

func TestDecide_DisabledThreshold_AcceptsAnySeverity(t *testing.T) {
	thresholds := models.Thresholds{models.CategoryHate: models.ThresholdDisabled}
	severities := models.SeverityResult{models.CategoryHate: 999}

	decision, err := Decide(severities, thresholds)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if decision.SuggestedAction != models.ActionAccept {
		t.Errorf("expected suggested action Accept, got %s", decision.SuggestedAction)
	}
	if decision.ActionByCategory[models.CategoryHate] != models.ActionAccept {
		t.Errorf("expected Hate to be Accept, got %s", decision.ActionByCategory[models.CategoryHate])
	}
}

func TestDecide_MissingCategory_Error(t *testing.T) {
	severities := models.SeverityResult{
		models.CategoryHate: 0,
	}

	_, err := Decide(severities, defaultThresholds())
	if !errors.Is(err, ErrMissingCategoryResult) {
		t.Fatalf("expected ErrMissingCategoryResult, got %v", err)
	}
}

func TestDecide_EmptyThresholds_AcceptWithEmptyBreakdown(t *testing.T) {
	severities := models.SeverityResult{models.CategoryHate: 6}

	decision, err := Decide(severities, models.Thresholds{})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if decision.SuggestedAction != models.ActionAccept {
		t.Errorf("expected suggested action Accept, got %s", decision.SuggestedAction)
	}
	if len(decision.ActionByCategory) != 0 {
		t.Errorf("expected empty breakdown, got %d entries", len(decision.ActionByCategory))
	}
}

func TestDecide_UnconfiguredCategoryIgnored(t *testing.T) {
	thresholds := models.Thresholds{models.CategoryHate: 2}
	severities := models.SeverityResult{
		models.CategoryHate:     0,
		models.CategoryViolence: 6, // no threshold configured, must not affect the result
	}

	decision, err := Decide(severities, thresholds)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if decision.SuggestedAction != models.ActionAccept {
		t.Errorf("expected suggested action Accept, got %s", decision.SuggestedAction)
	}
	if _, ok := decision.ActionByCategory[models.CategoryViolence]; ok {
		t.Error("expected Violence to be absent from the breakdown")
	}
}

func TestDecide_SuggestedActionIsMaxOfBreakdown(t *testing.T) {
	tests := []struct {
		name       string
		severities models.SeverityResult
	}{
		{
			name: "all reject",
			severities: models.SeverityResult{
				models.CategoryHate:     4,
				models.CategorySelfHarm: 6,
				models.CategorySexual:   2,
				models.CategoryViolence: 4,
			},
		},
		{
			name: "mixed",
			severities: models.SeverityResult{
				models.CategoryHate:     0,
				models.CategorySelfHarm: 6,
				models.CategorySexual:   0,
				models.CategoryViolence: 2,
			},
		},
		{
			name: "all accept",
			severities: models.SeverityResult{
				models.CategoryHate:     1,
				models.CategorySelfHarm: 0,
				models.CategorySexual:   1,
				models.CategoryViolence: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := Decide(tt.severities, defaultThresholds())
			if err != nil {
				t.Fatalf("Decide failed: %v", err)
			}

			max := models.ActionAccept
			for _, action := range decision.ActionByCategory {
				max = models.MaxAction(max, action)
			}
			if decision.SuggestedAction != max {
				t.Errorf("suggested action %s does not match breakdown max %s", decision.SuggestedAction, max)
			}
		})
	}
}

func TestDecide_PureFunction(t *testing.T) {
	severities := models.SeverityResult{
		models.CategoryHate:     2,
		models.CategorySelfHarm: 0,
		models.CategorySexual:   4,
		models.CategoryViolence: 0,
	}
	thresholds := defaultThresholds()

	first, err := Decide(severities, thresholds)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	second, err := Decide(severities, thresholds)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different decisions: %+v vs %+v", first, second)
	}
}
