package decision

import (
	"errors"
	"fmt"

	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

// ErrMissingCategoryResult is returned when a threshold is configured for a
// category the severity result does not cover.
var ErrMissingCategoryResult = errors.New("missing category result")

// Decide thresholds a severity result into a Decision.
//
// Each category in thresholds must have a severity; the category is rejected
// when its threshold is enabled and the severity reaches it. The suggested
// action is the most severe per-category action. Decide has no side effects
// and an empty thresholds map yields Accept with an empty breakdown.
func Decide(severities models.SeverityResult, thresholds models.Thresholds) (models.Decision, error) {
	actions := make(map[models.Category]models.Action, len(thresholds))
	suggested := models.ActionAccept

	for category, threshold := range thresholds {
		severity, ok := severities[category]
		if !ok {
			return models.Decision{}, fmt.Errorf("%w: %s", ErrMissingCategoryResult, category)
		}

		action := models.ActionAccept
		if threshold != models.ThresholdDisabled && severity >= threshold {
			action = models.ActionReject
		}

		actions[category] = action
		suggested = models.MaxAction(suggested, action)
	}

	return models.Decision{
		SuggestedAction:  suggested,
		ActionByCategory: actions,
	}, nil
}
