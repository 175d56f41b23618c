package reviewer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sumersovitkargit/content-safety-gateway/internal/decision"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider"
)

// DecisionCache caches completed reviews by content hash.
type DecisionCache interface {
	Get(ctx context.Context, contentHash string) (*models.Review, error)
	Set(ctx context.Context, contentHash string, review *models.Review) error
}

// AuditStore records completed reviews.
type AuditStore interface {
	Insert(ctx context.Context, review *models.Review) error
}

// Reviewer runs one piece of content through the moderation provider and the
// decision engine. Cache and audit are optional; a nil cache means every call
// hits the provider, a nil audit store means reviews are not persisted.
type Reviewer struct {
	detector   provider.Detector
	thresholds models.Thresholds
	cache      DecisionCache
	audit      AuditStore
	logger     *zerolog.Logger
}

func New(
	detector provider.Detector,
	thresholds models.Thresholds,
	cache DecisionCache,
	audit AuditStore,
	logger *zerolog.Logger,
) *Reviewer {
	return &Reviewer{
		detector:   detector,
		thresholds: thresholds,
		cache:      cache,
		audit:      audit,
		logger:     logger,
	}
}

// Review moderates content and returns the completed review. Either a full
// review is returned or an error; there are no partial results.
func (r *Reviewer) Review(ctx context.Context, media models.MediaType, content string) (*models.Review, error) {
	now := time.Now()
	contentHash := hashContent(media, content)

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, contentHash)
		if err != nil {
			r.logger.Warn().Err(err).Str("content_hash", contentHash).Msg("cache lookup failed")
		} else if cached != nil {
			r.logger.Info().
				Str("review_id", cached.ID).
				Str("content_hash", contentHash).
				Msg("review served from cache")
			cached.Cached = true
			return cached, nil
		}
	}

	result, err := r.detector.Detect(ctx, media, content)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	dec, err := decision.Decide(result.Severities(), r.thresholds)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:               uuid.NewString(),
		MediaType:        media,
		ContentHash:      contentHash,
		Provider:         r.detector.Name(),
		SuggestedAction:  dec.SuggestedAction,
		ActionByCategory: dec.ActionByCategory,
		Severities:       result.Severities(),
		Duration:         time.Since(now),
		CreatedAt:        now.UTC(),
	}

	if r.audit != nil {
		if err := r.audit.Insert(ctx, review); err != nil {
			r.logger.Warn().Err(err).Str("review_id", review.ID).Msg("failed to persist review")
		}
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, contentHash, review); err != nil {
			r.logger.Warn().Err(err).Str("review_id", review.ID).Msg("failed to cache review")
		}
	}

	r.logger.Info().
		Str("review_id", review.ID).
		Str("media_type", string(media)).
		Str("suggested_action", string(review.SuggestedAction)).
		Dur("duration", review.Duration).
		Msg("review complete")

	return review, nil
}

func hashContent(media models.MediaType, content string) string {
	h := sha256.New()
	h.Write([]byte(media))
	h.Write([]byte{':'})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
