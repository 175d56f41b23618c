// Package audit persists completed reviews to Postgres.
//
// Expected schema:
//
//	CREATE TABLE reviews (
//	    id                 UUID PRIMARY KEY,
//	    media_type         TEXT NOT NULL,
//	    content_hash       TEXT NOT NULL,
//	    provider           TEXT NOT NULL,
//	    suggested_action   TEXT NOT NULL,
//	    action_by_category JSONB NOT NULL,
//	    severities         JSONB NOT NULL,
//	    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, config Config) (*Store, error) {
	pool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Insert(ctx context.Context, review *models.Review) error {
	actions, err := json.Marshal(review.ActionByCategory)
	if err != nil {
		return fmt.Errorf("failed to encode action breakdown: %w", err)
	}
	severities, err := json.Marshal(review.Severities)
	if err != nil {
		return fmt.Errorf("failed to encode severities: %w", err)
	}

	query := `
	INSERT INTO reviews (id, media_type, content_hash, provider, suggested_action, action_by_category, severities, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.Pool.Exec(ctx, query,
		review.ID,
		string(review.MediaType),
		review.ContentHash,
		review.Provider,
		string(review.SuggestedAction),
		actions,
		severities,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review %s: %w", review.ID, err)
	}

	return nil
}

// ListRecent returns the newest reviews, most recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.Review, error) {
	query := `
	SELECT id, media_type, content_hash, provider, suggested_action, action_by_category, severities, created_at
	FROM reviews
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := s.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		var mediaType, suggestedAction string
		var actions, severities []byte

		if err := rows.Scan(&review.ID, &mediaType, &review.ContentHash, &review.Provider, &suggestedAction, &actions, &severities, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}

		review.MediaType = models.MediaType(mediaType)
		review.SuggestedAction = models.Action(suggestedAction)
		if err := json.Unmarshal(actions, &review.ActionByCategory); err != nil {
			return nil, fmt.Errorf("failed to decode action breakdown: %w", err)
		}
		if err := json.Unmarshal(severities, &review.Severities); err != nil {
			return nil, fmt.Errorf("failed to decode severities: %w", err)
		}

		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reviews, nil
}
