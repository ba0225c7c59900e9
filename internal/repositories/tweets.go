package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

// PostgresTweetRepository provides PostgreSQL-backed persistence for tweets.
type PostgresTweetRepository struct {
	pool db.Pool
}

// NewPostgresTweetRepository constructs a tweet repository backed by PostgreSQL.
func NewPostgresTweetRepository(pool db.Pool) *PostgresTweetRepository {
	return &PostgresTweetRepository{pool: pool}
}

// Create persists a new tweet.
func (r *PostgresTweetRepository) Create(ctx context.Context, tweet models.Tweet) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert tweet: %w", err)
	}

	return nil
}

// FindByID fetches a tweet by id.
func (r *PostgresTweetRepository) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, content, created_at, updated_at
        FROM tweets
        WHERE id = $1
    `, id)

	var tweet models.Tweet
	if err := row.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Tweet{}, ErrNotFound
		}
		return models.Tweet{}, fmt.Errorf("select tweet: %w", err)
	}

	return tweet, nil
}

// UpdateContent replaces the tweet body.
func (r *PostgresTweetRepository) UpdateContent(ctx context.Context, id, content string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE tweets
        SET content = $2, updated_at = NOW()
        WHERE id = $1
    `, id, content)
	if err != nil {
		return fmt.Errorf("update tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a tweet. Its likes cascade through foreign keys.
func (r *PostgresTweetRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListForUser returns a user's tweets newest first with their like counts.
func (r *PostgresTweetRepository) ListForUser(ctx context.Context, userID string) ([]models.TweetListing, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
               (SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id)
        FROM tweets t
        WHERE t.owner_id = $1
        ORDER BY t.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query tweets: %w", err)
	}
	defer rows.Close()

	var listings []models.TweetListing
	for rows.Next() {
		var listing models.TweetListing
		if err := rows.Scan(&listing.ID, &listing.OwnerID, &listing.Content,
			&listing.CreatedAt, &listing.UpdatedAt, &listing.LikeCount); err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tweets: %w", err)
	}

	return listings, nil
}
