package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

// likeTargetColumns maps a like target kind to its reference column.
var likeTargetColumns = map[models.LikeTarget]string{
	models.LikeTargetVideo:   "video_id",
	models.LikeTargetComment: "comment_id",
	models.LikeTargetTweet:   "tweet_id",
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Toggle removes the user's like on the target if present, creates it
// otherwise, and reports the resulting state.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, userID string, target models.LikeTarget, targetID string) (bool, error) {
	column, ok := likeTargetColumns[target]
	if !ok {
		return false, fmt.Errorf("unknown like target %q", target)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var existing string
	err = conn.QueryRow(ctx, `
        SELECT id FROM likes WHERE liked_by = $1 AND `+column+` = $2
    `, userID, targetID).Scan(&existing)
	switch {
	case err == nil:
		if _, err := conn.Exec(ctx, `DELETE FROM likes WHERE id = $1`, existing); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		// fall through to create
	default:
		return false, fmt.Errorf("select like: %w", err)
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (id, liked_by, `+column+`, created_at)
        VALUES ($1, $2, $3, $4)
    `, uuid.NewString(), userID, targetID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return false, ErrNotFound
			case "23505":
				// concurrent duplicate toggle; the like exists, which is what the caller asked for
				return true, nil
			}
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	return true, nil
}

// Count returns the number of likes on the target.
func (r *PostgresLikeRepository) Count(ctx context.Context, target models.LikeTarget, targetID string) (int64, error) {
	column, ok := likeTargetColumns[target]
	if !ok {
		return 0, fmt.Errorf("unknown like target %q", target)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE `+column+` = $1`, targetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// LikedVideos lists the videos the user has liked, most recently liked
// first, each joined with its owner's summary.
func (r *PostgresLikeRepository) LikedVideos(ctx context.Context, userID string) ([]models.VideoListing, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.duration, v.video_file, v.thumbnail,
               v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.liked_by = $1 AND l.video_id IS NOT NULL AND (v.is_published OR v.owner_id = l.liked_by)
        ORDER BY l.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var listings []models.VideoListing
	for rows.Next() {
		var listing models.VideoListing
		if err := rows.Scan(&listing.ID, &listing.OwnerID, &listing.Title, &listing.Description, &listing.Duration,
			&listing.VideoFile, &listing.Thumbnail, &listing.Views, &listing.IsPublished, &listing.CreatedAt, &listing.UpdatedAt,
			&listing.Owner.ID, &listing.Owner.Username, &listing.Owner.FullName, &listing.Owner.Avatar); err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return listings, nil
}
