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

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create persists a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, comment.ID, comment.VideoID, comment.OwnerID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// FindByID fetches a comment by id.
func (r *PostgresCommentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, video_id, owner_id, content, created_at, updated_at
        FROM comments
        WHERE id = $1
    `, id)

	var comment models.Comment
	if err := row.Scan(&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("select comment: %w", err)
	}

	return comment, nil
}

// UpdateContent replaces the comment body.
func (r *PostgresCommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE comments
        SET content = $2, updated_at = NOW()
        WHERE id = $1
    `, id, content)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a comment. Its likes cascade through foreign keys.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListForVideo returns a video's comments newest first, each joined with
// its author and like data as seen by the viewer. Pages are 1-indexed.
func (r *PostgresCommentRepository) ListForVideo(ctx context.Context, videoID, viewerID string, page, limit int) ([]models.CommentListing, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	rows, err := conn.Query(ctx, `
        SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
               u.id, u.username, u.full_name, u.avatar,
               (SELECT COUNT(*) FROM likes l WHERE l.comment_id = c.id),
               EXISTS (SELECT 1 FROM likes l WHERE l.comment_id = c.id AND l.liked_by = $2),
               c.updated_at > c.created_at
        FROM comments c
        JOIN users u ON u.id = c.owner_id
        WHERE c.video_id = $1
        ORDER BY c.created_at DESC
        LIMIT $3 OFFSET $4
    `, videoID, viewerID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var listings []models.CommentListing
	for rows.Next() {
		var listing models.CommentListing
		if err := rows.Scan(&listing.ID, &listing.VideoID, &listing.OwnerID, &listing.Content,
			&listing.CreatedAt, &listing.UpdatedAt,
			&listing.Owner.ID, &listing.Owner.Username, &listing.Owner.FullName, &listing.Owner.Avatar,
			&listing.LikeCount, &listing.IsLiked, &listing.IsEdited); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return listings, nil
}
