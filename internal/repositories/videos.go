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

// FeedParams filters and orders the public video feed.
type FeedParams struct {
	Query    string
	OwnerID  string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

// feedSortColumns whitelists the sortable feed columns.
var feedSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration",
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoColumns = `v.id, v.owner_id, v.title, v.description, v.duration, v.video_file, v.thumbnail, v.views, v.is_published, v.created_at, v.updated_at`

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	err := row.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.Duration,
		&video.VideoFile, &video.Thumbnail, &video.Views, &video.IsPublished, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("scan video: %w", err)
	}
	return video, nil
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, duration, video_file, thumbnail, views, is_published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.Duration, video.VideoFile,
		video.Thumbnail, video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by id.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return scanVideo(conn.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos v WHERE v.id = $1`, id))
}

// UpdateDetails modifies the title, description and thumbnail of a video.
func (r *PostgresVideoRepository) UpdateDetails(ctx context.Context, id, title, description, thumbnail string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail = $4, updated_at = NOW()
        WHERE id = $1
    `, id, title, description, thumbnail)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetPublished flips the published flag. Dependent listings only ever show
// published videos.
func (r *PostgresVideoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET is_published = $2, updated_at = NOW()
        WHERE id = $1
    `, id, published)
	if err != nil {
		return fmt.Errorf("update published flag: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementViews bumps the monotonic view counter.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET views = views + 1
        WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video. Likes, comments, playlist entries and watch
// history rows cascade through foreign keys.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Feed lists published videos joined with their owners' summaries,
// optionally filtered by full-text search and owner, paginated 1-indexed.
func (r *PostgresVideoRepository) Feed(ctx context.Context, params FeedParams) ([]models.VideoListing, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query := `
        SELECT ` + videoColumns + `,
               u.id, u.username, u.full_name, u.avatar
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.is_published`
	args := []any{}

	if params.OwnerID != "" {
		args = append(args, params.OwnerID)
		query += fmt.Sprintf(" AND v.owner_id = $%d", len(args))
	}
	if params.Query != "" {
		args = append(args, params.Query)
		query += fmt.Sprintf(`
            AND setweight(to_tsvector('english', v.title), 'A') || setweight(to_tsvector('english', v.description), 'B')
                @@ plainto_tsquery('english', $%d)`, len(args))
	}

	column, ok := feedSortColumns[params.SortBy]
	if !ok {
		column = "v.created_at"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query video feed: %w", err)
	}
	defer rows.Close()

	var listings []models.VideoListing
	for rows.Next() {
		var listing models.VideoListing
		if err := rows.Scan(&listing.ID, &listing.OwnerID, &listing.Title, &listing.Description, &listing.Duration,
			&listing.VideoFile, &listing.Thumbnail, &listing.Views, &listing.IsPublished, &listing.CreatedAt, &listing.UpdatedAt,
			&listing.Owner.ID, &listing.Owner.Username, &listing.Owner.FullName, &listing.Owner.Avatar); err != nil {
			return nil, fmt.Errorf("scan feed row: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video feed: %w", err)
	}

	return listings, nil
}

// Detail loads a single video enriched with like data and the owning
// channel as seen by the viewer.
func (r *PostgresVideoRepository) Detail(ctx context.Context, videoID, viewerID string) (models.VideoDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+videoColumns+`,
               u.id, u.username, u.full_name, u.avatar,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
               EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2),
               (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id),
               EXISTS (SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.liked_by = $2)
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.id = $1
    `, videoID, viewerID)

	var detail models.VideoDetail
	if err := row.Scan(&detail.ID, &detail.OwnerID, &detail.Title, &detail.Description, &detail.Duration,
		&detail.VideoFile, &detail.Thumbnail, &detail.Views, &detail.IsPublished, &detail.CreatedAt, &detail.UpdatedAt,
		&detail.Owner.ID, &detail.Owner.Username, &detail.Owner.FullName, &detail.Owner.Avatar,
		&detail.Owner.SubscribersCount, &detail.Owner.IsSubscribed,
		&detail.LikesCount, &detail.IsLiked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoDetail{}, ErrNotFound
		}
		return models.VideoDetail{}, fmt.Errorf("select video detail: %w", err)
	}

	return detail, nil
}

// ChannelVideos lists every video owned by the channel, published or not,
// with like and comment counts. Used by the owner dashboard.
func (r *PostgresVideoRepository) ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`,
               (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id),
               (SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id)
        FROM videos v
        WHERE v.owner_id = $1
        ORDER BY v.created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query channel videos: %w", err)
	}
	defer rows.Close()

	var videos []models.ChannelVideo
	for rows.Next() {
		var video models.ChannelVideo
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.Duration,
			&video.VideoFile, &video.Thumbnail, &video.Views, &video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
			&video.LikesCount, &video.CommentsCount); err != nil {
			return nil, fmt.Errorf("scan channel video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel videos: %w", err)
	}

	return videos, nil
}

// ChannelStats folds the channel's videos, likes and subscribers into the
// dashboard totals.
func (r *PostgresVideoRepository) ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT COALESCE((SELECT SUM(v.views) FROM videos v WHERE v.owner_id = $1), 0),
               (SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.video_id WHERE v.owner_id = $1),
               (SELECT COUNT(*) FROM videos v WHERE v.owner_id = $1),
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = $1)
    `, ownerID)

	var stats models.ChannelStats
	if err := row.Scan(&stats.TotalViews, &stats.TotalLikes, &stats.TotalVideos, &stats.TotalSubscribers); err != nil {
		return models.ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}

	return stats, nil
}
