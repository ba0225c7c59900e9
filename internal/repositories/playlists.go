package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for playlists.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create persists a new empty playlist.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert playlist: %w", err)
	}

	return nil
}

// FindByID fetches a playlist by id.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, name, description, created_at, updated_at
        FROM playlists
        WHERE id = $1
    `, id)

	var playlist models.Playlist
	if err := row.Scan(&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("select playlist: %w", err)
	}

	return playlist, nil
}

// Update modifies the playlist's name and description.
func (r *PostgresPlaylistRepository) Update(ctx context.Context, id, name, description string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists
        SET name = $2, description = $3, updated_at = NOW()
        WHERE id = $1
    `, id, name, description)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a playlist and its entries.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AddVideo appends the video to the playlist. Adding a video that is
// already present is a no-op, preserving set semantics and position.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
        VALUES ($1, $2,
                (SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_videos WHERE playlist_id = $1),
                $3)
        ON CONFLICT (playlist_id, video_id) DO NOTHING
    `, playlistID, videoID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert playlist entry: %w", err)
	}

	return nil
}

// RemoveVideo drops the video from the playlist.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM playlist_videos
        WHERE playlist_id = $1 AND video_id = $2
    `, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("delete playlist entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Detail loads a playlist with its published videos in playlist order,
// the owner's summary, and the derived totals.
func (r *PostgresPlaylistRepository) Detail(ctx context.Context, playlistID string) (models.PlaylistDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
               u.id, u.username, u.full_name, u.avatar
        FROM playlists p
        JOIN users u ON u.id = p.owner_id
        WHERE p.id = $1
    `, playlistID)

	var detail models.PlaylistDetail
	if err := row.Scan(&detail.ID, &detail.OwnerID, &detail.Name, &detail.Description,
		&detail.CreatedAt, &detail.UpdatedAt,
		&detail.Owner.ID, &detail.Owner.Username, &detail.Owner.FullName, &detail.Owner.Avatar); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PlaylistDetail{}, ErrNotFound
		}
		return models.PlaylistDetail{}, fmt.Errorf("select playlist detail: %w", err)
	}

	videos, err := r.playlistVideos(ctx, conn, playlistID)
	if err != nil {
		return models.PlaylistDetail{}, err
	}

	detail.Videos = videos
	detail.TotalVideos = int64(len(videos))
	for _, video := range videos {
		detail.TotalViews += video.Views
	}

	return detail, nil
}

// ListForUser returns every playlist owned by the user, newest first,
// each with its published videos and totals.
func (r *PostgresPlaylistRepository) ListForUser(ctx context.Context, userID string) ([]models.PlaylistDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
               u.id, u.username, u.full_name, u.avatar
        FROM playlists p
        JOIN users u ON u.id = p.owner_id
        WHERE p.owner_id = $1
        ORDER BY p.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}

	var details []models.PlaylistDetail
	for rows.Next() {
		var detail models.PlaylistDetail
		if err := rows.Scan(&detail.ID, &detail.OwnerID, &detail.Name, &detail.Description,
			&detail.CreatedAt, &detail.UpdatedAt,
			&detail.Owner.ID, &detail.Owner.Username, &detail.Owner.FullName, &detail.Owner.Avatar); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	rows.Close()

	for i := range details {
		videos, err := r.playlistVideos(ctx, conn, details[i].ID)
		if err != nil {
			return nil, err
		}
		details[i].Videos = videos
		details[i].TotalVideos = int64(len(videos))
		for _, video := range videos {
			details[i].TotalViews += video.Views
		}
	}

	return details, nil
}

func (r *PostgresPlaylistRepository) playlistVideos(ctx context.Context, conn queryRunner, playlistID string) ([]models.VideoListing, error) {
	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.duration, v.video_file, v.thumbnail,
               v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar
        FROM playlist_videos pv
        JOIN videos v ON v.id = pv.video_id AND v.is_published
        JOIN users u ON u.id = v.owner_id
        WHERE pv.playlist_id = $1
        ORDER BY pv.position
    `, playlistID)
	if err != nil {
		return nil, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	var listings []models.VideoListing
	for rows.Next() {
		var listing models.VideoListing
		if err := rows.Scan(&listing.ID, &listing.OwnerID, &listing.Title, &listing.Description, &listing.Duration,
			&listing.VideoFile, &listing.Thumbnail, &listing.Views, &listing.IsPublished, &listing.CreatedAt, &listing.UpdatedAt,
			&listing.Owner.ID, &listing.Owner.Username, &listing.Owner.FullName, &listing.Owner.Avatar); err != nil {
			return nil, fmt.Errorf("scan playlist video: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist videos: %w", err)
	}

	return listings, nil
}

// queryRunner is the subset of a pooled connection used by list helpers.
type queryRunner interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
