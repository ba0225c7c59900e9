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

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, full_name, password_hash, avatar, cover_image, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Password,
		&user.Avatar, &user.CoverImage, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, full_name, password_hash, avatar, cover_image, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, user.Username, user.Email, user.FullName, user.Password, user.Avatar, user.CoverImage, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID fetches a user by id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return scanUser(conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// FindByLogin fetches a user by username or email, the two identifiers
// accepted on login.
func (r *PostgresUserRepository) FindByLogin(ctx context.Context, login string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return scanUser(conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE username = $1 OR email = $1
    `, login))
}

// UpdateDetails modifies the mutable account fields of an existing user.
func (r *PostgresUserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET full_name = $2, email = $3, updated_at = NOW()
        WHERE id = $1
    `, id, fullName, email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET password_hash = $2, updated_at = NOW()
        WHERE id = $1
    `, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateAvatar replaces the avatar URL.
func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.updateImage(ctx, id, "avatar", avatarURL)
}

// UpdateCoverImage replaces the cover image URL.
func (r *PostgresUserRepository) UpdateCoverImage(ctx context.Context, id, coverURL string) error {
	return r.updateImage(ctx, id, "cover_image", coverURL)
}

func (r *PostgresUserRepository) updateImage(ctx context.Context, id, column, url string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET `+column+` = $2, updated_at = NOW()
        WHERE id = $1
    `, id, url)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ChannelProfile loads the public profile of the channel with the given
// username, including subscriber counts and whether the viewer subscribes.
func (r *PostgresUserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar, u.cover_image, u.created_at,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
               (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
               EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
        FROM users u
        WHERE u.username = $1
    `, username, viewerID)

	var profile models.ChannelProfile
	if err := row.Scan(&profile.ID, &profile.Username, &profile.FullName, &profile.Avatar, &profile.CoverImage,
		&profile.CreatedAt, &profile.SubscribersCount, &profile.ChannelsSubscribedTo, &profile.IsSubscribed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return profile, nil
}

// AddWatchHistory records that the user watched the video. Re-watching an
// already recorded video is a no-op.
func (r *PostgresUserRepository) AddWatchHistory(ctx context.Context, userID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO watch_history (user_id, video_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, video_id) DO NOTHING
    `, userID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert watch history: %w", err)
	}

	return nil
}

// WatchHistory lists the user's watched videos, most recent first, each
// joined with its owner's summary.
func (r *PostgresUserRepository) WatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT w.watched_at,
               v.id, v.owner_id, v.title, v.description, v.duration, v.video_file, v.thumbnail,
               v.views, v.is_published, v.created_at, v.updated_at,
               u.id, u.username, u.full_name, u.avatar
        FROM watch_history w
        JOIN videos v ON v.id = w.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE w.user_id = $1 AND (v.is_published OR v.owner_id = w.user_id)
        ORDER BY w.watched_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchHistoryEntry
	for rows.Next() {
		var entry models.WatchHistoryEntry
		if err := rows.Scan(&entry.WatchedAt,
			&entry.ID, &entry.OwnerID, &entry.Title, &entry.Description, &entry.Duration, &entry.VideoFile,
			&entry.Thumbnail, &entry.Views, &entry.IsPublished, &entry.CreatedAt, &entry.UpdatedAt,
			&entry.Owner.ID, &entry.Owner.Username, &entry.Owner.FullName, &entry.Owner.Avatar); err != nil {
			return nil, fmt.Errorf("scan watch history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return entries, nil
}
