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

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle unsubscribes if a subscription exists, subscribes otherwise, and
// reports the resulting state.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var existing string
	err = conn.QueryRow(ctx, `
        SELECT id FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID).Scan(&existing)
	switch {
	case err == nil:
		if _, err := conn.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, existing); err != nil {
			return false, fmt.Errorf("delete subscription: %w", err)
		}
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		// fall through to create
	default:
		return false, fmt.Errorf("select subscription: %w", err)
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
    `, uuid.NewString(), subscriberID, channelID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return false, ErrNotFound
			case "23505":
				return true, nil
			case "23514":
				return false, ErrConflict
			}
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	return true, nil
}

// CountForChannel returns how many users subscribe to the channel.
func (r *PostgresSubscriptionRepository) CountForChannel(ctx context.Context, channelID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}

	return count, nil
}

// Subscribers lists the channel's subscribers, newest first. Each row
// carries the subscriber's own subscriber count and whether the channel
// follows them back.
func (r *PostgresSubscriptionRepository) Subscribers(ctx context.Context, channelID string) ([]models.Subscriber, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar,
               (SELECT COUNT(*) FROM subscriptions s2 WHERE s2.channel_id = u.id),
               EXISTS (SELECT 1 FROM subscriptions s3 WHERE s3.subscriber_id = $1 AND s3.channel_id = u.id)
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Username, &sub.FullName, &sub.Avatar,
			&sub.SubscribersCount, &sub.SubscribedToViewer); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subscribers, nil
}

// SubscribedChannels lists the channels the user subscribes to, newest
// first, each with its subscriber count and latest published video.
func (r *PostgresSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID string) ([]models.SubscribedChannel, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar,
               (SELECT COUNT(*) FROM subscriptions s2 WHERE s2.channel_id = u.id),
               lv.id, lv.owner_id, lv.title, lv.description, lv.duration, lv.video_file, lv.thumbnail,
               lv.views, lv.is_published, lv.created_at, lv.updated_at
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        LEFT JOIN LATERAL (
            SELECT v.id, v.owner_id, v.title, v.description, v.duration, v.video_file, v.thumbnail,
                   v.views, v.is_published, v.created_at, v.updated_at
            FROM videos v
            WHERE v.owner_id = u.id AND v.is_published
            ORDER BY v.created_at DESC
            LIMIT 1
        ) lv ON TRUE
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("query subscribed channels: %w", err)
	}
	defer rows.Close()

	var channels []models.SubscribedChannel
	for rows.Next() {
		var (
			channel models.SubscribedChannel

			videoID, ownerID, title, description, videoFile, thumbnail *string
			duration                                                   *float64
			views                                                      *int64
			isPublished                                                *bool
			createdAt, updatedAt                                       *time.Time
		)
		if err := rows.Scan(&channel.ID, &channel.Username, &channel.FullName, &channel.Avatar,
			&channel.SubscribersCount,
			&videoID, &ownerID, &title, &description, &duration, &videoFile, &thumbnail,
			&views, &isPublished, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan subscribed channel: %w", err)
		}

		if videoID != nil {
			video := models.Video{
				ID:          *videoID,
				OwnerID:     *ownerID,
				Title:       *title,
				Description: *description,
				Duration:    *duration,
				VideoFile:   *videoFile,
				Thumbnail:   *thumbnail,
				Views:       *views,
				IsPublished: *isPublished,
				CreatedAt:   *createdAt,
				UpdatedAt:   *updatedAt,
			}
			channel.LatestVideo = &video
		}

		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribed channels: %w", err)
	}

	return channels, nil
}
