package handlers

import (
	"context"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, login string) (models.User, error)
	UpdateDetails(ctx context.Context, id, fullName, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	UpdateCoverImage(ctx context.Context, id, coverURL string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	AddWatchHistory(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error)
}

// SessionManager issues, redeems and revokes authentication token pairs.
type SessionManager interface {
	Issue(ctx context.Context, identity auth.Identity) (models.SessionTokens, error)
	Redeem(ctx context.Context, refreshToken string) (string, error)
	Revoke(ctx context.Context, refreshToken string)
}

// TokenVerifier validates access tokens presented on incoming requests.
type TokenVerifier interface {
	VerifyAccess(token string) (auth.Identity, error)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	UpdateDetails(ctx context.Context, id, title, description, thumbnail string) error
	SetPublished(ctx context.Context, id string, published bool) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Feed(ctx context.Context, params repositories.FeedParams) ([]models.VideoListing, error)
	Detail(ctx context.Context, videoID, viewerID string) (models.VideoDetail, error)
	ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error)
	ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error)
}

// CommentStore captures persistence for comment workflows.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID, viewerID string, page, limit int) ([]models.CommentListing, error)
}

// LikeStore captures persistence for like toggles and listings.
type LikeStore interface {
	Toggle(ctx context.Context, userID string, target models.LikeTarget, targetID string) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]models.VideoListing, error)
}

// TweetStore captures persistence for tweet workflows.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]models.TweetListing, error)
}

// PlaylistStore captures persistence for playlist workflows.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, id, name, description string) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	Detail(ctx context.Context, playlistID string) (models.PlaylistDetail, error)
	ListForUser(ctx context.Context, userID string) ([]models.PlaylistDetail, error)
}

// SubscriptionStore captures persistence for the subscription graph.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]models.Subscriber, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]models.SubscribedChannel, error)
}

// MediaStore is the external object-storage delegate for binary assets.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Delete(ctx context.Context, url string) error
}
