package models

import "time"

// User represents an account within the ClipStream platform. Every user is
// also a channel that others may subscribe to.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Password   string    `json:"-"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnerSummary is the abbreviated profile embedded in listings.
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Video is an uploaded clip owned by a user.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoListing is a feed row: a video joined with its owner's summary.
type VideoListing struct {
	Video
	Owner OwnerSummary `json:"owner"`
}

// VideoDetail enriches a video with like data and the owning channel.
type VideoDetail struct {
	Video
	Owner      ChannelSummary `json:"owner"`
	LikesCount int64          `json:"likesCount"`
	IsLiked    bool           `json:"isLiked"`
}

// ChannelSummary describes a video owner as seen by the requesting user.
type ChannelSummary struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"fullName"`
	Avatar           string `json:"avatar"`
	SubscribersCount int64  `json:"subscribersCount"`
	IsSubscribed     bool   `json:"isSubscribed"`
}

// ChannelProfile is the public profile of a channel page.
type ChannelProfile struct {
	ID                   string    `json:"id"`
	Username             string    `json:"username"`
	FullName             string    `json:"fullName"`
	Avatar               string    `json:"avatar"`
	CoverImage           string    `json:"coverImage,omitempty"`
	SubscribersCount     int64     `json:"subscribersCount"`
	ChannelsSubscribedTo int64     `json:"channelsSubscribedToCount"`
	IsSubscribed         bool      `json:"isSubscribed"`
	CreatedAt            time.Time `json:"createdAt"`
}

// ChannelStats aggregates a channel's totals for the dashboard.
type ChannelStats struct {
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}

// ChannelVideo is a dashboard row covering published and unpublished videos.
type ChannelVideo struct {
	Video
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

// Comment is a remark attached to a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentListing is a comment joined with its author and like data.
type CommentListing struct {
	Comment
	Owner     OwnerSummary `json:"owner"`
	LikeCount int64        `json:"likeCount"`
	IsLiked   bool         `json:"isLiked"`
	IsEdited  bool         `json:"isEdited"`
}

// Tweet is a short text update posted on a channel.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TweetListing adds the like count to a tweet.
type TweetListing struct {
	Tweet
	LikeCount int64 `json:"likeCount"`
}

// LikeTarget identifies the entity kind a like points at. Exactly one
// target reference is set per like record.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Playlist is an ordered set of videos curated by a user.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistDetail joins a playlist with its published videos and totals.
type PlaylistDetail struct {
	Playlist
	Owner       OwnerSummary   `json:"owner"`
	TotalVideos int64          `json:"totalVideos"`
	TotalViews  int64          `json:"totalViews"`
	Videos      []VideoListing `json:"videos"`
}

// Subscription links a subscriber to a channel.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Subscriber is a row of a channel's subscriber listing.
type Subscriber struct {
	OwnerSummary
	SubscribersCount   int64 `json:"subscribersCount"`
	SubscribedToViewer bool  `json:"subscribedToViewer"`
}

// SubscribedChannel is a row of a user's subscribed-channel listing.
type SubscribedChannel struct {
	OwnerSummary
	SubscribersCount int64  `json:"subscribersCount"`
	LatestVideo      *Video `json:"latestVideo,omitempty"`
}

// WatchHistoryEntry is a watched video joined with its owner.
type WatchHistoryEntry struct {
	VideoListing
	WatchedAt time.Time `json:"watchedAt"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
