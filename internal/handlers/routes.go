package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Tokens        TokenVerifier
	Videos        VideoStore
	Comments      CommentStore
	Likes         LikeStore
	Tweets        TweetStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Media         MediaStore
	AuthLimiter   RateLimiter
	CookieSecure  bool
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	users := UserHandler{
		Users:        deps.Users,
		Sessions:     deps.Sessions,
		Media:        deps.Media,
		Limiter:      deps.AuthLimiter,
		CookieSecure: deps.CookieSecure,
	}
	videos := VideoHandler{Videos: deps.Videos, Users: deps.Users, Media: deps.Media}
	comments := CommentHandler{Comments: deps.Comments}
	likes := LikeHandler{Likes: deps.Likes}
	tweets := TweetHandler{Tweets: deps.Tweets}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions}
	dashboard := DashboardHandler{Videos: deps.Videos}

	guard := RequireAuth(deps.Tokens, deps.Users)
	protected := func(handler http.HandlerFunc) http.Handler {
		return guard(handler)
	}

	mux.HandleFunc("GET /healthz", health.Handle)
	mux.HandleFunc("GET /api/v1/healthCheck", health.Handle)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-token", users.Refresh)
	mux.Handle("POST /api/v1/users/logout", protected(users.Logout))
	mux.Handle("POST /api/v1/users/change-password", protected(users.ChangePassword))
	mux.Handle("GET /api/v1/users/current-user", protected(users.CurrentUser))
	mux.Handle("PATCH /api/v1/users/update-user", protected(users.UpdateDetails))
	mux.Handle("PATCH /api/v1/users/update-avatar", protected(users.UpdateAvatar))
	mux.Handle("PATCH /api/v1/users/update-cover", protected(users.UpdateCoverImage))
	mux.Handle("GET /api/v1/users/c/{username}", protected(users.Channel))
	mux.Handle("GET /api/v1/users/history", protected(users.WatchHistory))

	mux.Handle("GET /api/v1/video", protected(videos.Feed))
	mux.Handle("POST /api/v1/video", protected(videos.Publish))
	mux.Handle("GET /api/v1/video/{videoId}", protected(videos.Get))
	mux.Handle("PATCH /api/v1/video/{videoId}", protected(videos.Update))
	mux.Handle("DELETE /api/v1/video/{videoId}", protected(videos.Delete))
	mux.Handle("PATCH /api/v1/video/toggle/publish/{videoId}", protected(videos.TogglePublish))

	mux.Handle("GET /api/v1/comment/{videoId}", protected(comments.List))
	mux.Handle("POST /api/v1/comment/{videoId}", protected(comments.Create))
	mux.Handle("PATCH /api/v1/comment/c/{commentId}", protected(comments.Update))
	mux.Handle("DELETE /api/v1/comment/c/{commentId}", protected(comments.Delete))

	mux.Handle("POST /api/v1/likes/toggle/v/{videoId}", protected(likes.ToggleVideo))
	mux.Handle("POST /api/v1/likes/toggle/c/{commentId}", protected(likes.ToggleComment))
	mux.Handle("POST /api/v1/likes/toggle/t/{tweetId}", protected(likes.ToggleTweet))
	mux.Handle("GET /api/v1/likes/videos", protected(likes.LikedVideos))

	mux.Handle("POST /api/v1/tweet", protected(tweets.Create))
	mux.Handle("GET /api/v1/tweet/user/{userId}", protected(tweets.ListForUser))
	mux.Handle("PATCH /api/v1/tweet/{tweetId}", protected(tweets.Update))
	mux.Handle("DELETE /api/v1/tweet/{tweetId}", protected(tweets.Delete))

	mux.Handle("POST /api/v1/playlist", protected(playlists.Create))
	mux.Handle("GET /api/v1/playlist/{playlistId}", protected(playlists.Get))
	mux.Handle("PATCH /api/v1/playlist/{playlistId}", protected(playlists.Update))
	mux.Handle("DELETE /api/v1/playlist/{playlistId}", protected(playlists.Delete))
	mux.Handle("PATCH /api/v1/playlist/add/{videoId}/{playlistId}", protected(playlists.AddVideo))
	mux.Handle("PATCH /api/v1/playlist/remove/{videoId}/{playlistId}", protected(playlists.RemoveVideo))
	mux.Handle("GET /api/v1/playlist/user/{userId}", protected(playlists.ListForUser))

	mux.Handle("POST /api/v1/subscriptions/c/{channelId}", protected(subscriptions.Toggle))
	mux.Handle("GET /api/v1/subscriptions/c/{channelId}", protected(subscriptions.Subscribers))
	mux.Handle("GET /api/v1/subscriptions/u/{subscriberId}", protected(subscriptions.SubscribedChannels))

	mux.Handle("GET /api/v1/dashboard/stats", protected(dashboard.Stats))
	mux.Handle("GET /api/v1/dashboard/videos", protected(dashboard.ChannelVideos))
}
