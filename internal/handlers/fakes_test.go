package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

type fakeUserStore struct {
	users   map[string]models.User
	history map[string][]string
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{
		users:   make(map[string]models.User),
		history: make(map[string][]string),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByLogin(_ context.Context, login string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) UpdateDetails(_ context.Context, id, fullName, email string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.FullName = fullName
	user.Email = email
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Avatar = avatarURL
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) UpdateCoverImage(_ context.Context, id, coverURL string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.CoverImage = coverURL
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) ChannelProfile(_ context.Context, username, _ string) (models.ChannelProfile, error) {
	for _, user := range s.users {
		if user.Username == username {
			return models.ChannelProfile{
				ID:       user.ID,
				Username: user.Username,
				FullName: user.FullName,
			}, nil
		}
	}
	return models.ChannelProfile{}, repositories.ErrNotFound
}

func (s *fakeUserStore) AddWatchHistory(_ context.Context, userID, videoID string) error {
	for _, seen := range s.history[userID] {
		if seen == videoID {
			return nil
		}
	}
	s.history[userID] = append(s.history[userID], videoID)
	return nil
}

func (s *fakeUserStore) WatchHistory(_ context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	entries := make([]models.WatchHistoryEntry, 0, len(s.history[userID]))
	for _, videoID := range s.history[userID] {
		entry := models.WatchHistoryEntry{}
		entry.ID = videoID
		entries = append(entries, entry)
	}
	return entries, nil
}

type fakeSessionManager struct {
	issued   int
	revoked  []string
	sessions map[string]string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: make(map[string]string)}
}

func (m *fakeSessionManager) Issue(_ context.Context, identity auth.Identity) (models.SessionTokens, error) {
	m.issued++
	refresh := fmt.Sprintf("refresh-%d-%s", m.issued, identity.ID)
	m.sessions[refresh] = identity.ID
	return models.SessionTokens{
		AccessToken:  fmt.Sprintf("access-%d-%s", m.issued, identity.ID),
		RefreshToken: refresh,
	}, nil
}

func (m *fakeSessionManager) Redeem(_ context.Context, refreshToken string) (string, error) {
	userID, ok := m.sessions[refreshToken]
	if !ok {
		return "", auth.ErrSessionNotFound
	}
	delete(m.sessions, refreshToken)
	return userID, nil
}

func (m *fakeSessionManager) Revoke(_ context.Context, refreshToken string) {
	m.revoked = append(m.revoked, refreshToken)
	delete(m.sessions, refreshToken)
}

type fakeVerifier struct {
	identities map[string]auth.Identity
}

func (v *fakeVerifier) VerifyAccess(token string) (auth.Identity, error) {
	identity, ok := v.identities[token]
	if !ok {
		return auth.Identity{}, auth.ErrTokenInvalid
	}
	return identity, nil
}

type fakeMediaStore struct {
	uploads int
	deleted []string
}

func (s *fakeMediaStore) Upload(_ context.Context, _ string) (string, error) {
	s.uploads++
	return "https://cdn.test/object", nil
}

func (s *fakeMediaStore) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

type fakeVideoStore struct {
	videos map[string]models.Video
	stats  models.ChannelStats
	views  map[string]int
}

func newFakeVideoStore(videos ...models.Video) *fakeVideoStore {
	s := &fakeVideoStore{
		videos: make(map[string]models.Video),
		views:  make(map[string]int),
	}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *fakeVideoStore) UpdateDetails(_ context.Context, id, title, description, thumbnail string) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Title = title
	video.Description = description
	video.Thumbnail = thumbnail
	s.videos[id] = video
	return nil
}

func (s *fakeVideoStore) SetPublished(_ context.Context, id string, published bool) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.IsPublished = published
	s.videos[id] = video
	return nil
}

func (s *fakeVideoStore) IncrementViews(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	s.views[id]++
	return nil
}

func (s *fakeVideoStore) Delete(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *fakeVideoStore) Feed(_ context.Context, params repositories.FeedParams) ([]models.VideoListing, error) {
	var listings []models.VideoListing
	for _, video := range s.videos {
		if !video.IsPublished {
			continue
		}
		if params.OwnerID != "" && video.OwnerID != params.OwnerID {
			continue
		}
		listings = append(listings, models.VideoListing{Video: video})
	}
	return listings, nil
}

func (s *fakeVideoStore) Detail(_ context.Context, videoID, _ string) (models.VideoDetail, error) {
	video, ok := s.videos[videoID]
	if !ok {
		return models.VideoDetail{}, repositories.ErrNotFound
	}
	return models.VideoDetail{Video: video}, nil
}

func (s *fakeVideoStore) ChannelVideos(_ context.Context, ownerID string) ([]models.ChannelVideo, error) {
	var rows []models.ChannelVideo
	for _, video := range s.videos {
		if video.OwnerID == ownerID {
			rows = append(rows, models.ChannelVideo{Video: video})
		}
	}
	return rows, nil
}

func (s *fakeVideoStore) ChannelStats(_ context.Context, _ string) (models.ChannelStats, error) {
	return s.stats, nil
}

type fakeLikeStore struct {
	liked map[string]bool
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{liked: make(map[string]bool)}
}

func (s *fakeLikeStore) Toggle(_ context.Context, userID string, target models.LikeTarget, targetID string) (bool, error) {
	if targetID == "missing" {
		return false, repositories.ErrNotFound
	}
	key := userID + "/" + string(target) + "/" + targetID
	s.liked[key] = !s.liked[key]
	return s.liked[key], nil
}

func (s *fakeLikeStore) LikedVideos(_ context.Context, _ string) ([]models.VideoListing, error) {
	return nil, nil
}

type fakePlaylistStore struct {
	playlists map[string]models.Playlist
	members   map[string][]string
}

func newFakePlaylistStore(playlists ...models.Playlist) *fakePlaylistStore {
	s := &fakePlaylistStore{
		playlists: make(map[string]models.Playlist),
		members:   make(map[string][]string),
	}
	for _, p := range playlists {
		s.playlists[p.ID] = p
	}
	return s
}

func (s *fakePlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *fakePlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *fakePlaylistStore) Update(_ context.Context, id, name, description string) error {
	playlist, ok := s.playlists[id]
	if !ok {
		return repositories.ErrNotFound
	}
	playlist.Name = name
	playlist.Description = description
	s.playlists[id] = playlist
	return nil
}

func (s *fakePlaylistStore) Delete(_ context.Context, id string) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

func (s *fakePlaylistStore) AddVideo(_ context.Context, playlistID, videoID string) error {
	for _, member := range s.members[playlistID] {
		if member == videoID {
			return nil
		}
	}
	s.members[playlistID] = append(s.members[playlistID], videoID)
	return nil
}

func (s *fakePlaylistStore) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	members := s.members[playlistID]
	for i, member := range members {
		if member == videoID {
			s.members[playlistID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *fakePlaylistStore) Detail(_ context.Context, playlistID string) (models.PlaylistDetail, error) {
	playlist, ok := s.playlists[playlistID]
	if !ok {
		return models.PlaylistDetail{}, repositories.ErrNotFound
	}
	return models.PlaylistDetail{Playlist: playlist, TotalVideos: int64(len(s.members[playlistID]))}, nil
}

func (s *fakePlaylistStore) ListForUser(_ context.Context, userID string) ([]models.PlaylistDetail, error) {
	var details []models.PlaylistDetail
	for _, playlist := range s.playlists {
		if playlist.OwnerID == userID {
			details = append(details, models.PlaylistDetail{Playlist: playlist})
		}
	}
	return details, nil
}

type fakeCommentStore struct {
	comments map[string]models.Comment
	edited   map[string]bool
}

func newFakeCommentStore(comments ...models.Comment) *fakeCommentStore {
	s := &fakeCommentStore{
		comments: make(map[string]models.Comment),
		edited:   make(map[string]bool),
	}
	for _, c := range comments {
		s.comments[c.ID] = c
	}
	return s
}

func (s *fakeCommentStore) Create(_ context.Context, comment models.Comment) error {
	if comment.VideoID == "missing" {
		return repositories.ErrNotFound
	}
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentStore) UpdateContent(_ context.Context, id, content string) error {
	comment, ok := s.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	comment.Content = content
	s.comments[id] = comment
	s.edited[id] = true
	return nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *fakeCommentStore) ListForVideo(_ context.Context, videoID, _ string, _, _ int) ([]models.CommentListing, error) {
	var listings []models.CommentListing
	for _, c := range s.comments {
		if c.VideoID != videoID {
			continue
		}
		listings = append(listings, models.CommentListing{Comment: c, IsEdited: s.edited[c.ID]})
	}
	return listings, nil
}

type fakeTweetStore struct {
	tweets map[string]models.Tweet
}

func newFakeTweetStore(tweets ...models.Tweet) *fakeTweetStore {
	s := &fakeTweetStore{tweets: make(map[string]models.Tweet)}
	for _, tw := range tweets {
		s.tweets[tw.ID] = tw
	}
	return s
}

func (s *fakeTweetStore) Create(_ context.Context, tweet models.Tweet) error {
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s *fakeTweetStore) FindByID(_ context.Context, id string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *fakeTweetStore) UpdateContent(_ context.Context, id, content string) error {
	tweet, ok := s.tweets[id]
	if !ok {
		return repositories.ErrNotFound
	}
	tweet.Content = content
	s.tweets[id] = tweet
	return nil
}

func (s *fakeTweetStore) Delete(_ context.Context, id string) error {
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

func (s *fakeTweetStore) ListForUser(_ context.Context, userID string) ([]models.TweetListing, error) {
	var listings []models.TweetListing
	for _, tw := range s.tweets {
		if tw.OwnerID != userID {
			continue
		}
		listings = append(listings, models.TweetListing{Tweet: tw})
	}
	return listings, nil
}

func withIdentity(r *http.Request, identity auth.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey{}, identity))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var envelope apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return envelope
}
