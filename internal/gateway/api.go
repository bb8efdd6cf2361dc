// Typed endpoint surface for the MusicRec backend.
//
// Response shapes follow the backend contract; the gateway converts transport
// only and never alters payload semantics.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertmoss/mrx/internal/models"
)

// tokenResponse is the body of successful signup/login calls.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TrackPage is a paginated catalog listing from GET /music/tracks.
type TrackPage struct {
	Tracks []models.Track `json:"tracks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// RecommendationSet is the result of one recommendation endpoint call.
//
// Algorithm names the backend strategy that produced the set (e.g.
// "popularity_based"); BasedOn is populated only by the similar-tracks endpoint.
type RecommendationSet struct {
	Tracks    []models.Track `json:"recommendations"`
	Algorithm string         `json:"algorithm"`
	BasedOn   *models.Track  `json:"based_on,omitempty"`
	Genre     string         `json:"genre,omitempty"`
}

// Signup creates an account and returns the issued bearer token.
func (c *Client) Signup(ctx context.Context, email, username, password string) (string, error) {
	payload := map[string]string{"email": email, "username": username, "password": password}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, payload, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, payload, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Me retrieves the account behind the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Tracks lists the catalog, optionally filtered by genre.
func (c *Client) Tracks(ctx context.Context, genre string, limit, offset int) (*TrackPage, error) {
	query := url.Values{}
	if genre != "" {
		query.Set("genre", genre)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var page TrackPage
	if err := c.do(ctx, http.MethodGet, "/music/tracks", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Track retrieves a single track by id.
func (c *Client) Track(ctx context.Context, trackID string) (*models.Track, error) {
	var resp struct {
		Track models.Track `json:"track"`
	}
	path := "/music/tracks/" + url.PathEscape(trackID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Track, nil
}

// Genres lists the distinct genres present in the catalog.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var resp struct {
		Genres []string `json:"genres"`
	}
	if err := c.do(ctx, http.MethodGet, "/music/genres", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Search performs a free-text catalog search.
func (c *Client) Search(ctx context.Context, q string) ([]models.Track, error) {
	query := url.Values{}
	query.Set("q", q)

	var tracks []models.Track
	if err := c.do(ctx, http.MethodGet, "/music/search", query, nil, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// LogPlay records a play event for the current user.
func (c *Client) LogPlay(ctx context.Context, event models.PlayEvent) error {
	return c.do(ctx, http.MethodPost, "/music/play", nil, event, nil)
}

// LogLike records a like event for the current user.
func (c *Client) LogLike(ctx context.Context, event models.LikeEvent) error {
	return c.do(ctx, http.MethodPost, "/music/like", nil, event, nil)
}

// LogSkip records a skip event for the current user.
func (c *Client) LogSkip(ctx context.Context, event models.SkipEvent) error {
	return c.do(ctx, http.MethodPost, "/music/skip", nil, event, nil)
}

// History retrieves the current user's recent plays, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		History []models.HistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/music/history", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// Hybrid fetches the hybrid recommendation feed.
func (c *Client) Hybrid(ctx context.Context, limit int) (*RecommendationSet, error) {
	return c.recommendations(ctx, "/recommendations/hybrid", limit)
}

// ForYou fetches the personalized recommendation feed.
func (c *Client) ForYou(ctx context.Context, limit int) (*RecommendationSet, error) {
	return c.recommendations(ctx, "/recommendations/for-you", limit)
}

// Popular fetches the popularity-based feed used for cold starts.
func (c *Client) Popular(ctx context.Context, limit int) (*RecommendationSet, error) {
	return c.recommendations(ctx, "/recommendations/popular", limit)
}

// Similar fetches tracks similar to the given track.
func (c *Client) Similar(ctx context.Context, trackID string, limit int) (*RecommendationSet, error) {
	if trackID == "" {
		return nil, fmt.Errorf("trackID is required for similar recommendations")
	}
	return c.recommendations(ctx, "/recommendations/similar/"+url.PathEscape(trackID), limit)
}

// GenreRecommendations fetches recommendations drawn from a single genre.
func (c *Client) GenreRecommendations(ctx context.Context, genre string, limit int) (*RecommendationSet, error) {
	if genre == "" {
		return nil, fmt.Errorf("genre is required for genre recommendations")
	}
	return c.recommendations(ctx, "/recommendations/genre/"+url.PathEscape(genre), limit)
}

func (c *Client) recommendations(ctx context.Context, path string, limit int) (*RecommendationSet, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var set RecommendationSet
	if err := c.do(ctx, http.MethodGet, path, query, nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// AnalyticsMe retrieves the current user's listening statistics as opaque JSON.
func (c *Client) AnalyticsMe(ctx context.Context) (json.RawMessage, error) {
	return c.analytics(ctx, "/analytics/me")
}

// AnalyticsSystem retrieves system-wide statistics as opaque JSON.
func (c *Client) AnalyticsSystem(ctx context.Context) (json.RawMessage, error) {
	return c.analytics(ctx, "/analytics/system")
}

// AnalyticsAlgorithms retrieves per-algorithm performance as opaque JSON.
func (c *Client) AnalyticsAlgorithms(ctx context.Context) (json.RawMessage, error) {
	return c.analytics(ctx, "/analytics/algorithms")
}

// analytics fetches display-only JSON; no client logic depends on its shape.
func (c *Client) analytics(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Health checks backend availability without authentication requirements.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var status map[string]any
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}
