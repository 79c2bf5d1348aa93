package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/zingytomato/harmony/internal/track"
)

const (
	tokenURL = "https://accounts.spotify.com/api/token"
	apiBase  = "https://api.spotify.com/v1"
)

// ErrNotConfigured is returned when no client credentials are set.
var ErrNotConfigured = errors.New("spotify credentials not configured")

// URLResolver turns a (title, artist) pair into a playable stream URL.
// Satisfied by the catalog search client.
type URLResolver interface {
	ResolveURL(ctx context.Context, title, artist string) (string, error)
}

// Client fetches Spotify metadata with the client-credentials flow.
type Client struct {
	httpClient   *http.Client
	resolver     URLResolver
	clientID     string
	clientSecret string

	token       string
	tokenExpiry time.Time
}

// NewClient creates a Spotify metadata client. Empty credentials yield a
// client whose calls fail with ErrNotConfigured.
func NewClient(clientID, clientSecret string, resolver URLResolver) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		resolver:     resolver,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

type rawArtist struct {
	Name string `json:"name"`
}

type rawTrack struct {
	Name       string      `json:"name"`
	Artists    []rawArtist `json:"artists"`
	DurationMS int         `json:"duration_ms"`
}

// ImportTrack resolves one Spotify track URL into a playable Track.
func (c *Client) ImportTrack(ctx context.Context, id string) (track.Track, error) {
	var rt rawTrack
	if err := c.getJSON(ctx, fmt.Sprintf("%s/tracks/%s", apiBase, id), &rt); err != nil {
		return track.Track{}, fmt.Errorf("fetch track: %w", err)
	}

	t, err := c.resolve(ctx, rt)
	if err != nil {
		return track.Track{}, err
	}
	return t, nil
}

// ImportAlbum resolves every track of an album. Tracks whose stream URL
// cannot be resolved are skipped, not fatal.
func (c *Client) ImportAlbum(ctx context.Context, id string) ([]track.Track, error) {
	var resp struct {
		Items []rawTrack `json:"items"`
		Next  string     `json:"next"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/albums/%s/tracks?limit=50", apiBase, id), &resp); err != nil {
		return nil, fmt.Errorf("fetch album: %w", err)
	}
	return c.resolveAll(ctx, resp.Items), nil
}

// ImportPlaylist resolves every track of a playlist, following pagination.
func (c *Client) ImportPlaylist(ctx context.Context, id string) ([]track.Track, error) {
	next := fmt.Sprintf("%s/playlists/%s/tracks?limit=100", apiBase, id)

	var items []rawTrack
	for next != "" {
		var resp struct {
			Items []struct {
				Track rawTrack `json:"track"`
			} `json:"items"`
			Next string `json:"next"`
		}
		if err := c.getJSON(ctx, next, &resp); err != nil {
			return nil, fmt.Errorf("fetch playlist: %w", err)
		}
		for _, item := range resp.Items {
			items = append(items, item.Track)
		}
		next = resp.Next
	}
	return c.resolveAll(ctx, items), nil
}

func (c *Client) resolveAll(ctx context.Context, raws []rawTrack) []track.Track {
	var out []track.Track
	for _, rt := range raws {
		t, err := c.resolve(ctx, rt)
		if err != nil {
			log.WithError(err).WithField("track", rt.Name).Debug("skipping unresolvable track")
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c *Client) resolve(ctx context.Context, rt rawTrack) (track.Track, error) {
	names := make([]string, 0, len(rt.Artists))
	for _, a := range rt.Artists {
		names = append(names, a.Name)
	}

	title := track.CleanText(rt.Name)
	artist := track.JoinArtists(names)

	streamURL, err := c.resolver.ResolveURL(ctx, title, artist)
	if err != nil {
		return track.Track{}, fmt.Errorf("resolve stream url: %w", err)
	}

	return track.Track{
		Title:    title,
		Artist:   artist,
		Duration: track.FormatDuration(rt.DurationMS / 1000),
		URL:      streamURL,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// accessToken returns a cached client-credentials token, refreshing when
// it is within a minute of expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", ErrNotConfigured
	}
	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token status: %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}

	c.token = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return c.token, nil
}
