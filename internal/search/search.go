// Package search talks to the remote catalog API: free-text song search,
// stream URL resolution for imported tracks, and the trending chart.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/zingytomato/harmony/internal/track"
)

// ErrNoResults is returned when the catalog has nothing for the query.
var ErrNoResults = errors.New("no results")

const (
	apiBase     = "https://jiosavan-api2.vercel.app/api"
	trendingAPI = "https://charts-spotify-com-service.spotify.com/public/v0/charts"
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; rv:91.0) Gecko/20100101 Firefox/91.0"

	searchLimit   = 20
	trendingLimit = 20
)

// Client is the catalog API client.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type rawArtist struct {
	Name string `json:"name"`
}

type rawDownload struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// rawTrack is the collaborator-defined result shape. Entries are decoded
// individually so one malformed entry never fails the whole search.
type rawTrack struct {
	Name            string      `json:"name"`
	Duration        json.Number `json:"duration"`
	ExplicitContent bool        `json:"explicitContent"`
	Artists         struct {
		Primary []rawArtist `json:"primary"`
	} `json:"artists"`
	DownloadURL []rawDownload `json:"downloadUrl"`
}

type searchResponse struct {
	Data struct {
		Results []json.RawMessage `json:"results"`
	} `json:"data"`
}

// Result is a normalized search hit.
type Result struct {
	Track    track.Track
	Explicit bool
}

// Search queries the catalog and returns normalized results in API order.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("limit", strconv.Itoa(searchLimit))

	var resp searchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/search/songs?%s", apiBase, params.Encode()), &resp); err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}

	results := lo.FilterMap(resp.Data.Results, func(raw json.RawMessage, _ int) (Result, bool) {
		var rt rawTrack
		if err := json.Unmarshal(raw, &rt); err != nil {
			log.WithError(err).Debug("skipping malformed search entry")
			return Result{}, false
		}
		t, ok := normalize(rt)
		if !ok {
			return Result{}, false
		}
		return Result{Track: t, Explicit: rt.ExplicitContent}, true
	})

	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

// ResolveURL finds the stream URL for a track known only by title and
// artist, used when importing from sources without direct stream URLs.
func (c *Client) ResolveURL(ctx context.Context, title, artist string) (string, error) {
	params := url.Values{}
	params.Set("query", title+" "+artist)
	params.Set("page", "1")
	params.Set("limit", "1")

	var resp searchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/search/songs?%s", apiBase, params.Encode()), &resp); err != nil {
		return "", fmt.Errorf("resolve url: %w", err)
	}

	for _, raw := range resp.Data.Results {
		var rt rawTrack
		if err := json.Unmarshal(raw, &rt); err != nil {
			continue
		}
		if u, ok := streamURL(rt); ok {
			return u, nil
		}
	}
	return "", ErrNoResults
}

// TrendingEntry is a chart row; it has no stream URL until resolved.
type TrendingEntry struct {
	Title  string
	Artist string
}

type trendingMetadata struct {
	TrackName string      `json:"trackName"`
	Artists   []rawArtist `json:"artists"`
}

type trendingResponse struct {
	ChartEntryViewResponses []struct {
		Entries []struct {
			TrackMetadata trendingMetadata `json:"trackMetadata"`
		} `json:"entries"`
	} `json:"chartEntryViewResponses"`
}

// Trending returns the global top chart entries.
func (c *Client) Trending(ctx context.Context) ([]TrendingEntry, error) {
	var resp trendingResponse
	if err := c.getJSON(ctx, trendingAPI, &resp); err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	if len(resp.ChartEntryViewResponses) == 0 {
		return nil, ErrNoResults
	}

	entries := resp.ChartEntryViewResponses[0].Entries
	if len(entries) > trendingLimit {
		entries = entries[:trendingLimit]
	}

	var out []TrendingEntry
	for _, e := range entries {
		md := e.TrackMetadata
		if md.TrackName == "" || len(md.Artists) == 0 {
			continue
		}
		out = append(out, TrendingEntry{
			Title:  track.CleanText(md.TrackName),
			Artist: track.CleanText(md.Artists[0].Name),
		})
	}

	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// normalize maps a raw catalog entry to a Track. Idempotent on already
// clean input; returns false when no usable stream URL exists.
func normalize(rt rawTrack) (track.Track, bool) {
	u, ok := streamURL(rt)
	if !ok {
		return track.Track{}, false
	}

	names := lo.Map(rt.Artists.Primary, func(a rawArtist, _ int) string {
		return a.Name
	})

	seconds := 0
	if n, err := rt.Duration.Int64(); err == nil {
		seconds = int(n)
	}

	return track.Track{
		Title:    track.CleanText(rt.Name),
		Artist:   track.JoinArtists(names),
		Duration: track.FormatDuration(seconds),
		URL:      u,
	}, true
}

// streamURL picks the highest-quality download URL (the API orders
// qualities ascending).
func streamURL(rt rawTrack) (string, bool) {
	for i := len(rt.DownloadURL) - 1; i >= 0; i-- {
		if rt.DownloadURL[i].URL != "" {
			return rt.DownloadURL[i].URL, true
		}
	}
	return "", false
}
