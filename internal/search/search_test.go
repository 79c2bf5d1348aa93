package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	raw := rawTrack{
		Name:     "Don&#039;t Stop",
		Duration: json.Number("185"),
	}
	raw.Artists.Primary = []rawArtist{{Name: "Queen"}, {Name: "Bowie"}}
	raw.DownloadURL = []rawDownload{
		{Quality: "96kbps", URL: "low"},
		{Quality: "320kbps", URL: "high"},
	}

	got, ok := normalize(raw)
	require.True(t, ok)
	assert.Equal(t, "Don't Stop", got.Title)
	assert.Equal(t, "Queen, Bowie", got.Artist)
	assert.Equal(t, "03:05", got.Duration)
	assert.Equal(t, "high", got.URL)
}

func TestNormalizeNoStreamURL(t *testing.T) {
	raw := rawTrack{Name: "X"}
	_, ok := normalize(raw)
	assert.False(t, ok)
}

func TestNormalizeStringDuration(t *testing.T) {
	// Some catalog responses carry duration as a quoted number.
	var rt rawTrack
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "X",
		"duration": "61",
		"downloadUrl": [{"quality": "320kbps", "url": "u"}]
	}`), &rt))

	got, ok := normalize(rt)
	require.True(t, ok)
	assert.Equal(t, "01:01", got.Duration)
}

func TestSearchResponseSkipsMalformedEntries(t *testing.T) {
	payload := []byte(`{"data": {"results": [
		{"name": "Good", "duration": 60,
		 "artists": {"primary": [{"name": "A"}]},
		 "downloadUrl": [{"quality": "320kbps", "url": "u"}]},
		"not an object",
		{"name": "NoURL", "duration": 60, "artists": {"primary": [{"name": "B"}]}}
	]}}`)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(payload, &resp))
	require.Len(t, resp.Data.Results, 3)

	var results []Result
	for _, raw := range resp.Data.Results {
		var rt rawTrack
		if err := json.Unmarshal(raw, &rt); err != nil {
			continue
		}
		if tr, ok := normalize(rt); ok {
			results = append(results, Result{Track: tr, Explicit: rt.ExplicitContent})
		}
	}

	require.Len(t, results, 1)
	assert.Equal(t, "Good", results[0].Track.Title)
}
