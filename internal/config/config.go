// Package config loads user preferences from a TOML file. The core only
// ever reads these values; nothing writes back after startup.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	SyncedLyrics    bool `koanf:"synced_lyrics"`    // overlay synced lyrics during playback
	PersistentQueue bool `koanf:"persistent_queue"` // save the queue across sessions
	LoopQueue       bool `koanf:"loop_queue"`       // restart the queue after the last track

	Lastfm  LastfmConfig  `koanf:"lastfm"`
	Spotify SpotifyConfig `koanf:"spotify"`
}

// LastfmConfig enables scrobbling when all four fields are set.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
}

// SpotifyConfig enables Spotify URL imports when both fields are set.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

const defaultConfig = `# Harmony configuration

# Overlay synchronized lyrics in mpv.
synced_lyrics = true

# Keep the queue across sessions.
persistent_queue = true

# Restart the queue after the last track finishes.
loop_queue = false

# [lastfm]
# api_key = ""
# api_secret = ""
# username = ""
# password = ""

# [spotify]
# client_id = ""
# client_secret = ""
`

// Load reads the config file, creating one with documented defaults on
// first run.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at an explicit path.
func LoadFrom(path string) (*Config, error) {
	if err := ensureDefaultFile(path); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, err
	}

	cfg := &Config{
		SyncedLyrics:    true,
		PersistentQueue: true,
		LoopQueue:       false,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location under the xdg config directory.
func Path() (string, error) {
	return xdg.ConfigFile(filepath.Join("harmony", "config.toml"))
}

// HasLastfm returns true when scrobbling is fully configured.
func (c *Config) HasLastfm() bool {
	l := c.Lastfm
	return l.APIKey != "" && l.APISecret != "" && l.Username != "" && l.Password != ""
}

// HasSpotify returns true when Spotify imports are configured.
func (c *Config) HasSpotify() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}

func ensureDefaultFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}
