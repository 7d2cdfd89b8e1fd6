package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultLogLevel          = "info"
	defaultRedirectPort      = 8085
	defaultRequestsPerSecond = 2.0
	defaultBurst             = 4
	defaultRequestTimeout    = 20 * time.Second
	defaultStorageBackend    = "bbolt"
	defaultEngineWorkers     = 1
	defaultDesktopID         = "watchlater.desktop"
	DefaultExampleURI        = "https://www.youtube.com/watch?v=dGFSjKuJfrI"
)

const (
	envClientID     = "WATCHLATER_OAUTH_CLIENT_ID"
	envClientSecret = "WATCHLATER_OAUTH_CLIENT_SECRET"
)

type Config struct {
	Logging  LoggingConfig  `toml:"logging" json:"logging"`
	OAuth    OAuthConfig    `toml:"oauth" json:"oauth"`
	YouTube  YouTubeConfig  `toml:"youtube" json:"youtube"`
	Storage  StorageConfig  `toml:"storage" json:"storage"`
	Engine   EngineConfig   `toml:"engine" json:"engine"`
	Launcher LauncherConfig `toml:"launcher" json:"launcher"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type OAuthConfig struct {
	ClientID     string `toml:"client_id" json:"client_id"`
	ClientSecret string `toml:"client_secret" json:"client_secret"`
	RedirectPort int    `toml:"redirect_port" json:"redirect_port"`
}

type YouTubeConfig struct {
	Endpoint          string  `toml:"endpoint" json:"endpoint"`
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `toml:"burst" json:"burst"`
	Timeout           string  `toml:"timeout" json:"timeout"`
}

type StorageConfig struct {
	Backend string `toml:"backend" json:"backend"`
}

type EngineConfig struct {
	Workers int `toml:"workers" json:"workers"`
}

type LauncherConfig struct {
	DesktopID  string `toml:"desktop_id" json:"desktop_id"`
	ExampleURI string `toml:"example_uri" json:"example_uri"`
}

func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: defaultLogLevel},
		OAuth:   OAuthConfig{RedirectPort: defaultRedirectPort},
		YouTube: YouTubeConfig{
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
			Timeout:           defaultRequestTimeout.String(),
		},
		Storage: StorageConfig{Backend: defaultStorageBackend},
		Engine:  EngineConfig{Workers: defaultEngineWorkers},
		Launcher: LauncherConfig{
			DesktopID:  defaultDesktopID,
			ExampleURI: DefaultExampleURI,
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return defaultLogLevel
	}
	return level
}

// OAuthClientID prefers the environment over the file so credentials can
// stay out of config.toml.
func (c Config) OAuthClientID() string {
	if v := strings.TrimSpace(os.Getenv(envClientID)); v != "" {
		return v
	}
	return strings.TrimSpace(c.OAuth.ClientID)
}

func (c Config) OAuthClientSecret() string {
	if v := strings.TrimSpace(os.Getenv(envClientSecret)); v != "" {
		return v
	}
	return strings.TrimSpace(c.OAuth.ClientSecret)
}

func (c Config) OAuthConfigured() bool {
	return c.OAuthClientID() != ""
}

func (c Config) RedirectPort() int {
	port := c.OAuth.RedirectPort
	if port <= 0 || port > 65535 {
		return defaultRedirectPort
	}
	return port
}

func (c Config) YouTubeEndpoint() string {
	return strings.TrimSpace(c.YouTube.Endpoint)
}

func (c Config) RequestsPerSecond() float64 {
	if c.YouTube.RequestsPerSecond <= 0 {
		return defaultRequestsPerSecond
	}
	return c.YouTube.RequestsPerSecond
}

func (c Config) Burst() int {
	if c.YouTube.Burst <= 0 {
		return defaultBurst
	}
	return c.YouTube.Burst
}

func (c Config) RequestTimeout() time.Duration {
	raw := strings.TrimSpace(c.YouTube.Timeout)
	if raw == "" {
		return defaultRequestTimeout
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		return defaultRequestTimeout
	}
	return timeout
}

func (c Config) StorageBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if backend == "" {
		return defaultStorageBackend
	}
	return backend
}

func (c Config) EngineWorkers() int {
	if c.Engine.Workers <= 0 {
		return defaultEngineWorkers
	}
	return c.Engine.Workers
}

func (c Config) DesktopID() string {
	id := strings.TrimSpace(c.Launcher.DesktopID)
	if id == "" {
		return defaultDesktopID
	}
	return id
}

func (c Config) ExampleURI() string {
	uri := strings.TrimSpace(c.Launcher.ExampleURI)
	if uri == "" {
		return DefaultExampleURI
	}
	return uri
}

// Effective returns c with every accessor default filled in.
func (c Config) Effective() Config {
	out := c
	out.Logging.Level = c.LogLevel()
	out.OAuth.ClientID = c.OAuthClientID()
	out.OAuth.ClientSecret = c.OAuthClientSecret()
	out.OAuth.RedirectPort = c.RedirectPort()
	out.YouTube.Endpoint = c.YouTubeEndpoint()
	out.YouTube.RequestsPerSecond = c.RequestsPerSecond()
	out.YouTube.Burst = c.Burst()
	out.YouTube.Timeout = c.RequestTimeout().String()
	out.Storage.Backend = c.StorageBackend()
	out.Engine.Workers = c.EngineWorkers()
	out.Launcher.DesktopID = c.DesktopID()
	out.Launcher.ExampleURI = c.ExampleURI()
	return out
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
