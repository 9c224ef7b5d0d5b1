package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Generation  GenerationConfig  `toml:"generation"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains platform credentials.
type CredentialsConfig struct {
	Platform PlatformConfig `toml:"platform"`
}

// PlatformConfig contains the Inkwell platform API settings and OAuth credentials.
type PlatformConfig struct {
	BaseURL      string `toml:"base_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	HeadersPath  string `toml:"headers_path"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
}

// Update stores the tokens from a completed OAuth exchange.
func (p *PlatformConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrInvalidCredentials)
	}
	p.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		p.RefreshToken = token.RefreshToken
	}
	return nil
}

// Token reconstructs an [oauth2.Token] from the stored credentials.
func (p *PlatformConfig) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
}

// ServerConfig contains the local OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port the callback server binds to, defaulting to localhost:3000.
func (s ServerConfig) Addr() string {
	host := s.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := s.Port
	if port == 0 {
		port = 3000
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// DatabaseConfig contains local cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// GenerationConfig contains tuning for generation calls and the status poller.
type GenerationConfig struct {
	// PollIntervalSeconds is the out-of-band task poll cadence. Zero means the default (8s).
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	// RequestTimeoutSeconds bounds non-streaming API calls. Streams are not subject to it.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
	// BatchSize is how many chapters a batch run requests by default.
	BatchSize int `toml:"batch_size"`
}

// PollInterval returns the configured poll interval as a [time.Duration], falling back to 8s.
func (g GenerationConfig) PollInterval() time.Duration {
	if g.PollIntervalSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(g.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the configured request timeout, falling back to 30s.
func (g GenerationConfig) RequestTimeout() time.Duration {
	if g.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(g.RequestTimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes the configuration back to disk as TOML.
func SaveConfig(path string, config *Config) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
