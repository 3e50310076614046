// Package config loads the YAML configuration shared by the server and the justsaying pipeline.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // timezone lookups must not depend on the host zoneinfo

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Sites      SitesConfig      `yaml:"sites"`
	JustSaying JustSayingConfig `yaml:"justsaying"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	CORS           CORSConfig    `yaml:"cors"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig selects the log level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SitesConfig controls which built-in sites are registered.
type SitesConfig struct {
	Disabled []string `yaml:"disabled"`
}

// JustSayingConfig configures the quote-of-the-day pipeline.
type JustSayingConfig struct {
	CSVPath   string          `yaml:"csv_path"`
	OutDir    string          `yaml:"out_dir"`
	Timezone  string          `yaml:"timezone"`
	Render    RenderConfig    `yaml:"render"`
	Assets    AssetsConfig    `yaml:"assets"`
	Instagram InstagramConfig `yaml:"instagram"`
}

// RenderConfig holds card layout and font settings.
type RenderConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Margin      int     `yaml:"margin"`
	TitleSize   float64 `yaml:"title_size"`
	SubSize     float64 `yaml:"sub_size"`
	CreditSize  float64 `yaml:"credit_size"`
	LineSpacing float64 `yaml:"line_spacing"`
	SerifFont   string  `yaml:"serif_font"` // empty uses the bundled Go font
	SansFont    string  `yaml:"sans_font"`
	Footer      string  `yaml:"footer"`
	OutputWidth int     `yaml:"output_width"` // 0 keeps Width
	Background  string  `yaml:"background"`
	Accent      string  `yaml:"accent"`
	Ink         string  `yaml:"ink"`
}

// AssetsConfig selects where rendered images are hosted.
type AssetsConfig struct {
	Type   string       `yaml:"type"` // "github" or "s3"
	GitHub GitHubConfig `yaml:"github"`
	S3     S3Config     `yaml:"s3"`
}

// GitHubConfig points at the repository the rendered images are pushed to.
type GitHubConfig struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
}

// S3Config holds object storage settings. Credentials support ${VAR}.
type S3Config struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl"`
	Prefix        string `yaml:"prefix"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// InstagramConfig holds Graph API settings. PageToken supports ${VAR}.
type InstagramConfig struct {
	UserID     string        `yaml:"user_id"`
	PageToken  string        `yaml:"page_token"`
	BaseURL    string        `yaml:"base_url"`
	APIVersion string        `yaml:"api_version"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  int           `yaml:"rate_limit"` // requests per minute
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path, expands ${VAR} references and applies defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 60 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if len(c.Server.CORS.AllowedOrigins) == 0 {
		c.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	js := &c.JustSaying
	if js.CSVPath == "" {
		js.CSVPath = "content/sayings.csv"
	}
	if js.OutDir == "" {
		js.OutDir = "public/instagram"
	}
	if js.Timezone == "" {
		js.Timezone = "Europe/Amsterdam"
	}

	r := &js.Render
	setInt(&r.Width, 1000)
	setInt(&r.Height, 1500)
	setInt(&r.Margin, 80)
	setFloat(&r.TitleSize, 72)
	setFloat(&r.SubSize, 40)
	setFloat(&r.CreditSize, 28)
	setFloat(&r.LineSpacing, 1.18)
	if r.Footer == "" {
		r.Footer = "Spreekwoorden • @yourhandle"
	}
	setString(&r.Background, "#FFE5D4")
	setString(&r.Accent, "#694F5D")
	setString(&r.Ink, "#222222")

	setString(&js.Assets.Type, "github")
	setString(&js.Assets.GitHub.Branch, "main")

	ig := &js.Instagram
	setString(&ig.BaseURL, "https://graph.facebook.com")
	setString(&ig.APIVersion, "v21.0")
	if ig.Timeout == 0 {
		ig.Timeout = 30 * time.Second
	}
	setInt(&ig.RateLimit, 60)
}

func setInt(p *int, v int) {
	if *p == 0 {
		*p = v
	}
}

func setFloat(p *float64, v float64) {
	if *p == 0 {
		*p = v
	}
}

func setString(p *string, v string) {
	if *p == "" {
		*p = v
	}
}

// Validate checks settings every command depends on.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, "server.request_timeout must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level '%s' is invalid", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format '%s' is invalid: must be 'text' or 'json'", c.Logging.Format))
	}
	if _, err := time.LoadLocation(c.JustSaying.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("justsaying.timezone '%s' is invalid", c.JustSaying.Timezone))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ValidatePublish checks the settings the publish command needs.
func (c *Config) ValidatePublish() error {
	var errs []string
	a := c.JustSaying.Assets
	switch a.Type {
	case "github":
		if a.GitHub.Owner == "" {
			errs = append(errs, "justsaying.assets.github.owner is required")
		}
		if a.GitHub.Repo == "" {
			errs = append(errs, "justsaying.assets.github.repo is required")
		}
	case "s3":
		if a.S3.Endpoint == "" {
			errs = append(errs, "justsaying.assets.s3.endpoint is required")
		}
		if a.S3.Bucket == "" {
			errs = append(errs, "justsaying.assets.s3.bucket is required")
		}
		if a.S3.PublicBaseURL == "" {
			errs = append(errs, "justsaying.assets.s3.public_base_url is required")
		} else if u, err := url.Parse(a.S3.PublicBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, "justsaying.assets.s3.public_base_url must use http or https scheme")
		}
	default:
		errs = append(errs, fmt.Sprintf("justsaying.assets.type '%s' is invalid: must be 'github' or 's3'", a.Type))
	}

	ig := c.JustSaying.Instagram
	if ig.UserID == "" {
		errs = append(errs, "justsaying.instagram.user_id is required")
	}
	if ig.PageToken == "" {
		errs = append(errs, "justsaying.instagram.page_token is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
