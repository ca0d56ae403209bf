package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ThomasCrouzet/archmap/internal/model"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

type Config struct {
	Repository string `mapstructure:"repository"` // default owner/repo for analyze

	Endpoint string         `mapstructure:"endpoint"`
	Output   string         `mapstructure:"output"`
	Theme    string         `mapstructure:"theme"`
	Client   ClientConfig   `mapstructure:"client"`
	Frontend FrontendConfig `mapstructure:"frontend"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Render   RenderConfig   `mapstructure:"render"`
	Progress ProgressConfig `mapstructure:"progress"`
}

type ClientConfig struct {
	Timeout time.Duration `mapstructure:"timeout"` // 0 disables the timeout
}

type FrontendConfig struct {
	Addr string `mapstructure:"addr"`
}

type BackendConfig struct {
	Addr         string   `mapstructure:"addr"`
	GitHubAPI    string   `mapstructure:"github_api"`
	GitHubToken  string   `mapstructure:"github_token"`
	OpenAIAPIKey string   `mapstructure:"openai_api_key"`
	OpenAIURL    string   `mapstructure:"openai_url"`
	Model        string   `mapstructure:"model"`
	MaxTokens    int      `mapstructure:"max_tokens"`
	Concurrency  int      `mapstructure:"concurrency"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	Include      []string `mapstructure:"include"` // doublestar patterns for files worth reading
	Subdirs      []string `mapstructure:"subdirs"` // directories scanned one level below the root
}

type RenderConfig struct {
	Categories  []string         `mapstructure:"categories"`
	Connections []ConnectionRule `mapstructure:"connections"`
	Icons       bool             `mapstructure:"icons"`
}

type ConnectionRule struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

type ProgressConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	NavigateDelay time.Duration `mapstructure:"navigate_delay"`
}

// ValidationError reports a config problem with a suggested fix.
type ValidationError struct {
	Field      string // dotted path, e.g. "render.connections[0].from"
	Message    string
	Suggestion string
}

// DefaultInclude selects manifests, docs and config files by extension or name.
var DefaultInclude = []string{
	"*.md", "*.yml", "*.yaml", "*.py", "*.json", "*.txt", "*.env", "*.j2",
	"*Dockerfile", "go.mod", "pom.xml", "build.gradle", "Gemfile", "Cargo.toml",
	"yarn.lock", "Makefile", "README", "LICENSE", ".gitignore", ".env.example",
}

// Default returns the configuration used when no archmap.yml exists.
func Default() *Config {
	cfg := &Config{
		Endpoint: "http://localhost:5000",
		Output:   "architecture.svg",
		Theme:    "default",
	}
	cfg.Frontend.Addr = ":8080"
	cfg.Backend.Addr = ":5000"
	cfg.Backend.GitHubAPI = "https://api.github.com"
	cfg.Backend.Model = "gpt-4o-mini"
	cfg.Backend.MaxTokens = 1000
	cfg.Backend.Concurrency = 4
	cfg.Backend.AllowOrigins = []string{"*"}
	cfg.Backend.Include = append([]string(nil), DefaultInclude...)
	cfg.Backend.Subdirs = []string{"src", "app", "backend", "frontend", "api", "lib", "utils"}
	cfg.Render.Categories = []string{"frontend", "webServer", "api", "database", "cloud", "container"}
	cfg.Render.Connections = []ConnectionRule{
		{From: "frontend", To: "webServer"},
		{From: "webServer", To: "api"},
		{From: "api", To: "database"},
	}
	cfg.Progress.Interval = 200 * time.Millisecond
	cfg.Progress.NavigateDelay = time.Second
	return cfg
}

// listKeys are the defaulted lists a config file replaces as a whole.
var listKeys = []string{
	"render.categories",
	"render.connections",
	"backend.include",
	"backend.subdirs",
	"backend.allow_origins",
}

func Load() (*Config, error) {
	cfg := Default()

	// Unmarshal decodes into existing slices element by element, so a shorter
	// list would keep the tail of the default.
	for _, key := range listKeys {
		if viper.IsSet(key) {
			cfg.clearList(key)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.Backend.GitHubToken == "" {
		cfg.Backend.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Backend.OpenAIAPIKey == "" {
		cfg.Backend.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

func (c *Config) clearList(key string) {
	switch key {
	case "render.categories":
		c.Render.Categories = nil
	case "render.connections":
		c.Render.Connections = nil
	case "backend.include":
		c.Backend.Include = nil
	case "backend.subdirs":
		c.Backend.Subdirs = nil
	case "backend.allow_origins":
		c.Backend.AllowOrigins = nil
	}
}

// Validate checks the values a run depends on.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Repository != "" {
		if _, _, err := SplitRepository(c.Repository); err != nil {
			errs = append(errs, ValidationError{
				Field:      "repository",
				Message:    err.Error(),
				Suggestion: "use the owner/repo form, e.g. octocat/Hello-World",
			})
		}
	}

	if u, err := url.Parse(c.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:      "endpoint",
			Message:    fmt.Sprintf("invalid analysis service URL %q", c.Endpoint),
			Suggestion: "use an absolute http(s) URL, e.g. http://localhost:5000",
		})
	}

	if !knownTheme(c.Theme) {
		errs = append(errs, ValidationError{
			Field:      "theme",
			Message:    fmt.Sprintf("unknown theme %q", c.Theme),
			Suggestion: "choose one of: default, dark, monochrome",
		})
	}

	for i, name := range c.Render.Categories {
		if _, ok := model.ParseCategory(name); !ok {
			errs = append(errs, ValidationError{
				Field:      fmt.Sprintf("render.categories[%d]", i),
				Message:    fmt.Sprintf("unknown category %q", name),
				Suggestion: categoryHint,
			})
		}
	}

	for i, rule := range c.Render.Connections {
		if _, ok := model.ParseCategory(rule.From); !ok {
			errs = append(errs, ValidationError{
				Field:      fmt.Sprintf("render.connections[%d].from", i),
				Message:    fmt.Sprintf("unknown category %q", rule.From),
				Suggestion: categoryHint,
			})
		}
		if _, ok := model.ParseCategory(rule.To); !ok {
			errs = append(errs, ValidationError{
				Field:      fmt.Sprintf("render.connections[%d].to", i),
				Message:    fmt.Sprintf("unknown category %q", rule.To),
				Suggestion: categoryHint,
			})
		}
	}

	for i, pattern := range c.Backend.Include {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, ValidationError{
				Field:      fmt.Sprintf("backend.include[%d]", i),
				Message:    fmt.Sprintf("invalid glob pattern %q", pattern),
				Suggestion: "patterns use doublestar syntax, e.g. \"**/*.yml\"",
			})
		}
	}

	if c.Backend.Concurrency < 1 {
		errs = append(errs, ValidationError{
			Field:      "backend.concurrency",
			Message:    "concurrency must be at least 1",
			Suggestion: "the default is 4",
		})
	}

	return errs
}

// SplitRepository parses "owner/repo", tolerating a github.com URL prefix and a .git suffix.
func SplitRepository(s string) (owner, repo string, err error) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q", s)
	}
	return owner, repo, nil
}

const categoryHint = "valid categories: webServer, database, cloud, container, frontend, api, messaging, storage, auth, other"

// knownTheme mirrors the render package's theme names; config cannot import render.
func knownTheme(name string) bool {
	switch name {
	case "", "default", "dark", "monochrome":
		return true
	}
	return false
}
