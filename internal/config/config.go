package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LLMConfig holds settings for the enhancement gateway.
type LLMConfig struct {
	// Model is the chat model used for letter enhancement.
	Model string `json:"model,omitempty"`

	// BaseURL overrides the OpenAI-compatible endpoint (optional).
	BaseURL string `json:"base_url,omitempty"`

	// APIKey authenticates against the enhancement service.
	// Falls back to the OPENAI_API_KEY environment variable when empty.
	APIKey string `json:"api_key,omitempty"`
}

// Config holds application configuration.
type Config struct {
	// LetterMaxChars is the maximum character count for letter content
	LetterMaxChars int `json:"letter_max_chars"`

	// EnhanceCacheTTLSeconds is how long a cached enhancement result stays
	// valid. Entries older than this are treated as absent on lookup.
	EnhanceCacheTTLSeconds int `json:"enhance_cache_ttl_seconds"`

	// LLM configures the enhancement gateway.
	LLM LLMConfig `json:"llm,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside <datadir>/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// When true, any directory is allowed (but symlink and extension checks still apply).
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LetterMaxChars:         20000,
		EnhanceCacheTTLSeconds: 3600,
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// CacheTTL returns the enhancement cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.EnhanceCacheTTLSeconds) * time.Second
}

// ResolveAPIKey returns the configured API key, falling back to OPENAI_API_KEY.
func (c *Config) ResolveAPIKey() string {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.futureletter.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.LetterMaxChars = overlay.LetterMaxChars
	if result.LetterMaxChars == 0 {
		result.LetterMaxChars = base.LetterMaxChars
	}

	result.EnhanceCacheTTLSeconds = overlay.EnhanceCacheTTLSeconds
	if result.EnhanceCacheTTLSeconds == 0 {
		result.EnhanceCacheTTLSeconds = base.EnhanceCacheTTLSeconds
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.LLM.Model = overlay.LLM.Model
	if result.LLM.Model == "" {
		result.LLM.Model = base.LLM.Model
	}
	result.LLM.BaseURL = overlay.LLM.BaseURL
	if result.LLM.BaseURL == "" {
		result.LLM.BaseURL = base.LLM.BaseURL
	}
	result.LLM.APIKey = overlay.LLM.APIKey
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = base.LLM.APIKey
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
