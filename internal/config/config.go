package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"musicagent/internal/errs"
	"musicagent/internal/llm"
	"musicagent/internal/metadata"
	"musicagent/internal/suggestion"
	"musicagent/internal/tagcodec"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvModel     = "MUSIC_AGENT_MODEL"
	EnvOllamaURL = "OLLAMA_URL"
	EnvCodec     = "MUSIC_AGENT_CODEC"
)

// Mode selects what a run does.
type Mode string

const (
	ModeAnalyze Mode = "analyze"
	ModeSuggest Mode = "suggest"
	ModeApply   Mode = "apply"
)

// Config contains the program configuration
type Config struct {
	Model             string `yaml:"model"`
	OllamaURL         string `yaml:"ollama_url"`
	Codec             string `yaml:"codec"`
	SuggestionsFormat string `yaml:"suggestions_format"`
	MinConfidence     string `yaml:"min_confidence"`
	Verbose           bool   `yaml:"verbose"`
	LogDir            string `yaml:"log_dir"`

	// Command line only.
	Mode            Mode     `yaml:"-"`
	FilePath        string   `yaml:"-"`
	SuggestionsFile string   `yaml:"-"`
	Fields          []string `yaml:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Model:             llm.DefaultModel,
		OllamaURL:         llm.DefaultOllamaURL,
		Codec:             tagcodec.BackendTaglib,
		SuggestionsFormat: string(suggestion.FormatJSON),
		LogDir:            GetDefaultLogPath(),
		Mode:              ModeAnalyze,
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: failed to read config file %s: %w", errs.ErrConfig, path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: failed to parse config file %s: %w", errs.ErrConfig, path, err)
	}

	cfg.LogDir = ExpandHome(cfg.LogDir)

	return cfg, nil
}

// LoadDotEnv loads path (".env" when empty) into the process environment.
// Variables that are already set keep their value. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: failed to load %s: %w", errs.ErrConfig, path, err)
	}
	return nil
}

// ApplyEnv overrides c with the environment variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvOllamaURL); v != "" {
		c.OllamaURL = v
	}
	if v := os.Getenv(EnvCodec); v != "" {
		c.Codec = v
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./music-agent.yaml",
		"./music-agent.yml",
		filepath.Join(home, ".config", "music-agent", "config.yaml"),
		filepath.Join(home, ".config", "music-agent", "config.yml"),
		filepath.Join(home, ".music-agent.yaml"),
		filepath.Join(home, ".music-agent.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "music-agent", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "music-agent", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Format returns the suggestions artifact format. Call Validate first.
func (c *Config) Format() suggestion.Format {
	f, _ := suggestion.ParseFormat(c.SuggestionsFormat)
	return f
}

// Selection returns the subset of edits an apply run uses.
func (c *Config) Selection() suggestion.Selection {
	return suggestion.Selection{
		Fields:        c.Fields,
		MinConfidence: normalizeConfidence(c.MinConfidence),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model cannot be empty", errs.ErrConfig)
	}
	if !strings.HasPrefix(c.OllamaURL, "http://") && !strings.HasPrefix(c.OllamaURL, "https://") {
		return fmt.Errorf("%w: ollama URL must start with http:// or https://, got %q", errs.ErrConfig, c.OllamaURL)
	}

	if _, err := tagcodec.New(c.Codec); err != nil {
		return err
	}
	if _, err := suggestion.ParseFormat(c.SuggestionsFormat); err != nil {
		return err
	}
	if c.MinConfidence != "" && !normalizeConfidence(c.MinConfidence).Valid() {
		return fmt.Errorf("%w: min confidence must be one of High, Medium, Low, got %q", errs.ErrConfig, c.MinConfidence)
	}
	for _, f := range c.Fields {
		if !metadata.IsKnownField(strings.ToLower(strings.TrimSpace(f))) {
			return fmt.Errorf("%w: unknown field %q in --fields", errs.ErrConfig, f)
		}
	}

	switch c.Mode {
	case ModeAnalyze, ModeSuggest:
		if c.FilePath == "" {
			return fmt.Errorf("%w: an audio file is required in %s mode", errs.ErrConfig, c.Mode)
		}
	case ModeApply:
		if c.SuggestionsFile == "" {
			return fmt.Errorf("%w: a suggestions file is required in apply mode", errs.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", errs.ErrConfig, c.Mode)
	}

	return nil
}

// normalizeConfidence maps "high", "HIGH" and so on to the canonical label.
func normalizeConfidence(s string) suggestion.Confidence {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return suggestion.Confidence(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}
