package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted when a client field is not given explicitly.
const (
	EnvAPIKey  = "API_KEY"
	EnvBaseURL = "BASE_URL"
	EnvModel   = "MODEL"
)

// Client holds what is needed to reach the chat completion service.
// It is resolved once at startup and never mutated afterwards.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
}

// File represents the optional ag.yaml configuration file
type File struct {
	APIKey            string   `yaml:"api_key"`
	BaseURL           string   `yaml:"base_url"`
	Model             string   `yaml:"model"`
	SystemPrompt      string   `yaml:"system_prompt"`       // Text and interactive modes
	ImageSystemPrompt string   `yaml:"image_system_prompt"` // Image mode
	Welcome           string   `yaml:"welcome"`             // Interactive welcome line
	ScreenshotPath    string   `yaml:"screenshot_path"`
	Temperature       *float32 `yaml:"temperature"`
	MaxTokens         int      `yaml:"max_tokens"`
}

// ConfigurationError reports a required client field that is still empty
// after every source has been consulted.
type ConfigurationError struct {
	Field string // "api_key", "base_url" or "model"
	Env   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing %s: set %s or pass --%s", e.Field, e.Env, strings.ReplaceAll(e.Field, "_", "-"))
}

// Resolve fills each field of explicit independently: a non-empty explicit
// value wins, then the environment, then the config file. Fields are checked
// in the order api_key, base_url, model and the first empty one is reported.
func Resolve(explicit Client, getenv func(string) string, file *File) (Client, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if file == nil {
		file = &File{}
	}

	cfg := Client{
		APIKey:  firstNonEmpty(explicit.APIKey, getenv(EnvAPIKey), file.APIKey),
		BaseURL: firstNonEmpty(explicit.BaseURL, getenv(EnvBaseURL), file.BaseURL),
		Model:   firstNonEmpty(explicit.Model, getenv(EnvModel), file.Model),
	}

	switch {
	case cfg.APIKey == "":
		return Client{}, &ConfigurationError{Field: "api_key", Env: EnvAPIKey}
	case cfg.BaseURL == "":
		return Client{}, &ConfigurationError{Field: "base_url", Env: EnvBaseURL}
	case cfg.Model == "":
		return Client{}, &ConfigurationError{Field: "model", Env: EnvModel}
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Load reads and parses the YAML config file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	f.expand()

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &f, nil
}

// LoadWithDefaults loads the config file from the first location that exists.
// Checks: ./ag.yaml, ~/.config/ag/ag.yaml
func LoadWithDefaults() (*File, error) {
	locations := []string{"./ag.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "ag", "ag.yaml"))
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	// No config found - not an error
	return &File{}, nil
}

// Validate checks the optional request settings
func (f *File) Validate() error {
	if f.Temperature != nil && (*f.Temperature < 0 || *f.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", *f.Temperature)
	}
	if f.MaxTokens < 0 {
		return errors.New("max_tokens cannot be negative")
	}
	return nil
}

func (f *File) expand() {
	for _, s := range []*string{
		&f.APIKey, &f.BaseURL, &f.Model,
		&f.SystemPrompt, &f.ImageSystemPrompt, &f.Welcome, &f.ScreenshotPath,
	} {
		*s = ExpandEnv(*s)
	}
}
