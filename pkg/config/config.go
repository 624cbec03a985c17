package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
)

const DefaultConfigFileName = "docpilot.yml"

var ErrInvalidConfig = errors.New("invalid configuration")

var SupportedProviders = []string{"template", "ollama", "openai"}

type Config struct {
	Paths      PathsConfig           `yaml:"paths"`
	Limits     LimitsConfig          `yaml:"limits"`
	Heuristics []types.HeuristicRule `yaml:"heuristics" validate:"dive"`
	LLM        LLMConfig             `yaml:"llm"`
}

type PathsConfig struct {
	Allowlist  []string `yaml:"allowlist"`
	Ignorelist []string `yaml:"ignorelist"`
}

// LimitsConfig bounds the size of a diff the pipeline will process.
type LimitsConfig struct {
	MaxFiles            int `yaml:"maxFiles" validate:"gt=0"`
	MaxLines            int `yaml:"maxLines" validate:"gt=0"`
	MaxTokensPerRequest int `yaml:"maxTokensPerRequest" validate:"gt=0"`
}

type LLMConfig struct {
	Provider      string `yaml:"provider" validate:"omitempty,oneof=template ollama openai"`
	Model         string `yaml:"model"`
	BaseURL       string `yaml:"baseUrl" validate:"omitempty,url"`
	APIKey        string `yaml:"apiKey"`
	PromptVariant string `yaml:"promptVariant"`
}

func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Allowlist:  []string{"docs/**", "*.md", "README*"},
			Ignorelist: []string{".git/**", "node_modules/**", "bin/**", "obj/**"},
		},
		Limits: LimitsConfig{
			MaxFiles:            50,
			MaxLines:            5000,
			MaxTokensPerRequest: 8000,
		},
		Heuristics: DefaultHeuristics(),
		LLM: LLMConfig{
			Provider: "template",
		},
	}
}

func DefaultHeuristics() []types.HeuristicRule {
	return []types.HeuristicRule{
		{Pattern: "src/**/*.cs", DocTarget: "README.md", Section: "## API Reference", ConfidenceBoost: 0.1},
		{Pattern: "src/**/Controllers/**", DocTarget: "docs/api.md", Section: "## Endpoints", ConfidenceBoost: 0.2},
		{Pattern: "src/**/*Controller.cs", DocTarget: "docs/api.md", Section: "## Endpoints", ConfidenceBoost: 0.2},
		{Pattern: "packages/*/**", DocTarget: "packages/{0}/README.md", ConfidenceBoost: 0.15},
		{Pattern: "terraform/**", DocTarget: "docs/infrastructure.md", Section: "## Infrastructure", ConfidenceBoost: 0.1},
		{Pattern: "bicep/**", DocTarget: "docs/infrastructure.md", Section: "## Infrastructure", ConfidenceBoost: 0.1},
		{Pattern: ".github/workflows/**", DocTarget: "docs/ci-cd.md", Section: "## CI/CD", ConfidenceBoost: 0.1},
	}
}

// Load reads the configuration at path. An empty path searches the working
// directory and its parents for docpilot.yml. A missing or empty file yields
// the defaults.
func Load(path string) (*Config, error) {
	resolved := path
	if strings.TrimSpace(resolved) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		resolved = FindConfigFile(wd)
	}

	if resolved == "" {
		return finalize(Default())
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finalize(Default())
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", resolved, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", resolved, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(string(data)) == "" {
		return finalize(cfg)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	raw.applyTo(cfg)

	return finalize(cfg)
}

// rawConfig distinguishes absent sections from empty ones so that absent
// sections keep their defaults.
type rawConfig struct {
	Paths      *PathsConfig          `yaml:"paths"`
	Limits     *rawLimits            `yaml:"limits"`
	Heuristics []types.HeuristicRule `yaml:"heuristics"`
	LLM        *LLMConfig            `yaml:"llm"`
}

type rawLimits struct {
	MaxFiles            *int `yaml:"maxFiles"`
	MaxLines            *int `yaml:"maxLines"`
	MaxTokensPerRequest *int `yaml:"maxTokensPerRequest"`
}

func (r *rawConfig) applyTo(cfg *Config) {
	if r.Paths != nil {
		if r.Paths.Allowlist != nil {
			cfg.Paths.Allowlist = r.Paths.Allowlist
		}
		if r.Paths.Ignorelist != nil {
			cfg.Paths.Ignorelist = r.Paths.Ignorelist
		}
	}
	if r.Limits != nil {
		if r.Limits.MaxFiles != nil {
			cfg.Limits.MaxFiles = *r.Limits.MaxFiles
		}
		if r.Limits.MaxLines != nil {
			cfg.Limits.MaxLines = *r.Limits.MaxLines
		}
		if r.Limits.MaxTokensPerRequest != nil {
			cfg.Limits.MaxTokensPerRequest = *r.Limits.MaxTokensPerRequest
		}
	}
	if len(r.Heuristics) > 0 {
		cfg.Heuristics = r.Heuristics
	}
	if r.LLM != nil {
		if r.LLM.Provider != "" {
			cfg.LLM.Provider = r.LLM.Provider
		}
		cfg.LLM.Model = r.LLM.Model
		cfg.LLM.BaseURL = r.LLM.BaseURL
		cfg.LLM.APIKey = r.LLM.APIKey
		cfg.LLM.PromptVariant = r.LLM.PromptVariant
	}
}

func finalize(cfg *Config) (*Config, error) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for i, rule := range cfg.Heuristics {
		if err := utils.ValidateGlob(rule.Pattern); err != nil {
			return fmt.Errorf("%w: heuristic %d has bad pattern %q", ErrInvalidConfig, i, rule.Pattern)
		}
		if strings.Count(rule.DocTarget, "{0}") > 1 {
			return fmt.Errorf("%w: heuristic %d target %q has more than one {0} placeholder", ErrInvalidConfig, i, rule.DocTarget)
		}
	}
	return nil
}

// FindConfigFile walks from dir up to the filesystem root looking for
// docpilot.yml and returns "" when none exists.
func FindConfigFile(dir string) string {
	current := dir
	for {
		candidate := filepath.Join(current, DefaultConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
