package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultManifest   = "requirements.txt"
	DefaultIndexType  = "pypi"
	DefaultIndexURL   = "https://pypi.org"
	defaultTimeout    = 15 * time.Second
	defaultIndexRetry = 3
)

// Settings is the top-level reqlint configuration.
type Settings struct {
	Files       []string              `yaml:"files"`
	Python      string                `yaml:"python"`
	Platform    string                `yaml:"platform"`
	Environment map[string]string     `yaml:"environment"`
	Rules       map[string]RuleConfig `yaml:"rules"`
	Index       IndexSettings         `yaml:"index"`
}

// RuleConfig overrides a validation rule.
type RuleConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	Severity string `yaml:"severity"`
}

// IndexSettings configures the package index used by "upgrade".
type IndexSettings struct {
	Type    string        `yaml:"type"`    // "pypi"
	URL     string        `yaml:"url"`     // base URL, e.g. https://pypi.org
	Token   string        `yaml:"token"`   // Inline, ${ENV_VAR}, or file path
	Timeout time.Duration `yaml:"timeout"` // e.g. "15s"
	Retries int           `yaml:"retries"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings is used when no configuration file exists.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Index.URL = expandEnv(settings.Index.URL)
	settings.Index.Token = ResolveToken(settings.Index.Token)
	settings.applyDefaults()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}
	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".reqlint.yaml",
		".reqlint.yml",
		"reqlint.yaml",
		"reqlint.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := expandEnv(raw)

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

func (s *Settings) applyDefaults() {
	if len(s.Files) == 0 {
		s.Files = []string{DefaultManifest}
	}
	if s.Index.Type == "" {
		s.Index.Type = DefaultIndexType
	}
	if s.Index.URL == "" {
		s.Index.URL = DefaultIndexURL
	}
	if s.Index.Timeout <= 0 {
		s.Index.Timeout = defaultTimeout
	}
	if s.Index.Retries <= 0 {
		s.Index.Retries = defaultIndexRetry
	}
}

func (s *Settings) validate() error {
	known := DefaultSeverities()
	for name, rule := range s.Rules {
		if _, ok := known[Rule(name)]; !ok {
			return fmt.Errorf("rules.%s: unknown rule", name)
		}
		switch Severity(rule.Severity) {
		case "", SeverityError, SeverityWarning, SeverityInfo, SeverityOff:
		default:
			return fmt.Errorf("rules.%s.severity: %q is not one of error, warning, info, off", name, rule.Severity)
		}
	}
	if _, err := DefaultEnvironment().Merge(s.Environment); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Severity returns the configured severity of rule.
func (s *Settings) Severity(rule Rule) Severity {
	if cfg, ok := s.Rules[string(rule)]; ok {
		if cfg.Enabled != nil && !*cfg.Enabled {
			return SeverityOff
		}
		if cfg.Severity != "" {
			return Severity(cfg.Severity)
		}
	}
	return DefaultSeverities()[rule]
}

// MarkerEnvironment builds the marker environment from the settings plus
// CLI overrides (python version, platform, and raw key=value pairs).
func (s *Settings) MarkerEnvironment(python, platform string, overrides map[string]string) (Environment, error) {
	env := DefaultEnvironment()
	if s.Python != "" {
		env.SetPythonVersion(s.Python)
	}
	if s.Platform != "" {
		env.SetPlatform(s.Platform)
	}
	env, err := env.Merge(s.Environment)
	if err != nil {
		return nil, err
	}
	if python != "" {
		env.SetPythonVersion(python)
	}
	if platform != "" {
		env.SetPlatform(platform)
	}
	return env.Merge(overrides)
}
