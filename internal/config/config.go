package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the gqlframes API configuration.
type Config struct {
	HTTP          HTTPConfig                  `yaml:"http"`
	Auth          AuthConfig                  `yaml:"auth"`
	QueryDefaults QueryDefaultsConfig         `yaml:"query_defaults"`
	Datasources   map[string]DatasourceConfig `yaml:"datasources"`
	Logging       LoggingConfig               `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// QueryDefaultsConfig holds values merged into every target query whose
// corresponding field is empty.
type QueryDefaultsConfig struct {
	QueryText       string `yaml:"query_text"`
	DataPath        string `yaml:"data_path"`
	GroupBy         string `yaml:"group_by"`
	AliasBy         string `yaml:"alias_by"`
	AnnotationTitle string `yaml:"annotation_title"`
	AnnotationText  string `yaml:"annotation_text"`
	AnnotationTags  string `yaml:"annotation_tags"`
}

// DatasourceConfig holds a single upstream GraphQL endpoint.
type DatasourceConfig struct {
	URL             string            `yaml:"url"`
	BasicAuth       string            `yaml:"basic_auth"` // sent verbatim as Authorization
	WithCredentials bool              `yaml:"with_credentials"`
	TimeoutSec      int               `yaml:"timeout_sec"`
	ValidateQuery   bool              `yaml:"validate_query"`
	Variables       map[string]string `yaml:"variables"` // host-level template variables
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.QueryDefaults.DataPath == "" {
		c.QueryDefaults.DataPath = "data"
	}
	for name, ds := range c.Datasources {
		if ds.TimeoutSec <= 0 {
			ds.TimeoutSec = 30
		}
		c.Datasources[name] = ds
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Datasources) == 0 {
		return fmt.Errorf("at least one datasource is required")
	}
	for name, ds := range c.Datasources {
		if name == "" {
			return fmt.Errorf("datasource name must not be empty")
		}
		if ds.URL == "" {
			return fmt.Errorf("datasources.%s.url is required", name)
		}
		u, err := url.Parse(ds.URL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("datasources.%s.url must be an absolute http(s) URL, got %q", name, ds.URL)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
