package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vbind.yaml"

	// DefaultAddr is the default live server address.
	DefaultAddr = ":8080"

	// DefaultMaxUpdateDepth mirrors the reactive engine's default.
	DefaultMaxUpdateDepth = 100
)

// Config represents vbind.yaml.
type Config struct {
	// Template is the HTML template path or s3:// URL.
	Template string `yaml:"template,omitempty"`

	// Data is the JSON, YAML or TOML data path or s3:// URL.
	Data string `yaml:"data,omitempty"`

	// El selects the root element; empty means the body.
	El string `yaml:"el,omitempty"`

	// Title replaces the page title in the live server.
	Title string `yaml:"title,omitempty"`

	// Addr is the live server listen address.
	Addr string `yaml:"addr,omitempty"`

	// Pretty enables indented output for render.
	Pretty bool `yaml:"pretty,omitempty"`

	// MaxUpdateDepth bounds nested notification passes.
	MaxUpdateDepth int `yaml:"max_update_depth,omitempty"`

	// S3 configures access to s3:// sources.
	S3 S3Config `yaml:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// S3Config configures the S3 client used for s3:// sources.
type S3Config struct {
	// Region is the AWS region. Falls back to AWS_REGION.
	Region string `yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `yaml:"endpoint,omitempty"`

	// UsePathStyle addresses buckets as path segments.
	UsePathStyle bool `yaml:"use_path_style,omitempty"`
}

// New returns a Config with defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads vbind.yaml from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Pass --template and --data flags or create " + ConfigFileName)
		}
		return nil, errors.New(errors.CodeSourceLoad).Wrap(err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to where it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = ConfigFileName
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.CodeSourceLoad).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxUpdateDepth == 0 {
		c.MaxUpdateDepth = DefaultMaxUpdateDepth
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxUpdateDepth < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("max_update_depth must not be negative")
	}
	for _, p := range []string{c.Template, c.Data} {
		if strings.HasPrefix(p, "s3://") && len(strings.SplitN(strings.TrimPrefix(p, "s3://"), "/", 2)) != 2 {
			return errors.New(errors.CodeConfigInvalid).
				WithDetailf("%q is not an s3://bucket/key URL", p)
		}
	}
	return nil
}

// Resolve returns p relative to the config directory. Absolute paths,
// s3:// URLs and the empty string are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "s3://") {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// TemplatePath returns the resolved template location.
func (c *Config) TemplatePath() string {
	return c.Resolve(c.Template)
}

// DataPath returns the resolved data location.
func (c *Config) DataPath() string {
	return c.Resolve(c.Data)
}

// Exists reports whether dir contains a vbind.yaml.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the first directory holding
// a vbind.yaml.
func FindProjectRoot(startDir string) (string, error) {
	dir := startDir
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir finds and loads the nearest vbind.yaml.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
