package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the closed configuration surface. Unknown keys in the config
// file are rejected at the boundary.
type Config struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Style    string `yaml:"style"`
	AutoSave bool   `yaml:"auto_save"`
	CodeGen  bool   `yaml:"code_gen"`
	Explain  bool   `yaml:"explain"`
	Debug    bool   `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Model:    DefaultModel,
		Style:    string(DefaultStyle),
		AutoSave: true,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "reading config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(ErrInvalidConfiguration, "parsing %s: %v", path, err)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Style == "" {
		cfg.Style = string(DefaultStyle)
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "gemchat", "config.yml")
}

// Validate surfaces bad style or model values before any call is made.
func (c Config) Validate() error {
	if _, ok := ParseStyle(c.Style); !ok {
		return errors.Wrapf(ErrInvalidConfiguration, "unknown response style %q", c.Style)
	}
	if !KnownModel(c.Model) {
		return errors.Wrapf(ErrInvalidConfiguration, "unknown model %q (known: %s)", c.Model, strings.Join(KnownModels(), ", "))
	}
	return nil
}

func (c Config) Flags() ModeFlags {
	return ModeFlags{CodeGen: c.CodeGen, Explain: c.Explain, Debug: c.Debug}
}

// ResolveAPIKey fills the api key from the environment when the config
// file left it empty. A .env file in the working directory is honored.
func (c *Config) ResolveAPIKey() {
	if c.APIKey != "" {
		return
	}
	_ = godotenv.Load()
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.APIKey = key
		return
	}
	c.APIKey = os.Getenv("GOOGLE_API_KEY")
}
