package cfg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appName           = "carlot"
	configFileName    = "config.yaml"
	envFileName       = ".env"
	defaultBackendURL = "http://localhost:8000"
	defaultStorage    = "storage.db"
)

type kConfigProviderContextKey struct{}

func FromContext(ctx context.Context) *ConfigProvider {
	v := ctx.Value(kConfigProviderContextKey{})
	if v == nil {
		return nil
	}
	cfg, ok := v.(*ConfigProvider)
	if !ok {
		panic(fmt.Errorf("unexpected type for ConfigProvider context value: %v", v))
	}
	return cfg
}

func WithConfigProvider(ctx context.Context, cfg *ConfigProvider) context.Context {
	return context.WithValue(ctx, kConfigProviderContextKey{}, cfg)
}

// Config is the resolved client configuration.
type Config struct {
	BackendURL  string `yaml:"backend_url"`
	StoragePath string `yaml:"storage_path"`
	LogLevel    string `yaml:"log_level"`
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// ConfigProvider resolves configuration from the environment and the
// config directory. The zero value reads the process environment.
type ConfigProvider struct {
	lookup func(string) string
}

// NewWithEnv returns a provider reading variables from env instead of the
// process environment.
func NewWithEnv(env map[string]string) *ConfigProvider {
	return &ConfigProvider{lookup: func(name string) string {
		return env[name]
	}}
}

func (c *ConfigProvider) Getenv(name string) string {
	if c.lookup != nil {
		return c.lookup(name)
	}
	return os.Getenv(name)
}

func (c *ConfigProvider) ReadFile(name string) ([]byte, error) {
	p, err := c.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Path returns the absolute location of a file inside the config directory.
func (c *ConfigProvider) Path(name string) (string, error) {
	return c.resolve(name)
}

func (c *ConfigProvider) resolve(name string) (string, error) {
	basePath, err := c.Dir()
	if err != nil {
		return "", err
	}
	name = path.Clean(name)
	if path.IsAbs(name) {
		return "", fmt.Errorf("expected relative path but was absolute: %s", name)
	}
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid ConfigProvider path: %s", name)
	}
	return filepath.Join(basePath, name), nil
}

// Dir is the directory holding carlot's configuration and local storage.
func (c *ConfigProvider) Dir() (string, error) {
	dir, err := c.determineConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

func (c *ConfigProvider) determineConfigPath() (string, error) {
	dir := c.Getenv("XDG_CONFIG_HOME")
	if dir != "" {
		return dir, nil
	}

	home := c.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("cannot determine $HOME directory, env variable not set")
	}

	// default XDG_CONFIG_HOME
	return filepath.Join(home, ".config"), nil
}

// Load resolves the configuration. Later sources win: defaults, config.yaml,
// the .env file in the config directory, then the process environment.
func (c *ConfigProvider) Load() (*Config, error) {
	conf := &Config{
		BackendURL: defaultBackendURL,
	}

	raw, err := c.ReadFile(configFileName)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read %s: %w", configFileName, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, conf); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", configFileName, err)
		}
	}

	envFile, err := c.Path(envFileName)
	if err != nil {
		return nil, err
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read %s: %w", envFile, err)
	}

	lookup := func(name string) string {
		if v := c.Getenv(name); v != "" {
			return v
		}
		return dotenv[name]
	}
	if v := lookup("BACKEND_URL"); v != "" {
		conf.BackendURL = v
	}
	if v := lookup("CARLOT_STORAGE"); v != "" {
		conf.StoragePath = v
	}
	if v := lookup("CARLOT_LOG_LEVEL"); v != "" {
		conf.LogLevel = v
	}

	conf.BackendURL = strings.TrimRight(conf.BackendURL, "/")
	if conf.StoragePath == "" {
		conf.StoragePath, err = c.Path(defaultStorage)
		if err != nil {
			return nil, err
		}
	}
	return conf, nil
}
