package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	FileName  = ".asceticq"
	EnvPrefix = "ASCETICQ"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var keys = []string{"dialect", "dsn", "max_rows", "cache_size", "log_level"}

// Config is the resolved CLI configuration. Sources in increasing priority:
// defaults, the config file, .env, .env.local, the environment.
type Config struct {
	Dialect   string
	DSN       string
	MaxRows   int
	CacheSize int
	LogLevel  slog.Level
	File      string
}

// Load resolves the configuration. An empty path searches the working
// directory, the home directory and ~/.config/asceticq for .asceticq.yaml;
// a missing file is not an error then. An explicit path must exist.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("dialect", "postgres")
	v.SetDefault("dsn", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("cache_size", 128)
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "asceticq"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	dotenv, err := loadDotenv(fs, ".env", ".env.local")
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		name := EnvPrefix + "_" + strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if value, ok := dotenv[name]; ok {
			v.Set(key, value)
		}
	}

	cfg := &Config{
		Dialect:   strings.TrimSpace(v.GetString("dialect")),
		DSN:       v.GetString("dsn"),
		MaxRows:   v.GetInt("max_rows"),
		CacheSize: v.GetInt("cache_size"),
		File:      v.ConfigFileUsed(),
	}
	if cfg.DSN == "" {
		if url, ok := os.LookupEnv("DATABASE_URL"); ok {
			cfg.DSN = url
		} else {
			cfg.DSN = dotenv["DATABASE_URL"]
		}
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "log_level: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Dialect == "" {
		return errors.Wrap(ErrInvalidConfig, "dialect is empty")
	}
	if c.MaxRows < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_rows %d", c.MaxRows)
	}
	if c.CacheSize < 0 {
		return errors.Wrapf(ErrInvalidConfig, "cache_size %d", c.CacheSize)
	}
	return nil
}

// loadDotenv merges the given dotenv files, later files winning. Missing
// files are skipped.
func loadDotenv(fs afero.Fs, names ...string) (map[string]string, error) {
	merged := map[string]string{}
	for _, name := range names {
		f, err := fs.Open(name)
		if err != nil {
			continue
		}
		values, err := godotenv.Parse(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	return merged, nil
}
