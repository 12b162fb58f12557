package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string `validate:"required"`
	}
	Log struct {
		Level string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	}
	Database struct {
		Path string `validate:"required"`
	}
	Pagination struct {
		PageSize int `validate:"min=1"`
	}
	Storage struct {
		Driver        string `validate:"oneof=local s3"`
		LocalDir      string `validate:"required_if=Driver local"`
		BaseURL       string
		Bucket        string `validate:"required_if=Driver s3"`
		KeyPrefix     string `validate:"required"`
		Region        string
		Endpoint      string
		URLTTLMinutes int `validate:"min=1"`
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("ADBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.path", "data/adboard.db")
	v.SetDefault("pagination.pagesize", 10)
	v.SetDefault("storage.driver", StorageDriverLocal)
	v.SetDefault("storage.localdir", "data/media")
	v.SetDefault("storage.baseurl", "/media")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "ads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.urlttlminutes", 60)
	v.SetDefault("aws.profile", "")
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Storage.KeyPrefix = strings.Trim(cfg.Storage.KeyPrefix, "/")

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv copies .env entries into the environment without overriding
// variables that are already set.
func loadDotEnv() {
	_ = godotenv.Load()
}
