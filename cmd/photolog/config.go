package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/uploads/pkg/config"
	"github.com/dmitrymomot/uploads/pkg/httpserver"
	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/validator"
)

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Service   string `env:"APP_NAME" envDefault:"photolog"`
	PublicURL string `env:"PUBLIC_URL"`

	// MaxUploadBytes caps the whole form submission, photo included.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// ExclusiveCreate guards against two requests saving under the same name.
	ExclusiveCreate bool `env:"UPLOADS_EXCLUSIVE_CREATE" envDefault:"true"`

	HTTP httpserver.Config
	S3   s3Config
}

// s3Config enables "s3://bucket/prefix" upload destinations when Region is set.
type s3Config struct {
	Region         string `env:"S3_REGION"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE"`
}

// loadConfig reads the process environment and the dotenv files. The same
// settings feed both the application config and the upload registry.
func loadConfig(envFiles []string) (appConfig, config.Settings, error) {
	settings, err := config.Environ(envFiles...)
	if err != nil {
		return appConfig{}, nil, err
	}

	var cfg appConfig
	if err := settings.Parse(&cfg, ""); err != nil {
		return appConfig{}, nil, err
	}

	if err := validator.Apply(
		validator.InList("APP_ENV", cfg.Env, []string{logger.EnvDevelopment, logger.EnvStaging, logger.EnvProduction}),
		validator.When(cfg.PublicURL != "", validator.ValidURLWithScheme("PUBLIC_URL", cfg.PublicURL, []string{"http", "https"})),
	); err != nil {
		return appConfig{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, settings, nil
}

// defaultPhotosDest is used when UPLOADED_PHOTOS_DEST is not configured.
func defaultPhotosDest(config.Settings) string {
	return filepath.Join(os.TempDir(), "photolog")
}
