package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/env"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config holds the asset storage configuration
type Config struct {
	Driver            string
	Path              string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Prefix          string
	S3EndpointURL     string // Optional for S3-compatible services
}

// LoadConfig loads the storage configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Driver:            env.GetEnv("STORAGE_DRIVER", DriverLocal),
		Path:              env.GetEnv("STORAGE_PATH", "./uploads"),
		S3AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          env.GetEnv("S3_REGION", "us-east-1"),
		S3Bucket:          env.GetEnv("S3_BUCKET_NAME", ""),
		S3Prefix:          env.GetEnv("S3_PREFIX", ""),
		S3EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
	}

	switch cfg.Driver {
	case DriverLocal:
	case DriverS3:
		if cfg.S3AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required for the s3 storage driver")
		}
		if cfg.S3SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required for the s3 storage driver")
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET_NAME is required for the s3 storage driver")
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	return cfg, nil
}

// New creates the Store selected by cfg.Driver.
func New(ctx context.Context, cfg *Config) (Store, error) {
	if cfg.Driver == DriverS3 {
		return NewS3Store(ctx, cfg)
	}
	return NewLocalStore(cfg.Path)
}
