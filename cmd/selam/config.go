package main

import (
	"context"
	"fmt"

	"selam/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.StorageBackend != "disk" && c.StorageBackend != "s3" {
		return nil, fmt.Errorf("STORAGE_BACKEND must be disk or s3, got %q", c.StorageBackend)
	}

	if c.StorageBackend == "s3" && c.S3Bucket == "" {
		return nil, fmt.Errorf("set S3_BUCKET when STORAGE_BACKEND=s3")
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
