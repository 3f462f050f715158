package main

import (
	"context"
	"fmt"

	"selam/internal/seed"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the content stores with sample data",
	Action: func(c *cli.Context) error {
		config, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		stores, err := buildStores(ctx, config, logger)
		if err != nil {
			return fmt.Errorf("failed to build stores: %w", err)
		}
		defer stores.close()

		logger.Info("Seeding sample content...")
		if err := seed.SeedContent(ctx, stores.updates, stores.documents); err != nil {
			return fmt.Errorf("failed to seed content: %w", err)
		}

		logger.Info("Content seeded successfully")

		return nil
	},
}
