package main

import (
	"fmt"
	"time"

	"selam/internal/server"

	"github.com/urfave/cli/v2"
)

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "Mint an admin bearer token for use with curl",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:    "ttl",
			Aliases: []string{"t"},
			Usage:   "Token lifetime",
			Value:   24 * time.Hour,
		},
	},
	Action: func(c *cli.Context) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		if config.AuthTokenSecret == "" {
			return fmt.Errorf("set AUTH_TOKEN_SECRET")
		}

		expiresAt := time.Now().Add(c.Duration("ttl"))

		token, err := server.IssueToken(config.AuthTokenSecret, config.AdminEmail, expiresAt)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}
