package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "selam",
		Usage: "Content backend for the SELAM community website",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			nanoidCommand,
			tokenCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
