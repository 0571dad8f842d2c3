package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ignatzorin/campus-market/internal/logger"
)

func main() {
	app := &cli.App{
		Name:  "campus-market",
		Usage: "сделки между студентами: торг, заказы, возвраты и споры",
		Commands: []*cli.Command{
			serveCmd,
			sweepCmd,
			migrateCmd,
			tokenCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatalf("campus-market: %v", err)
	}
}
