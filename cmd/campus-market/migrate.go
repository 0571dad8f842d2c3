package main

import (
	"github.com/urfave/cli/v2"

	"github.com/ignatzorin/campus-market/internal/logger"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "применить SQL миграции для выбранного DB_DRIVER",
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dbConn, err := openDatabase(cctx.Context, cfg, true)
		if err != nil {
			return err
		}
		defer safeClose(dbConn)

		logger.Log.Infof("migrate: миграции из %s применены", cfg.MigrationsDir())
		return nil
	},
}
