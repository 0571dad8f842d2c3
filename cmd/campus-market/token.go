package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/service"
)

var tokenFlags struct {
	user string
	role string
}

var tokenCmd = &cli.Command{
	Name:   "token",
	Usage:  "выпустить access токен для разработки",
	Action: runTokenCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Usage:       "id пользователя, по умолчанию случайный",
			Destination: &tokenFlags.user,
		},
		&cli.StringFlag{
			Name:        "role",
			Usage:       "роль: user или moderator",
			Value:       entity.RoleUser,
			Destination: &tokenFlags.role,
		},
	},
}

func runTokenCmd(cctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		return errors.New("token: выпуск токенов недоступен в production")
	}
	if tokenFlags.role != entity.RoleUser && tokenFlags.role != entity.RoleModerator {
		return fmt.Errorf("token: неизвестная роль %q", tokenFlags.role)
	}

	userID := uuid.New()
	if tokenFlags.user != "" {
		if userID, err = uuid.Parse(tokenFlags.user); err != nil {
			return fmt.Errorf("token: некорректный id пользователя: %w", err)
		}
	}

	token, exp, err := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL).Issue(userID, tokenFlags.role)
	if err != nil {
		return err
	}

	fmt.Fprintf(cctx.App.Writer, "user:    %s\nrole:    %s\nexpires: %s\ntoken:   %s\n", userID, tokenFlags.role, exp.Format("2006-01-02 15:04:05 MST"), token)
	return nil
}
