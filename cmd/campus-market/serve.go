package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/raulk/clock"
	"github.com/urfave/cli/v2"

	"github.com/ignatzorin/campus-market/internal/goroutine"
	httpHandlers "github.com/ignatzorin/campus-market/internal/http/handlers"
	httpRouter "github.com/ignatzorin/campus-market/internal/http/router"
	"github.com/ignatzorin/campus-market/internal/infrastructure/identity"
	"github.com/ignatzorin/campus-market/internal/infrastructure/persistence"
	"github.com/ignatzorin/campus-market/internal/interface/http/handler"
	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/scheduler"
	"github.com/ignatzorin/campus-market/internal/service"
	"github.com/ignatzorin/campus-market/internal/usecase/bargain"
	"github.com/ignatzorin/campus-market/internal/usecase/order"
	"github.com/ignatzorin/campus-market/internal/ws"
)

var serveFlags struct {
	skipMigrations bool
	noSweeper      bool
}

var serveCmd = &cli.Command{
	Name:   "serve",
	Usage:  "запустить HTTP API, websocket и фоновую очистку просроченных заказов",
	Action: runServeCmd,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        "skip-migrations",
			Usage:       "не применять миграции при старте",
			Destination: &serveFlags.skipMigrations,
		},
		&cli.BoolFlag{
			Name:        "no-sweeper",
			Usage:       "не запускать очистку в этом процессе",
			Destination: &serveFlags.noSweeper,
		},
	},
}

func runServeCmd(_ *cli.Context) error {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbConn, err := openDatabase(ctx, cfg, !serveFlags.skipMigrations)
	if err != nil {
		return err
	}
	defer safeClose(dbConn)

	clk := clock.New()
	store := persistence.NewStore(dbConn)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	notificationService := service.NewNotificationService(persistence.NewNotificationRepository(dbConn), hub, clk)

	users, err := identity.NewCachedDirectory(persistence.NewUserDirectory(dbConn), cfg.UserCacheSize, identity.DefaultTTL, clk)
	if err != nil {
		return err
	}

	deps := order.Deps{UoW: store, Notifier: notificationService, Clock: clk}

	if !serveFlags.noSweeper {
		sweep := order.NewSweepExpiredUseCase(deps, cfg.SweepBatchSize)
		scheduler.NewExpirySweeper(sweep, clk, cfg.SweepInterval, cfg.PaymentTimeout).Start(ctx)
	}

	handlers := httpRouter.Handlers{
		Health: httpHandlers.NewHealthHandler(dbConn, hub),
		WS:     httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Order:  handler.NewOrderHandler(handler.NewOrderUseCases(deps), users),
		Bargain: handler.NewBargainHandler(handler.BargainUseCases{
			Propose:     bargain.NewProposeBargainUseCase(store.Listings(), store.Bargains(), notificationService, clk),
			Accept:      bargain.NewAcceptBargainUseCase(store.Bargains(), notificationService, clk),
			Reject:      bargain.NewRejectBargainUseCase(store.Bargains(), notificationService, clk),
			Cancel:      bargain.NewCancelBargainUseCase(store.Bargains(), notificationService, clk),
			Get:         bargain.NewGetBargainUseCase(store.Bargains()),
			ListListing: bargain.NewListListingBargainsUseCase(store.Listings(), store.Bargains()),
			ListMine:    bargain.NewListMyBargainsUseCase(store.Bargains()),
		}),
		Notification: handler.NewNotificationHandler(notificationService),
	}

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: httpRouter.SetupRouter(cfg, handlers, tokenManager),
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	})

	logger.Log.Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
