package main

import (
	"fmt"

	"github.com/raulk/clock"
	"github.com/urfave/cli/v2"

	"github.com/ignatzorin/campus-market/internal/infrastructure/persistence"
	"github.com/ignatzorin/campus-market/internal/scheduler"
	"github.com/ignatzorin/campus-market/internal/service"
	"github.com/ignatzorin/campus-market/internal/usecase/order"
)

var sweepFlags struct {
	notify bool
}

var sweepCmd = &cli.Command{
	Name:   "sweep",
	Usage:  "один проход отмены неоплаченных заказов",
	Action: runSweepCmd,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        "notify",
			Usage:       "сохранять уведомления об отмене",
			Value:       true,
			Destination: &sweepFlags.notify,
		},
	},
}

func runSweepCmd(cctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbConn, err := openDatabase(cctx.Context, cfg, false)
	if err != nil {
		return err
	}
	defer safeClose(dbConn)

	clk := clock.New()
	deps := order.Deps{UoW: persistence.NewStore(dbConn), Clock: clk}
	if sweepFlags.notify {
		// Хаба в отдельном процессе нет, уведомления только сохраняются.
		deps.Notifier = service.NewNotificationService(persistence.NewNotificationRepository(dbConn), nil, clk)
	}

	sweeper := scheduler.NewExpirySweeper(order.NewSweepExpiredUseCase(deps, cfg.SweepBatchSize), clk, cfg.SweepInterval, cfg.PaymentTimeout)
	result, err := sweeper.RunOnce(cctx.Context)

	fmt.Fprintf(cctx.App.Writer, "scanned=%d cancelled=%d skipped=%d failed=%d\n",
		result.Scanned, result.Cancelled, result.Skipped, result.Failed)
	return err
}
