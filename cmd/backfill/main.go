package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxhistory/internal/app"
	"fxhistory/internal/backfill"
	"fxhistory/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("backfill", pflag.ContinueOnError)
	start := flags.String("start", "", "first valuation date, YYYY-MM-DD")
	end := flags.String("end", "", "last valuation date, YYYY-MM-DD")
	configPath := flags.String("config", "config.yaml", "path to the config file")
	timeout := flags.Duration("timeout", 0, "stop issuing new fetches after this long (0 means no limit)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	startDate, endDate, err := backfill.ParseRange(*start, *end)
	if err != nil {
		color.Red("Error: %v", err)
		return 2
	}

	appCfg, err := config.Load(*configPath)
	if err != nil {
		color.Red("Error: %v", err)
		return 1
	}
	app.SetupLogger(appCfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, appCfg)
	if err != nil {
		color.Red("Error: %v", err)
		return 1
	}
	defer components.Close()

	runCtx := ctx
	if *timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	began := time.Now()
	report, err := components.Backfill.Run(runCtx, startDate, endDate)
	if err != nil {
		color.Red("Error: %v", err)
		return 1
	}

	summary := fmt.Sprintf("run %s: %d scheduled, %d stored, %d already present, %d failed, %d not issued in %s",
		report.RunID, report.Scheduled, report.Stored, report.Existing, report.Failed, report.NotIssued,
		time.Since(began).Round(time.Millisecond))
	if report.Failed > 0 || report.NotIssued > 0 {
		color.Yellow("Backfill finished with gaps, %s", summary)
		return 0
	}
	color.Green("Successfully loaded historical data from %s to %s, %s", *start, *end, summary)
	return 0
}
