// Command fetch prints the validated bar series of one symbol as JSON.
//
//	fetch -symbol EURGBP=X -period1 2019-09-06 -period2 2019-10-01 -interval 1d
//	fetch -symbol TSLA -period1 1577836800 -period2 1578009600 -fixture-dir testdata
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"stock_history/internal/app/di"
	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/platform/config"
	"stock_history/internal/platform/logger"
)

func main() {
	var (
		symbol      = flag.String("symbol", "", "ticker symbol, e.g. TSLA or EURGBP=X")
		period1     = flag.String("period1", "", "start: YYYY-MM-DD or epoch seconds (required)")
		period2     = flag.String("period2", "", "end: YYYY-MM-DD or epoch seconds (default now)")
		interval    = flag.String("interval", "1d", "bar interval")
		fixtureDir  = flag.String("fixture-dir", "", "replay saved responses from this directory")
		fixtureFile = flag.String("fixture-file", "", "replay this single file from -fixture-dir")
		timeout     = flag.Duration("timeout", 30*time.Second, "overall timeout")
	)
	flag.Parse()

	if err := run(*symbol, *period1, *period2, *interval, *fixtureDir, *fixtureFile, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "fetch:", err)
		os.Exit(1)
	}
}

func run(symbol, period1, period2, interval, fixtureDir, fixtureFile string, timeout time.Duration) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if fixtureDir != "" {
		cfg.Fixture.Dir = fixtureDir
		cfg.Fixture.File = fixtureFile
	}
	// logs go to stderr so stdout stays valid JSON
	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	series, err := di.NewHistoricalUsecase(cfg, nil, log).Historical(ctx, symbol, entity.Options{
		Period1:  entity.ParseDateLike(period1),
		Period2:  entity.ParseDateLike(period2),
		Interval: interval,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(series)
}
