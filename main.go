package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"promcheck/collector"
	"promcheck/config"
	"promcheck/healthcheck"
	"promcheck/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run prints nothing on success and exactly one line to stderr on
// failure.
func run(args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Print(config.Usage())
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error setting up logger:", err)
		return 1
	}
	defer logger.Flush(log.Logger)

	ctx := logger.WithContext(context.Background(), log.Logger)
	coll := collector.NewHTTPCollector(cfg.URL, cfg.Timeout, log.Logger)

	if err := healthcheck.Run(ctx, cfg, coll, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
