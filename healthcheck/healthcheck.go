// Package healthcheck wires one run together: it fixes the clock, pulls
// the exporter body and hands both to the match engine.
package healthcheck

import (
	"context"
	"time"

	"go.uber.org/zap"

	"promcheck/checks"
	"promcheck/collector"
	"promcheck/config"
	"promcheck/logger"
	"promcheck/matcher"
)

// Run executes the checks configured in cfg against the body returned by
// c. now is the single clock reading used for every Fresh check. A
// collector error is returned unchanged and nothing is parsed.
func Run(ctx context.Context, cfg *config.Config, c collector.Collector, now time.Time) error {
	log := logger.FromContext(ctx, nil)
	cc := checks.NewContext(now, cfg.FreshFor)
	list := cfg.Checks()

	body, err := c.Collect(ctx)
	if err != nil {
		return err
	}

	log.Debug("running checks",
		zap.Int("checks", len(list)),
		zap.Float64("now", cc.Now),
		zap.Float64("stale_threshold", cc.StaleThreshold))
	return matcher.New(log).Match(cc, list, body)
}
