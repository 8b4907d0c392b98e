package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is the part of the store client the probe needs.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// StartStoreProbe pings the store every interval and reports reachability
// through report. Transitions are logged; steady state is not.
func StartStoreProbe(
	ctx context.Context,
	client Pinger,
	interval time.Duration,
	report func(up bool),
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		up := true
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := client.Ping(ctx).Err()
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					if up {
						log.Error("store unreachable", zap.Error(err))
					}
					up = false
				} else {
					if !up {
						log.Info("store reachable again")
					}
					up = true
				}
				if report != nil {
					report(up)
				}
			}
		}
	}()
}
