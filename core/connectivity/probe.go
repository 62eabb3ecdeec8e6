package connectivity

import (
	"context"
	"time"

	"meetsync/core/constants"
	"meetsync/core/logger"

	"github.com/redis/go-redis/v9"
)

// Probe periodically pings the remote side and reports reachability
// transitions. The caller owns its lifecycle.
type Probe struct {
	redis    *redis.Client
	interval time.Duration
	onChange func(ctx context.Context, online bool)
	stop     chan struct{}
}

func NewProbe(redisClient *redis.Client, onChange func(ctx context.Context, online bool)) *Probe {
	return &Probe{
		redis:    redisClient,
		interval: constants.ConnectivityProbeInterval,
		onChange: onChange,
		stop:     make(chan struct{}),
	}
}

// Start probes until Stop is called or ctx is cancelled. Only transitions
// are reported.
func (p *Probe) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	last := p.check(ctx)
	p.onChange(ctx, last)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			online := p.check(ctx)
			if online != last {
				logger.Info("Connectivity changed", "online", online)
				p.onChange(ctx, online)
				last = online
			}
		}
	}
}

func (p *Probe) Stop() {
	close(p.stop)
}

func (p *Probe) check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, constants.ConnectivityProbeTimeout)
	defer cancel()
	return p.redis.Ping(pctx).Err() == nil
}
