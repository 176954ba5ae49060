package auction

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Processor drives the periodic expiry sweep. The sweep itself is safe
// under any call frequency, including overlapping runs from multiple
// processes, so the interval is purely a freshness knob.
type Processor struct {
	service  *Service
	interval time.Duration
}

const defaultSweepInterval = time.Minute

func NewProcessor(service *Service, interval time.Duration) *Processor {
	// time.NewTicker panics on a non-positive interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Processor{
		service:  service,
		interval: interval,
	}
}

// Start begins the expiry sweep loop
func (p *Processor) Start(ctx context.Context) {
	logger := log.With().Str("component", "auction_processor").Logger()
	logger.Info().Dur("interval", p.interval).Msg("starting auction expiry processor")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down auction expiry processor")
			return
		case <-ticker.C:
			completions, err := p.service.ProcessExpiredAuctions()
			if err != nil {
				logger.Error().Err(err).Msg("failed to process expired auctions")
				continue
			}
			if len(completions) > 0 {
				logger.Info().Int("completed_count", len(completions)).
					Msg("expired auctions completed")
			}
		}
	}
}
