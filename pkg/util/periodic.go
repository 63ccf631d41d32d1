package util

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunPeriodically runs task straight away and then every period, until maxOperation has elapsed or
// ctx is cancelled. A zero maxOperation never times out. Task errors are logged only.
func RunPeriodically(ctx context.Context, name string, period time.Duration, maxOperation time.Duration, task func(ctx context.Context) error) {
	if maxOperation > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxOperation)
		defer cancel()
	}

	log.Info().Str("loop", name).Str("period", period.String()).Str("maxoperation", maxOperation.String()).Msg("Starting loop")

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		startTime := time.Now()
		if err := task(ctx); err != nil {
			log.Error().Err(err).Str("loop", name).Msg("Loop iteration failed")
		}
		log.Debug().Str("loop", name).Str("Length", time.Since(startTime).String()).Msg("Loop iteration")

		select {
		case <-ctx.Done():
			log.Info().Str("loop", name).Msg("Stopping loop")
			return
		case <-ticker.C:
		}
	}
}
