package gateway

import (
	"context"
	"time"

	"github.com/federatedgraph/gateway/logger"
)

// BackgroundSyncer periodically rebuilds a Gateway's merged schema, so
// that an upstream executor's schema changes are picked up without a
// manual Pull. This replaces the teacher repository's reactive rerunner
// (reactive.NewRerunner / federation.IntrospectionSchemaSyncer), which
// drove re-introspection off an invalidation graph meant for live
// queries; this gateway has no live queries to rerun (spec section 1
// Non-goals exclude subscriptions), so a plain ticker achieves the same
// "periodically re-check and swap" effect without that machinery.
type BackgroundSyncer struct {
	Gateway  *Gateway
	Interval time.Duration
	Log      logger.Logger
}

// NewBackgroundSyncer returns a syncer that calls Gateway.Build every
// interval until ctx is done.
func NewBackgroundSyncer(g *Gateway, interval time.Duration, log logger.Logger) *BackgroundSyncer {
	if log == nil {
		log = noopLogger{}
	}
	return &BackgroundSyncer{Gateway: g, Interval: interval, Log: log}
}

// Run blocks, rebuilding the schema on each tick, until ctx is cancelled.
func (s *BackgroundSyncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Gateway.Build(ctx); err != nil {
				s.Log.Warn("background schema sync failed", "error", err)
			}
		}
	}
}
