// Package services implements the administrative use cases on top of the
// repository and identity-provider ports. Services own existence checks and
// cross-entity validation; repositories stay dumb about business rules.
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain/events"
)

// publishEvent emits one event best effort. Failures are logged and dropped:
// the admin operation already succeeded and its result must not change.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("event publish failed",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

// warnLargeCascade flags cleanups that removed more edges than the configured
// threshold. The delete itself already happened; this is an operator signal.
func warnLargeCascade(logger *zap.Logger, limits ports.LimitsProvider, entity, id string, removed int) {
	if limits == nil {
		return
	}
	if max := limits.CurrentLimits().MaxCascadeEdges; removed > max {
		logger.Warn("cascade cleanup exceeded threshold",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.Int("edges_removed", removed),
			zap.Int("threshold", max),
		)
	}
}
