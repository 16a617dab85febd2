package handlers

import (
	"context"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/metrics"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/rs/zerolog/log"
)

// Notifier publishes session change events. Publishing is best effort: a
// failure is logged and never fails the request that caused it.
type Notifier struct {
	publisher events.Publisher
	metrics   *metrics.Metrics
}

func NewNotifier(publisher events.Publisher, m *metrics.Metrics) *Notifier {
	return &Notifier{publisher: publisher, metrics: m}
}

func (n *Notifier) Notify(ctx context.Context, event dto.SessionEvent) {
	if n == nil || n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("type", event.Type).
			Str("user_id", event.UserID.String()).
			Msg("failed to publish session event")
		return
	}
	n.metrics.EventPublished(event.Type)
}
