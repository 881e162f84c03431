package workers

import (
	"context"
	"log/slog"

	messagingadapter "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/adapters/messaging"
	application "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application"
	"github.com/eslamene/Meen-Ma3ana-sub004/internal/shared/events"
)

type Subscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, events.Envelope) error,
	) error
}

// NotificationConsumer drains the notification topic in the worker process
// and records delivery intent. Email/push transport hooks in behind this
// boundary; the API process never waits on it.
type NotificationConsumer struct {
	Subscriber    Subscriber
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c NotificationConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	return c.Subscriber.Subscribe(ctx, messagingadapter.Topic, c.ConsumerGroup, func(_ context.Context, event events.Envelope) error {
		logger.Info("case notification delivered",
			"event", "case_notification_delivered",
			"module", "case-management/case-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"case_id", event.EntityID,
		)
		return nil
	})
}
