package messagingadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
	"github.com/eslamene/Meen-Ma3ana-sub004/internal/shared/events"

	"github.com/google/uuid"
)

const (
	// Topic carries notification hand-offs to the delivery consumer.
	Topic = "case.notifications"

	sourceService = "case-service"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// NotificationPayload is the envelope payload handed to the delivery side.
type NotificationPayload struct {
	Kind         string   `json:"kind"`
	CaseID       string   `json:"case_id"`
	TitleEn      string   `json:"title_en"`
	TitleAr      string   `json:"title_ar"`
	FromStatus   string   `json:"from_status"`
	ToStatus     string   `json:"to_status"`
	CreatedBy    string   `json:"created_by"`
	RecipientIDs []string `json:"recipient_ids,omitempty"`
	Broadcast    bool     `json:"broadcast"`
}

// EventNotifier hands notifications to the delivery channel over the event
// bus. Actual transport (email, push, in-app) is the consumer's concern.
type EventNotifier struct {
	Publisher Publisher
	Logger    *slog.Logger
}

func (n EventNotifier) NotifyCaseCreated(ctx context.Context, notification ports.CaseNotification) error {
	return n.publish(ctx, "case_created", notification)
}

func (n EventNotifier) NotifyCaseCompleted(ctx context.Context, notification ports.CaseNotification) error {
	return n.publish(ctx, "case_completed", notification)
}

func (n EventNotifier) NotifyCaseStatusChanged(ctx context.Context, notification ports.CaseNotification) error {
	return n.publish(ctx, "case_status_changed", notification)
}

func (n EventNotifier) publish(ctx context.Context, kind string, notification ports.CaseNotification) error {
	return n.Publisher.Publish(ctx, Topic, events.Envelope{
		EventID:        uuid.NewString(),
		EventType:      "case.notification." + kind,
		SourceService:  sourceService,
		OccurredAtUTC:  time.Now().UTC(),
		EntityType:     "case",
		EntityID:       notification.CaseID,
		PayloadVersion: 1,
		Payload: NotificationPayload{
			Kind:         kind,
			CaseID:       notification.CaseID,
			TitleEn:      notification.TitleEn,
			TitleAr:      notification.TitleAr,
			FromStatus:   string(notification.FromStatus),
			ToStatus:     string(notification.ToStatus),
			CreatedBy:    notification.CreatedBy,
			RecipientIDs: append([]string(nil), notification.RecipientIDs...),
			Broadcast:    notification.Broadcast,
		},
	})
}
