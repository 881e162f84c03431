package notifications

import (
	"context"
	"log/slog"
	"strings"

	application "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

// Dispatcher resolves a matched rule's target descriptor into a concrete,
// deduplicated recipient list and hands off to the delivery channel. It never
// performs transport itself.
type Dispatcher struct {
	Contributions ports.ContributionRepository
	Notifier      ports.Notifier
	Logger        *slog.Logger
}

type DispatchContext struct {
	Case       entities.Case
	FromStatus entities.CaseStatus
	ToStatus   entities.CaseStatus
	ActorID    string
}

func (d Dispatcher) Dispatch(ctx context.Context, dc DispatchContext, rule entities.NotificationRule) error {
	logger := application.ResolveLogger(d.Logger)

	notification := ports.CaseNotification{
		CaseID:     dc.Case.CaseID,
		TitleEn:    dc.Case.TitleEn,
		TitleAr:    dc.Case.TitleAr,
		FromStatus: dc.FromStatus,
		ToStatus:   dc.ToStatus,
		CreatedBy:  dc.Case.CreatedBy,
	}

	if rule.NotifyAllUsers {
		notification.Broadcast = true
		return d.deliver(ctx, notification)
	}

	recipients := make([]string, 0, 4+len(rule.NotifySpecificUsers))
	if rule.NotifyCreator {
		recipients = append(recipients, dc.Case.CreatedBy)
	}
	if rule.NotifyContributors {
		contributors, err := d.Contributions.ListContributorIDs(ctx, dc.Case.CaseID)
		if err != nil {
			return err
		}
		recipients = append(recipients, contributors...)
	}
	if rule.NotifyChangeInitiator {
		recipients = append(recipients, dc.ActorID)
	}
	if rule.NotifyAssignedTo {
		recipients = append(recipients, dc.Case.AssignedTo)
	}
	recipients = append(recipients, rule.NotifySpecificUsers...)

	notification.RecipientIDs = dedupRecipients(recipients)
	if len(notification.RecipientIDs) == 0 {
		logger.Debug("notification skipped, no recipients",
			"event", "case_notification_skipped",
			"module", "case-management/case-service",
			"layer", "application",
			"case_id", dc.Case.CaseID,
			"rule_id", rule.RuleID,
		)
		return nil
	}
	return d.deliver(ctx, notification)
}

// deliver picks the channel method by resulting status: publishing looks like
// a new case, closing looks like completion, everything else is a plain
// status change.
func (d Dispatcher) deliver(ctx context.Context, notification ports.CaseNotification) error {
	switch notification.ToStatus {
	case entities.CaseStatusPublished:
		return d.Notifier.NotifyCaseCreated(ctx, notification)
	case entities.CaseStatusClosed:
		return d.Notifier.NotifyCaseCompleted(ctx, notification)
	default:
		return d.Notifier.NotifyCaseStatusChanged(ctx, notification)
	}
}

// dedupRecipients drops empty ids and keeps first occurrence order so a user
// eligible through several flags is notified once.
func dedupRecipients(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item)
		if id == "" {
			continue
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
