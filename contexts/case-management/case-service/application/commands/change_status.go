package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/notifications"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/lifecycle"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

const systemAuthor = "system"

type ChangeCaseStatusCommand struct {
	CaseID          string
	NewStatus       string
	ChangedBy       string
	SystemTriggered bool
	ChangeReason    string
}

// ChangeCaseStatusUseCase is the only legitimate path for moving a case
// between statuses. The status write and the history append are one atomic
// unit; the activity-feed entry and notification fan-out are best-effort.
type ChangeCaseStatusUseCase struct {
	Cases      ports.CaseRepository
	Users      ports.UserRepository
	Updates    ports.CaseUpdateRepository
	Policy     lifecycle.Policy
	Matcher    notifications.RuleMatcher
	Dispatcher notifications.Dispatcher
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ChangeCaseStatusUseCase) Execute(ctx context.Context, cmd ChangeCaseStatusCommand) (entities.Case, error) {
	logger := application.ResolveLogger(uc.Logger)

	item, err := uc.Cases.GetCase(ctx, strings.TrimSpace(cmd.CaseID))
	if err != nil {
		return entities.Case{}, err
	}

	// The stored status is ground truth; a caller-supplied previous status is
	// never trusted. Both sides are normalized before any check runs.
	currentStatus, ok := entities.NormalizeStatus(string(item.Status))
	if !ok {
		return entities.Case{}, domainerrors.ErrInvalidStatusTransition
	}
	newStatus, ok := entities.NormalizeStatus(cmd.NewStatus)
	if !ok {
		return entities.Case{}, domainerrors.ErrInvalidStatusTransition
	}

	var role entities.Role
	actorID := strings.TrimSpace(cmd.ChangedBy)
	if actorID != "" {
		actor, err := uc.Users.GetUser(ctx, actorID)
		if err != nil {
			return entities.Case{}, err
		}
		role = actor.Role
	}

	if !uc.Policy.IsTransitionAllowed(currentStatus, newStatus, role, cmd.SystemTriggered) {
		return entities.Case{}, domainerrors.ErrInvalidStatusTransition
	}
	reason := strings.TrimSpace(cmd.ChangeReason)
	if uc.Policy.RequiresReason(currentStatus, newStatus) && reason == "" {
		return entities.Case{}, domainerrors.ErrReasonRequired
	}

	now := uc.Clock.Now().UTC()
	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Case{}, err
	}
	entry := entities.StatusHistory{
		HistoryID:       historyID,
		CaseID:          item.CaseID,
		FromStatus:      currentStatus,
		ToStatus:        newStatus,
		ChangedBy:       actorID,
		SystemTriggered: cmd.SystemTriggered,
		ChangeReason:    reason,
		CreatedAt:       now,
	}
	if err := uc.Cases.ApplyStatusChange(ctx, entry); err != nil {
		return entities.Case{}, err
	}

	logger.Info("case status changed",
		"event", "case_status_changed",
		"module", "case-management/case-service",
		"layer", "application",
		"case_id", item.CaseID,
		"from_status", string(currentStatus),
		"to_status", string(newStatus),
		"system_triggered", cmd.SystemTriggered,
	)

	updated, err := uc.Cases.GetCase(ctx, item.CaseID)
	if err != nil {
		return entities.Case{}, err
	}

	// Advisory tail. Failures here are logged and swallowed; the status change
	// already committed and must not be rolled back or reported as failed.
	uc.recordUpdate(ctx, logger, updated, entry)
	uc.notify(ctx, logger, updated, entry)

	return updated, nil
}

func (uc ChangeCaseStatusUseCase) recordUpdate(
	ctx context.Context,
	logger *slog.Logger,
	item entities.Case,
	entry entities.StatusHistory,
) {
	update, ok := buildStatusUpdate(item, entry)
	if !ok {
		return
	}
	updateID, err := uc.IDGen.NewID(ctx)
	if err == nil {
		update.UpdateID = updateID
		err = uc.Updates.AddUpdate(ctx, update)
	}
	if err != nil {
		logger.Warn("case update generation failed",
			"event", "case_update_generation_failed",
			"module", "case-management/case-service",
			"layer", "application",
			"case_id", item.CaseID,
			"to_status", string(entry.ToStatus),
			"error", err.Error(),
		)
	}
}

func (uc ChangeCaseStatusUseCase) notify(
	ctx context.Context,
	logger *slog.Logger,
	item entities.Case,
	entry entities.StatusHistory,
) {
	rules, err := uc.Matcher.Match(ctx, notifications.MatchContext{
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
	})
	if err != nil {
		logger.Warn("notification rule matching failed",
			"event", "case_notification_failed",
			"module", "case-management/case-service",
			"layer", "application",
			"case_id", item.CaseID,
			"error", err.Error(),
		)
		return
	}
	for _, rule := range rules {
		err := uc.Dispatcher.Dispatch(ctx, notifications.DispatchContext{
			Case:       item,
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			ActorID:    entry.ChangedBy,
		}, rule)
		if err != nil {
			logger.Warn("notification dispatch failed",
				"event", "case_notification_failed",
				"module", "case-management/case-service",
				"layer", "application",
				"case_id", item.CaseID,
				"rule_id", rule.RuleID,
				"error", err.Error(),
			)
		}
	}
}

// buildStatusUpdate renders the activity-feed entry for a transition. Only
// the listed resulting statuses produce an entry.
func buildStatusUpdate(item entities.Case, entry entities.StatusHistory) (entities.CaseUpdate, bool) {
	author := entry.ChangedBy
	if author == "" {
		author = systemAuthor
	}
	update := entities.CaseUpdate{
		CaseID:     item.CaseID,
		Visibility: entities.VisibilityPublic,
		CreatedBy:  author,
		CreatedAt:  entry.CreatedAt,
	}

	switch entry.ToStatus {
	case entities.CaseStatusPublished:
		update.UpdateType = entities.UpdateTypeMilestone
		update.TitleEn = "Case published"
		update.TitleAr = "تم نشر الحالة"
		update.Content = "The case is now live and accepting donations."
	case entities.CaseStatusUnderReview:
		update.UpdateType = entities.UpdateTypeGeneral
		update.TitleEn = "Case under review"
		update.TitleAr = "الحالة قيد المراجعة"
		update.Content = "The case is being reviewed by our team."
	case entities.CaseStatusClosed:
		if entry.SystemTriggered {
			update.UpdateType = entities.UpdateTypeMilestone
			update.TitleEn = "Funding goal reached"
			update.TitleAr = "تم الوصول إلى هدف التبرع"
			update.Content = "Congratulations! The case reached its funding goal and was closed automatically."
		} else {
			update.UpdateType = entities.UpdateTypeGeneral
			update.TitleEn = "Case closed"
			update.TitleAr = "تم إغلاق الحالة"
			update.Content = "The case has been closed."
			if entry.ChangeReason != "" {
				update.Content = fmt.Sprintf("The case has been closed. Reason: %s", entry.ChangeReason)
			}
		}
	case entities.CaseStatusSubmitted:
		update.UpdateType = entities.UpdateTypeProgress
		update.Visibility = entities.VisibilityInternal
		update.TitleEn = "Case submitted"
		update.TitleAr = "تم إرسال الحالة"
		update.Content = "The case was submitted for review."
	default:
		return entities.CaseUpdate{}, false
	}
	return update, true
}
