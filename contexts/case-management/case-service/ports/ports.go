package ports

import (
	"context"
	"time"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
)

type CaseFilter struct {
	Status    entities.CaseStatus
	CaseType  entities.CaseType
	CreatedBy string
}

type CaseRepository interface {
	CreateCase(ctx context.Context, item entities.Case) error
	GetCase(ctx context.Context, caseID string) (entities.Case, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]entities.Case, error)
	// ApplyStatusChange writes the new status and appends the history entry as
	// one atomic unit. The stored status must still equal entry.FromStatus when
	// the write happens; otherwise the change is rejected as a conflict.
	ApplyStatusChange(ctx context.Context, entry entities.StatusHistory) error
}

type HistoryRepository interface {
	ListHistory(ctx context.Context, caseID string) ([]entities.StatusHistory, error)
}

type UserRepository interface {
	GetUser(ctx context.Context, userID string) (entities.User, error)
}

type ContributionRepository interface {
	AddContribution(ctx context.Context, item entities.Contribution) error
	GetContribution(ctx context.Context, contributionID string) (entities.Contribution, error)
	// ApproveContribution flips a pending contribution to approved and adds its
	// amount to the case's current amount in the same atomic unit.
	ApproveContribution(ctx context.Context, contributionID string, now time.Time) (entities.Contribution, error)
	SumApprovedByCase(ctx context.Context, caseID string) (float64, error)
	ListContributorIDs(ctx context.Context, caseID string) ([]string, error)
}

type CaseUpdateRepository interface {
	AddUpdate(ctx context.Context, item entities.CaseUpdate) error
	ListUpdates(ctx context.Context, caseID string, includeInternal bool) ([]entities.CaseUpdate, error)
}

type RuleFilter struct {
	Event     entities.NotificationEvent
	Field     string
	FromValue string
	ToValue   string
}

type NotificationRuleRepository interface {
	ListRules(ctx context.Context, filter RuleFilter) ([]entities.NotificationRule, error)
}

// CaseNotification is the payload handed to the delivery channel. Delivery
// transport (email, push, in-app) lives outside this service.
type CaseNotification struct {
	CaseID       string
	TitleEn      string
	TitleAr      string
	FromStatus   entities.CaseStatus
	ToStatus     entities.CaseStatus
	CreatedBy    string
	RecipientIDs []string
	Broadcast    bool
}

type Notifier interface {
	NotifyCaseCreated(ctx context.Context, notification CaseNotification) error
	NotifyCaseCompleted(ctx context.Context, notification CaseNotification) error
	NotifyCaseStatusChanged(ctx context.Context, notification CaseNotification) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
