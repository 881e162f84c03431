package notifications

import (
	"context"
	"log/slog"

	application "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

const statusField = "status"

// MatchContext carries the transition the matcher evaluates rules against.
type MatchContext struct {
	FromStatus entities.CaseStatus
	ToStatus   entities.CaseStatus
}

// RuleMatcher selects the configured rules that apply to a status transition.
// Zero matches is a valid, silent outcome.
type RuleMatcher struct {
	Rules  ports.NotificationRuleRepository
	Logger *slog.Logger
}

// Match returns every active rule for the status field change. A transition
// into published also matches case_created rules: the case going live is
// treated the same as a brand-new case for broadcast purposes.
func (m RuleMatcher) Match(ctx context.Context, mc MatchContext) ([]entities.NotificationRule, error) {
	logger := application.ResolveLogger(m.Logger)

	matched, err := m.Rules.ListRules(ctx, ports.RuleFilter{
		Event:     entities.NotificationEventFieldChanged,
		Field:     statusField,
		FromValue: string(mc.FromStatus),
		ToValue:   string(mc.ToStatus),
	})
	if err != nil {
		return nil, err
	}

	if mc.ToStatus == entities.CaseStatusPublished {
		created, err := m.Rules.ListRules(ctx, ports.RuleFilter{
			Event: entities.NotificationEventCaseCreated,
		})
		if err != nil {
			return nil, err
		}
		matched = append(matched, created...)
	}

	active := make([]entities.NotificationRule, 0, len(matched))
	for _, rule := range matched {
		if rule.Active {
			active = append(active, rule)
		}
	}

	logger.Debug("notification rules matched",
		"event", "notification_rules_matched",
		"module", "case-management/case-service",
		"layer", "application",
		"from_status", string(mc.FromStatus),
		"to_status", string(mc.ToStatus),
		"rule_count", len(active),
	)
	return active, nil
}
