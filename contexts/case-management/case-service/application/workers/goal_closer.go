package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	application "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/commands"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

// GracePeriod is the cooling-off window after case creation during which a
// fully funded case is deliberately not auto-closed. Anchored to creation
// time, not to when the target was reached.
const GracePeriod = 24 * time.Hour

type GoalCloserReport struct {
	Checked int
	Closed  int
	Errors  int
}

// GoalCloser sweeps published one-time cases whose approved contributions
// meet the target and closes them system-triggered. One failing case never
// aborts the rest of the sweep.
type GoalCloser struct {
	Cases         ports.CaseRepository
	Contributions ports.ContributionRepository
	ChangeStatus  commands.ChangeCaseStatusUseCase
	Clock         ports.Clock
	Logger        *slog.Logger
}

func (j GoalCloser) RunOnce(ctx context.Context) (GoalCloserReport, error) {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	candidates, err := j.Cases.ListCases(ctx, ports.CaseFilter{
		Status:   entities.CaseStatusPublished,
		CaseType: entities.CaseTypeOneTime,
	})
	if err != nil {
		logger.Error("goal closure sweep failed",
			"event", "case_goal_closure_failed",
			"module", "case-management/case-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return GoalCloserReport{}, err
	}

	report := GoalCloserReport{Checked: len(candidates)}
	for _, item := range candidates {
		closed, err := j.closeIfFunded(ctx, item, now)
		if err != nil {
			report.Errors++
			logger.Error("goal closure failed for case",
				"event", "case_goal_closure_case_failed",
				"module", "case-management/case-service",
				"layer", "worker",
				"case_id", item.CaseID,
				"error", err.Error(),
			)
			continue
		}
		if closed {
			report.Closed++
		}
	}

	if report.Closed > 0 || report.Errors > 0 {
		logger.Info("goal closure sweep completed",
			"event", "case_goal_closure_completed",
			"module", "case-management/case-service",
			"layer", "worker",
			"checked_count", report.Checked,
			"closed_count", report.Closed,
			"error_count", report.Errors,
		)
	}
	return report, nil
}

func (j GoalCloser) closeIfFunded(ctx context.Context, item entities.Case, now time.Time) (bool, error) {
	funded, err := j.Contributions.SumApprovedByCase(ctx, item.CaseID)
	if err != nil {
		return false, err
	}
	if funded < item.TargetAmount {
		return false, nil
	}
	if now.Before(item.CreatedAt.UTC().Add(GracePeriod)) {
		return false, nil
	}

	_, err = j.ChangeStatus.Execute(ctx, commands.ChangeCaseStatusCommand{
		CaseID:          item.CaseID,
		NewStatus:       string(entities.CaseStatusClosed),
		SystemTriggered: true,
		ChangeReason:    fmt.Sprintf("funding goal reached: %.2f of %.2f collected", funded, item.TargetAmount),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
