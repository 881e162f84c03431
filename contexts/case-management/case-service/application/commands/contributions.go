package commands

import (
	"context"
	"log/slog"
	"strings"

	application "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

type RecordContributionCommand struct {
	CaseID        string
	ContributorID string
	Amount        float64
}

// RecordContributionUseCase stores a pending contribution against a
// published case. Amounts only count once an admin approves them.
type RecordContributionUseCase struct {
	Cases         ports.CaseRepository
	Contributions ports.ContributionRepository
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func (uc RecordContributionUseCase) Execute(ctx context.Context, cmd RecordContributionCommand) (entities.Contribution, error) {
	logger := application.ResolveLogger(uc.Logger)

	if strings.TrimSpace(cmd.ContributorID) == "" || cmd.Amount <= 0 {
		return entities.Contribution{}, domainerrors.ErrInvalidContribution
	}
	item, err := uc.Cases.GetCase(ctx, strings.TrimSpace(cmd.CaseID))
	if err != nil {
		return entities.Contribution{}, err
	}
	if item.Status != entities.CaseStatusPublished {
		return entities.Contribution{}, domainerrors.ErrCaseNotAcceptingFunds
	}

	now := uc.Clock.Now().UTC()
	contributionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Contribution{}, err
	}
	contribution := entities.Contribution{
		ContributionID: contributionID,
		CaseID:         item.CaseID,
		ContributorID:  strings.TrimSpace(cmd.ContributorID),
		Amount:         cmd.Amount,
		Status:         entities.ContributionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.Contributions.AddContribution(ctx, contribution); err != nil {
		return entities.Contribution{}, err
	}

	logger.Info("contribution recorded",
		"event", "contribution_recorded",
		"module", "case-management/case-service",
		"layer", "application",
		"case_id", item.CaseID,
		"contribution_id", contribution.ContributionID,
	)
	return contribution, nil
}

type ApproveContributionCommand struct {
	ContributionID string
	ApprovedBy     string
}

// ApproveContributionUseCase flips a pending contribution to approved and
// credits the case's current amount. Admin only.
type ApproveContributionUseCase struct {
	Users         ports.UserRepository
	Contributions ports.ContributionRepository
	Clock         ports.Clock
	Logger        *slog.Logger
}

func (uc ApproveContributionUseCase) Execute(ctx context.Context, cmd ApproveContributionCommand) (entities.Contribution, error) {
	logger := application.ResolveLogger(uc.Logger)

	actor, err := uc.Users.GetUser(ctx, strings.TrimSpace(cmd.ApprovedBy))
	if err != nil {
		return entities.Contribution{}, err
	}
	if actor.Role != entities.RoleAdmin {
		return entities.Contribution{}, domainerrors.ErrInvalidContribution
	}

	now := uc.Clock.Now().UTC()
	contribution, err := uc.Contributions.ApproveContribution(ctx, strings.TrimSpace(cmd.ContributionID), now)
	if err != nil {
		return entities.Contribution{}, err
	}

	logger.Info("contribution approved",
		"event", "contribution_approved",
		"module", "case-management/case-service",
		"layer", "application",
		"case_id", contribution.CaseID,
		"contribution_id", contribution.ContributionID,
	)
	return contribution, nil
}
