package queries

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/lifecycle"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

type GetCaseUseCase struct {
	Cases  ports.CaseRepository
	Logger *slog.Logger
}

func (uc GetCaseUseCase) Execute(ctx context.Context, caseID string) (entities.Case, error) {
	return uc.Cases.GetCase(ctx, strings.TrimSpace(caseID))
}

// AvailableTransitionsUseCase reports which statuses the actor could move the
// case to. Purely informational; the change command re-validates.
type AvailableTransitionsUseCase struct {
	Cases  ports.CaseRepository
	Users  ports.UserRepository
	Policy lifecycle.Policy
	Logger *slog.Logger
}

func (uc AvailableTransitionsUseCase) Execute(ctx context.Context, caseID string, actorID string) ([]entities.CaseStatus, error) {
	item, err := uc.Cases.GetCase(ctx, strings.TrimSpace(caseID))
	if err != nil {
		return nil, err
	}
	current, ok := entities.NormalizeStatus(string(item.Status))
	if !ok {
		return []entities.CaseStatus{}, nil
	}

	var role entities.Role
	if strings.TrimSpace(actorID) != "" {
		actor, err := uc.Users.GetUser(ctx, strings.TrimSpace(actorID))
		if err != nil {
			return nil, err
		}
		role = actor.Role
	}
	return uc.Policy.AvailableTransitions(current, role, false), nil
}
