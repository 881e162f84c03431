package queries

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

type ListCasesQuery struct {
	Status    string
	CaseType  string
	CreatedBy string
}

type ListCasesUseCase struct {
	Cases  ports.CaseRepository
	Logger *slog.Logger
}

func (uc ListCasesUseCase) Execute(ctx context.Context, query ListCasesQuery) ([]entities.Case, error) {
	filter := ports.CaseFilter{
		CaseType:  entities.CaseType(strings.TrimSpace(query.CaseType)),
		CreatedBy: strings.TrimSpace(query.CreatedBy),
	}
	if raw := strings.TrimSpace(query.Status); raw != "" {
		status, ok := entities.NormalizeStatus(raw)
		if !ok {
			return []entities.Case{}, nil
		}
		filter.Status = status
	}
	return uc.Cases.ListCases(ctx, filter)
}

type ListHistoryUseCase struct {
	History ports.HistoryRepository
	Logger  *slog.Logger
}

func (uc ListHistoryUseCase) Execute(ctx context.Context, caseID string) ([]entities.StatusHistory, error) {
	return uc.History.ListHistory(ctx, strings.TrimSpace(caseID))
}

type ListUpdatesUseCase struct {
	Updates ports.CaseUpdateRepository
	Logger  *slog.Logger
}

func (uc ListUpdatesUseCase) Execute(ctx context.Context, caseID string, includeInternal bool) ([]entities.CaseUpdate, error) {
	return uc.Updates.ListUpdates(ctx, strings.TrimSpace(caseID), includeInternal)
}
