package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

type CreateCaseCommand struct {
	CreatedBy     string
	TitleEn       string
	TitleAr       string
	Description   string
	CaseType      string
	TargetAmount  float64
	SponsorID     string
	BeneficiaryID string
	EndDate       *time.Time
}

// CreateCaseUseCase creates a case in draft. Every later status move goes
// through ChangeCaseStatusUseCase.
type CreateCaseUseCase struct {
	Cases  ports.CaseRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc CreateCaseUseCase) Execute(ctx context.Context, cmd CreateCaseCommand) (entities.Case, error) {
	logger := application.ResolveLogger(uc.Logger)

	caseType := entities.CaseType(strings.TrimSpace(cmd.CaseType))
	if caseType == "" {
		caseType = entities.CaseTypeOneTime
	}

	now := uc.Clock.Now().UTC()
	caseID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Case{}, err
	}

	item := entities.Case{
		CaseID:        caseID,
		TitleEn:       strings.TrimSpace(cmd.TitleEn),
		TitleAr:       strings.TrimSpace(cmd.TitleAr),
		Description:   strings.TrimSpace(cmd.Description),
		CaseType:      caseType,
		Status:        entities.CaseStatusDraft,
		TargetAmount:  cmd.TargetAmount,
		CreatedBy:     strings.TrimSpace(cmd.CreatedBy),
		SponsorID:     strings.TrimSpace(cmd.SponsorID),
		BeneficiaryID: strings.TrimSpace(cmd.BeneficiaryID),
		EndDate:       cmd.EndDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !item.ValidateBasics() {
		return entities.Case{}, domainerrors.ErrInvalidCaseInput
	}
	if err := uc.Cases.CreateCase(ctx, item); err != nil {
		return entities.Case{}, err
	}

	logger.Info("case created",
		"event", "case_created",
		"module", "case-management/case-service",
		"layer", "application",
		"case_id", item.CaseID,
		"case_type", string(item.CaseType),
	)
	return item, nil
}
