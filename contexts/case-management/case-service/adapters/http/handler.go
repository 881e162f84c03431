package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/commands"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/queries"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	httptransport "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/transport/http"
)

type Handler struct {
	CreateCase           commands.CreateCaseUseCase
	ChangeStatus         commands.ChangeCaseStatusUseCase
	RecordContribution   commands.RecordContributionUseCase
	ApproveContribution  commands.ApproveContributionUseCase
	GetCase              queries.GetCaseUseCase
	ListCases            queries.ListCasesUseCase
	ListHistory          queries.ListHistoryUseCase
	ListUpdates          queries.ListUpdatesUseCase
	AvailableTransitions queries.AvailableTransitionsUseCase
	Logger               *slog.Logger
}

func (h Handler) CreateCaseHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateCaseRequest,
) (httptransport.CreateCaseResponse, error) {
	endDate, err := parseEndDate(req.EndDate)
	if err != nil {
		return httptransport.CreateCaseResponse{}, domainerrors.ErrInvalidCaseInput
	}
	result, err := h.CreateCase.Execute(ctx, commands.CreateCaseCommand{
		CreatedBy:     userID,
		TitleEn:       req.TitleEn,
		TitleAr:       req.TitleAr,
		Description:   req.Description,
		CaseType:      req.CaseType,
		TargetAmount:  req.TargetAmount,
		SponsorID:     req.SponsorID,
		BeneficiaryID: req.BeneficiaryID,
		EndDate:       endDate,
	})
	if err != nil {
		return httptransport.CreateCaseResponse{}, err
	}
	return httptransport.CreateCaseResponse{Case: mapCase(result)}, nil
}

func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	userID string,
	caseID string,
	req httptransport.ChangeStatusRequest,
) (httptransport.ChangeStatusResponse, error) {
	result, err := h.ChangeStatus.Execute(ctx, commands.ChangeCaseStatusCommand{
		CaseID:       caseID,
		NewStatus:    req.NewStatus,
		ChangedBy:    userID,
		ChangeReason: req.Reason,
	})
	if err != nil {
		return httptransport.ChangeStatusResponse{}, err
	}
	return httptransport.ChangeStatusResponse{Case: mapCase(result)}, nil
}

func (h Handler) GetCaseHandler(ctx context.Context, caseID string) (httptransport.GetCaseResponse, error) {
	item, err := h.GetCase.Execute(ctx, caseID)
	if err != nil {
		return httptransport.GetCaseResponse{}, err
	}
	return httptransport.GetCaseResponse{Case: mapCase(item)}, nil
}

func (h Handler) ListCasesHandler(
	ctx context.Context,
	status string,
	caseType string,
	createdBy string,
) (httptransport.ListCasesResponse, error) {
	items, err := h.ListCases.Execute(ctx, queries.ListCasesQuery{
		Status:    status,
		CaseType:  caseType,
		CreatedBy: createdBy,
	})
	if err != nil {
		return httptransport.ListCasesResponse{}, err
	}
	result := make([]httptransport.CaseDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCase(item))
	}
	return httptransport.ListCasesResponse{Items: result}, nil
}

func (h Handler) ListHistoryHandler(ctx context.Context, caseID string) (httptransport.ListHistoryResponse, error) {
	items, err := h.ListHistory.Execute(ctx, caseID)
	if err != nil {
		return httptransport.ListHistoryResponse{}, err
	}
	result := make([]httptransport.StatusHistoryDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.StatusHistoryDTO{
			HistoryID:       item.HistoryID,
			CaseID:          item.CaseID,
			FromStatus:      string(item.FromStatus),
			ToStatus:        string(item.ToStatus),
			ChangedBy:       item.ChangedBy,
			SystemTriggered: item.SystemTriggered,
			ChangeReason:    item.ChangeReason,
			CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListHistoryResponse{Items: result}, nil
}

func (h Handler) ListUpdatesHandler(
	ctx context.Context,
	caseID string,
	includeInternal bool,
) (httptransport.ListUpdatesResponse, error) {
	items, err := h.ListUpdates.Execute(ctx, caseID, includeInternal)
	if err != nil {
		return httptransport.ListUpdatesResponse{}, err
	}
	result := make([]httptransport.CaseUpdateDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.CaseUpdateDTO{
			UpdateID:   item.UpdateID,
			CaseID:     item.CaseID,
			TitleEn:    item.TitleEn,
			TitleAr:    item.TitleAr,
			Content:    item.Content,
			UpdateType: string(item.UpdateType),
			Visibility: string(item.Visibility),
			CreatedBy:  item.CreatedBy,
			CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListUpdatesResponse{Items: result}, nil
}

func (h Handler) RecordContributionHandler(
	ctx context.Context,
	userID string,
	caseID string,
	req httptransport.RecordContributionRequest,
) (httptransport.ContributionResponse, error) {
	result, err := h.RecordContribution.Execute(ctx, commands.RecordContributionCommand{
		CaseID:        caseID,
		ContributorID: userID,
		Amount:        req.Amount,
	})
	if err != nil {
		return httptransport.ContributionResponse{}, err
	}
	return httptransport.ContributionResponse{Contribution: mapContribution(result)}, nil
}

func (h Handler) ApproveContributionHandler(
	ctx context.Context,
	userID string,
	contributionID string,
) (httptransport.ContributionResponse, error) {
	result, err := h.ApproveContribution.Execute(ctx, commands.ApproveContributionCommand{
		ContributionID: contributionID,
		ApprovedBy:     userID,
	})
	if err != nil {
		return httptransport.ContributionResponse{}, err
	}
	return httptransport.ContributionResponse{Contribution: mapContribution(result)}, nil
}

func (h Handler) AvailableTransitionsHandler(
	ctx context.Context,
	userID string,
	caseID string,
) (httptransport.AvailableTransitionsResponse, error) {
	items, err := h.AvailableTransitions.Execute(ctx, caseID, userID)
	if err != nil {
		return httptransport.AvailableTransitionsResponse{}, err
	}
	transitions := make([]string, 0, len(items))
	for _, item := range items {
		transitions = append(transitions, string(item))
	}
	return httptransport.AvailableTransitionsResponse{
		CaseID:      strings.TrimSpace(caseID),
		Transitions: transitions,
	}, nil
}

func mapCase(item entities.Case) httptransport.CaseDTO {
	result := httptransport.CaseDTO{
		CaseID:        item.CaseID,
		TitleEn:       item.TitleEn,
		TitleAr:       item.TitleAr,
		Description:   item.Description,
		CaseType:      string(item.CaseType),
		Status:        string(item.Status),
		TargetAmount:  item.TargetAmount,
		CurrentAmount: item.CurrentAmount,
		CreatedBy:     item.CreatedBy,
		AssignedTo:    item.AssignedTo,
		SponsorID:     item.SponsorID,
		BeneficiaryID: item.BeneficiaryID,
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.Format(time.RFC3339),
	}
	if item.EndDate != nil {
		result.EndDate = item.EndDate.UTC().Format(time.RFC3339)
	}
	return result
}

func mapContribution(item entities.Contribution) httptransport.ContributionDTO {
	return httptransport.ContributionDTO{
		ContributionID: item.ContributionID,
		CaseID:         item.CaseID,
		ContributorID:  item.ContributorID,
		Amount:         item.Amount,
		Status:         string(item.Status),
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.Format(time.RFC3339),
	}
}

func parseEndDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}
	utc := parsed.UTC()
	return &utc, nil
}
