package unit

import (
	"context"
	"errors"
	"strings"
	"testing"

	caseservice "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/adapters/memory"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	httptransport "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/transport/http"
)

func caseModuleSeed() memory.Seed {
	return memory.Seed{
		Users: []entities.User{
			{UserID: "admin-1", Name: "Admin", Role: entities.RoleAdmin},
			{UserID: "donor-1", Name: "Donor", Role: entities.RoleDonor},
			{UserID: "sponsor-1", Name: "Sponsor", Role: entities.RoleSponsor},
		},
	}
}

func createDraftCase(t *testing.T, module caseservice.Module, creator string) string {
	t.Helper()
	created, err := module.Handler.CreateCaseHandler(context.Background(), creator, httptransport.CreateCaseRequest{
		TitleEn:      "Medical treatment for Omar",
		TitleAr:      "علاج طبي لعمر",
		Description:  "Urgent surgery costs",
		CaseType:     "one-time",
		TargetAmount: 2000,
	})
	if err != nil {
		t.Fatalf("create case failed: %v", err)
	}
	if created.Case.Status != "draft" {
		t.Fatalf("expected draft status on creation, got %s", created.Case.Status)
	}
	return created.Case.CaseID
}

func publishCase(t *testing.T, module caseservice.Module, caseID string) {
	t.Helper()
	_, err := module.Handler.ChangeStatusHandler(context.Background(), "donor-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "submitted",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	_, err = module.Handler.ChangeStatusHandler(context.Background(), "admin-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "published",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

func TestCasePublishFlow(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "donor-1")

	publishCase(t, module, caseID)

	fetched, err := module.Handler.GetCaseHandler(context.Background(), caseID)
	if err != nil {
		t.Fatalf("get case failed: %v", err)
	}
	if fetched.Case.Status != "published" {
		t.Fatalf("expected published, got %s", fetched.Case.Status)
	}

	history, err := module.Handler.ListHistoryHandler(context.Background(), caseID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history.Items) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history.Items))
	}
	if history.Items[0].ToStatus != "published" || history.Items[1].ToStatus != "submitted" {
		t.Fatalf("expected newest-first history, got %v", history.Items)
	}
	if history.Items[0].ChangedBy != "admin-1" {
		t.Fatalf("expected admin-1 as publisher, got %s", history.Items[0].ChangedBy)
	}

	updates, err := module.Handler.ListUpdatesHandler(context.Background(), caseID, false)
	if err != nil {
		t.Fatalf("list updates failed: %v", err)
	}
	if len(updates.Items) != 1 {
		t.Fatalf("expected a single public update, got %d", len(updates.Items))
	}
	if updates.Items[0].TitleEn != "Case published" || updates.Items[0].UpdateType != "milestone" {
		t.Fatalf("unexpected publish update: %v", updates.Items[0])
	}

	all, err := module.Handler.ListUpdatesHandler(context.Background(), caseID, true)
	if err != nil {
		t.Fatalf("list updates with internal failed: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("expected internal submit update to appear, got %d items", len(all.Items))
	}
}

func TestCaseStatusChangeRejectedForNonAdmin(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "donor-1")

	_, err := module.Handler.ChangeStatusHandler(context.Background(), "donor-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "published",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	fetched, err := module.Handler.GetCaseHandler(context.Background(), caseID)
	if err != nil {
		t.Fatalf("get case failed: %v", err)
	}
	if fetched.Case.Status != "draft" {
		t.Fatalf("rejected change must not move the case, got %s", fetched.Case.Status)
	}

	history, err := module.Handler.ListHistoryHandler(context.Background(), caseID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history.Items) != 0 {
		t.Fatalf("rejected change must not write history, got %v", history.Items)
	}
}

func TestCaseStatusChangeUnknownActor(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "donor-1")

	_, err := module.Handler.ChangeStatusHandler(context.Background(), "ghost-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "submitted",
	})
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestCaseStatusChangeReasonRequired(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "donor-1")

	_, err := module.Handler.ChangeStatusHandler(context.Background(), "donor-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "submitted",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = module.Handler.ChangeStatusHandler(context.Background(), "admin-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "under_review",
	})
	if !errors.Is(err, domainerrors.ErrReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}

	resp, err := module.Handler.ChangeStatusHandler(context.Background(), "admin-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "under_review",
		Reason:    "documents need verification",
	})
	if err != nil {
		t.Fatalf("review with reason failed: %v", err)
	}
	if resp.Case.Status != "under_review" {
		t.Fatalf("expected under_review, got %s", resp.Case.Status)
	}
}

func TestCaseStatusAliasesAccepted(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "donor-1")
	publishCase(t, module, caseID)

	resp, err := module.Handler.ChangeStatusHandler(context.Background(), "admin-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "completed",
	})
	if err != nil {
		t.Fatalf("close via completed alias failed: %v", err)
	}
	if resp.Case.Status != "closed" {
		t.Fatalf("completed alias must store closed, got %s", resp.Case.Status)
	}

	history, err := module.Handler.ListHistoryHandler(context.Background(), caseID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if history.Items[0].ToStatus != "closed" {
		t.Fatalf("history must carry canonical status, got %s", history.Items[0].ToStatus)
	}
}

func TestCaseStatusUnknownValueRejected(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "donor-1")

	_, err := module.Handler.ChangeStatusHandler(context.Background(), "donor-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "archived",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid transition for unknown status, got %v", err)
	}
}

func TestContributionFlow(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "sponsor-1")

	_, err := module.Handler.RecordContributionHandler(context.Background(), "donor-1", caseID, httptransport.RecordContributionRequest{
		Amount: 100,
	})
	if !errors.Is(err, domainerrors.ErrCaseNotAcceptingFunds) {
		t.Fatalf("draft case must not accept funds, got %v", err)
	}

	publishCase(t, module, caseID)

	recorded, err := module.Handler.RecordContributionHandler(context.Background(), "donor-1", caseID, httptransport.RecordContributionRequest{
		Amount: 100,
	})
	if err != nil {
		t.Fatalf("record contribution failed: %v", err)
	}
	if recorded.Contribution.Status != "pending" {
		t.Fatalf("expected pending contribution, got %s", recorded.Contribution.Status)
	}

	_, err = module.Handler.ApproveContributionHandler(context.Background(), "donor-1", recorded.Contribution.ContributionID)
	if !errors.Is(err, domainerrors.ErrInvalidContribution) {
		t.Fatalf("non-admin approval must fail, got %v", err)
	}

	approved, err := module.Handler.ApproveContributionHandler(context.Background(), "admin-1", recorded.Contribution.ContributionID)
	if err != nil {
		t.Fatalf("approve contribution failed: %v", err)
	}
	if approved.Contribution.Status != "approved" {
		t.Fatalf("expected approved contribution, got %s", approved.Contribution.Status)
	}

	fetched, err := module.Handler.GetCaseHandler(context.Background(), caseID)
	if err != nil {
		t.Fatalf("get case failed: %v", err)
	}
	if fetched.Case.CurrentAmount != 100 {
		t.Fatalf("expected current amount 100, got %v", fetched.Case.CurrentAmount)
	}
}

func TestListCasesStatusFilter(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	first := createDraftCase(t, module, "donor-1")
	second := createDraftCase(t, module, "sponsor-1")
	publishCase(t, module, second)

	published, err := module.Handler.ListCasesHandler(context.Background(), "active", "", "")
	if err != nil {
		t.Fatalf("list published failed: %v", err)
	}
	if len(published.Items) != 1 || published.Items[0].CaseID != second {
		t.Fatalf("expected only the published case, got %v", published.Items)
	}

	drafts, err := module.Handler.ListCasesHandler(context.Background(), "draft", "", "donor-1")
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if len(drafts.Items) != 1 || drafts.Items[0].CaseID != first {
		t.Fatalf("expected only the donor draft, got %v", drafts.Items)
	}

	unknown, err := module.Handler.ListCasesHandler(context.Background(), "archived", "", "")
	if err != nil {
		t.Fatalf("list with unknown status failed: %v", err)
	}
	if len(unknown.Items) != 0 {
		t.Fatalf("unknown status filter must match nothing, got %v", unknown.Items)
	}
}

func TestAvailableTransitionsByRole(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)
	caseID := createDraftCase(t, module, "donor-1")

	_, err := module.Handler.ChangeStatusHandler(context.Background(), "donor-1", caseID, httptransport.ChangeStatusRequest{
		NewStatus: "submitted",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	admin, err := module.Handler.AvailableTransitionsHandler(context.Background(), "admin-1", caseID)
	if err != nil {
		t.Fatalf("admin transitions failed: %v", err)
	}
	if strings.Join(admin.Transitions, ",") != "published,under_review" {
		t.Fatalf("unexpected admin transitions: %v", admin.Transitions)
	}

	donor, err := module.Handler.AvailableTransitionsHandler(context.Background(), "donor-1", caseID)
	if err != nil {
		t.Fatalf("donor transitions failed: %v", err)
	}
	if len(donor.Transitions) != 0 {
		t.Fatalf("expected no donor transitions from submitted, got %v", donor.Transitions)
	}
}

func TestCreateCaseValidation(t *testing.T) {
	module := caseservice.NewInMemoryModule(caseModuleSeed(), nil)

	_, err := module.Handler.CreateCaseHandler(context.Background(), "donor-1", httptransport.CreateCaseRequest{
		TitleEn:      "",
		TargetAmount: 100,
	})
	if !errors.Is(err, domainerrors.ErrInvalidCaseInput) {
		t.Fatalf("expected invalid case input, got %v", err)
	}

	_, err = module.Handler.CreateCaseHandler(context.Background(), "donor-1", httptransport.CreateCaseRequest{
		TitleEn:      "No target",
		TargetAmount: 0,
	})
	if !errors.Is(err, domainerrors.ErrInvalidCaseInput) {
		t.Fatalf("expected invalid case input for zero target, got %v", err)
	}
}
