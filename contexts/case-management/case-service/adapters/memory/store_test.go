package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
)

func seededStore(t *testing.T, status entities.CaseStatus) *Store {
	t.Helper()
	return NewStore(Seed{
		Cases: []entities.Case{{
			CaseID:       "case-1",
			TitleEn:      "School supplies",
			CaseType:     entities.CaseTypeOneTime,
			Status:       status,
			TargetAmount: 1000,
			CreatedBy:    "creator-1",
			CreatedAt:    time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		}},
	})
}

func TestApplyStatusChangeAtomicity(t *testing.T) {
	store := seededStore(t, entities.CaseStatusSubmitted)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	err := store.ApplyStatusChange(context.Background(), entities.StatusHistory{
		HistoryID:  "hist-1",
		CaseID:     "case-1",
		FromStatus: entities.CaseStatusSubmitted,
		ToStatus:   entities.CaseStatusPublished,
		ChangedBy:  "admin-1",
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("apply status change failed: %v", err)
	}

	item, err := store.GetCase(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("get case failed: %v", err)
	}
	if item.Status != entities.CaseStatusPublished {
		t.Fatalf("expected published, got %s", item.Status)
	}
	if !item.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at %v, got %v", now, item.UpdatedAt)
	}

	history, err := store.ListHistory(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 || history[0].HistoryID != "hist-1" {
		t.Fatalf("expected single history row, got %v", history)
	}
}

func TestApplyStatusChangeStaleFromStatus(t *testing.T) {
	store := seededStore(t, entities.CaseStatusPublished)

	err := store.ApplyStatusChange(context.Background(), entities.StatusHistory{
		HistoryID:  "hist-stale",
		CaseID:     "case-1",
		FromStatus: entities.CaseStatusSubmitted,
		ToStatus:   entities.CaseStatusPublished,
		CreatedAt:  time.Now().UTC(),
	})
	if !errors.Is(err, domainerrors.ErrCaseStatusConflict) {
		t.Fatalf("expected status conflict, got %v", err)
	}

	history, err := store.ListHistory(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("conflicting change must not append history, got %v", history)
	}
}

func TestListHistoryNewestFirst(t *testing.T) {
	store := seededStore(t, entities.CaseStatusDraft)
	base := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)

	steps := []struct {
		id   string
		from entities.CaseStatus
		to   entities.CaseStatus
	}{
		{"hist-1", entities.CaseStatusDraft, entities.CaseStatusSubmitted},
		{"hist-2", entities.CaseStatusSubmitted, entities.CaseStatusPublished},
		{"hist-3", entities.CaseStatusPublished, entities.CaseStatusClosed},
	}
	for i, step := range steps {
		err := store.ApplyStatusChange(context.Background(), entities.StatusHistory{
			HistoryID:  step.id,
			CaseID:     "case-1",
			FromStatus: step.from,
			ToStatus:   step.to,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("step %s failed: %v", step.id, err)
		}
	}

	history, err := store.ListHistory(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(history))
	}
	if history[0].HistoryID != "hist-3" || history[2].HistoryID != "hist-1" {
		t.Fatalf("expected newest first ordering, got %v", history)
	}
}

func TestApproveContributionCreditsCase(t *testing.T) {
	store := seededStore(t, entities.CaseStatusPublished)
	now := time.Now().UTC()

	err := store.AddContribution(context.Background(), entities.Contribution{
		ContributionID: "contrib-1",
		CaseID:         "case-1",
		ContributorID:  "donor-1",
		Amount:         250,
		Status:         entities.ContributionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("add contribution failed: %v", err)
	}

	total, err := store.SumApprovedByCase(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("sum approved failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("pending contribution must not count, got %v", total)
	}

	approved, err := store.ApproveContribution(context.Background(), "contrib-1", now)
	if err != nil {
		t.Fatalf("approve contribution failed: %v", err)
	}
	if approved.Status != entities.ContributionStatusApproved {
		t.Fatalf("expected approved status, got %s", approved.Status)
	}

	item, err := store.GetCase(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("get case failed: %v", err)
	}
	if item.CurrentAmount != 250 {
		t.Fatalf("expected current amount 250, got %v", item.CurrentAmount)
	}

	total, err = store.SumApprovedByCase(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("sum approved failed: %v", err)
	}
	if total != 250 {
		t.Fatalf("expected approved sum 250, got %v", total)
	}

	_, err = store.ApproveContribution(context.Background(), "contrib-1", now)
	if !errors.Is(err, domainerrors.ErrContributionNotPending) {
		t.Fatalf("second approval must fail with not pending, got %v", err)
	}
}

func TestListContributorIDsDeduplicates(t *testing.T) {
	store := seededStore(t, entities.CaseStatusPublished)
	now := time.Now().UTC()

	for i, contributor := range []string{"donor-1", "donor-2", "donor-1"} {
		err := store.AddContribution(context.Background(), entities.Contribution{
			ContributionID: "contrib-" + string(rune('a'+i)),
			CaseID:         "case-1",
			ContributorID:  contributor,
			Amount:         10,
			Status:         entities.ContributionStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			t.Fatalf("add contribution failed: %v", err)
		}
	}

	ids, err := store.ListContributorIDs(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("list contributor ids failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "donor-1" || ids[1] != "donor-2" {
		t.Fatalf("expected deduplicated sorted ids, got %v", ids)
	}
}
