package lifecycle

import (
	"testing"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
)

func TestDefaultPolicyAllowedEdges(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		name string
		from entities.CaseStatus
		to   entities.CaseStatus
		role entities.Role
	}{
		{"draft to submitted by donor", entities.CaseStatusDraft, entities.CaseStatusSubmitted, entities.RoleDonor},
		{"draft to submitted by sponsor", entities.CaseStatusDraft, entities.CaseStatusSubmitted, entities.RoleSponsor},
		{"draft to submitted by admin", entities.CaseStatusDraft, entities.CaseStatusSubmitted, entities.RoleAdmin},
		{"submitted to published by admin", entities.CaseStatusSubmitted, entities.CaseStatusPublished, entities.RoleAdmin},
		{"submitted to under_review by admin", entities.CaseStatusSubmitted, entities.CaseStatusUnderReview, entities.RoleAdmin},
		{"under_review to published by admin", entities.CaseStatusUnderReview, entities.CaseStatusPublished, entities.RoleAdmin},
		{"under_review to closed by admin", entities.CaseStatusUnderReview, entities.CaseStatusClosed, entities.RoleAdmin},
		{"published to closed by admin", entities.CaseStatusPublished, entities.CaseStatusClosed, entities.RoleAdmin},
		{"published to under_review by admin", entities.CaseStatusPublished, entities.CaseStatusUnderReview, entities.RoleAdmin},
		{"closed to published by admin", entities.CaseStatusClosed, entities.CaseStatusPublished, entities.RoleAdmin},
		{"closed to under_review by admin", entities.CaseStatusClosed, entities.CaseStatusUnderReview, entities.RoleAdmin},
	}
	for _, tc := range cases {
		if !policy.IsTransitionAllowed(tc.from, tc.to, tc.role, false) {
			t.Errorf("%s: expected transition to be allowed", tc.name)
		}
	}
}

func TestDefaultPolicyRejectsEdgesOutsideTable(t *testing.T) {
	policy := DefaultPolicy()
	statuses := []entities.CaseStatus{
		entities.CaseStatusDraft,
		entities.CaseStatusSubmitted,
		entities.CaseStatusPublished,
		entities.CaseStatusUnderReview,
		entities.CaseStatusClosed,
	}
	tablePairs := [][2]entities.CaseStatus{
		{entities.CaseStatusDraft, entities.CaseStatusSubmitted},
		{entities.CaseStatusSubmitted, entities.CaseStatusPublished},
		{entities.CaseStatusSubmitted, entities.CaseStatusUnderReview},
		{entities.CaseStatusUnderReview, entities.CaseStatusPublished},
		{entities.CaseStatusUnderReview, entities.CaseStatusClosed},
		{entities.CaseStatusPublished, entities.CaseStatusClosed},
		{entities.CaseStatusPublished, entities.CaseStatusUnderReview},
		{entities.CaseStatusClosed, entities.CaseStatusPublished},
		{entities.CaseStatusClosed, entities.CaseStatusUnderReview},
	}
	allowed := make(map[[2]entities.CaseStatus]bool, len(tablePairs))
	for _, pair := range tablePairs {
		allowed[pair] = true
	}

	for _, from := range statuses {
		for _, to := range statuses {
			if allowed[[2]entities.CaseStatus{from, to}] {
				continue
			}
			if policy.IsTransitionAllowed(from, to, entities.RoleAdmin, false) {
				t.Errorf("%s -> %s: expected rejection even for admin", from, to)
			}
			if policy.IsTransitionAllowed(from, to, "", true) {
				t.Errorf("%s -> %s: expected rejection for system trigger", from, to)
			}
		}
	}
}

func TestDefaultPolicyRoleGating(t *testing.T) {
	policy := DefaultPolicy()

	if policy.IsTransitionAllowed(entities.CaseStatusSubmitted, entities.CaseStatusPublished, entities.RoleDonor, false) {
		t.Fatal("donor must not publish a submitted case")
	}
	if policy.IsTransitionAllowed(entities.CaseStatusSubmitted, entities.CaseStatusPublished, entities.RoleSponsor, false) {
		t.Fatal("sponsor must not publish a submitted case")
	}
	if policy.IsTransitionAllowed(entities.CaseStatusDraft, entities.CaseStatusSubmitted, "", false) {
		t.Fatal("empty role must not pass role gating")
	}
}

func TestDefaultPolicySystemTrigger(t *testing.T) {
	policy := DefaultPolicy()

	if !policy.IsTransitionAllowed(entities.CaseStatusPublished, entities.CaseStatusClosed, "", true) {
		t.Fatal("system trigger must be able to close a published case")
	}
	if policy.IsTransitionAllowed(entities.CaseStatusSubmitted, entities.CaseStatusPublished, "", true) {
		t.Fatal("system trigger must not publish a submitted case")
	}
	if policy.IsTransitionAllowed(entities.CaseStatusDraft, entities.CaseStatusSubmitted, "", true) {
		t.Fatal("system trigger must not submit a draft case")
	}
}

func TestDefaultPolicyRequiresReason(t *testing.T) {
	policy := DefaultPolicy()

	withReason := [][2]entities.CaseStatus{
		{entities.CaseStatusSubmitted, entities.CaseStatusUnderReview},
		{entities.CaseStatusUnderReview, entities.CaseStatusClosed},
		{entities.CaseStatusPublished, entities.CaseStatusUnderReview},
		{entities.CaseStatusClosed, entities.CaseStatusPublished},
		{entities.CaseStatusClosed, entities.CaseStatusUnderReview},
	}
	for _, pair := range withReason {
		if !policy.RequiresReason(pair[0], pair[1]) {
			t.Errorf("%s -> %s: expected reason to be required", pair[0], pair[1])
		}
	}

	withoutReason := [][2]entities.CaseStatus{
		{entities.CaseStatusDraft, entities.CaseStatusSubmitted},
		{entities.CaseStatusSubmitted, entities.CaseStatusPublished},
		{entities.CaseStatusUnderReview, entities.CaseStatusPublished},
		{entities.CaseStatusPublished, entities.CaseStatusClosed},
	}
	for _, pair := range withoutReason {
		if policy.RequiresReason(pair[0], pair[1]) {
			t.Errorf("%s -> %s: expected no reason requirement", pair[0], pair[1])
		}
	}
}

func TestAvailableTransitions(t *testing.T) {
	policy := DefaultPolicy()

	adminFromSubmitted := policy.AvailableTransitions(entities.CaseStatusSubmitted, entities.RoleAdmin, false)
	if len(adminFromSubmitted) != 2 ||
		adminFromSubmitted[0] != entities.CaseStatusPublished ||
		adminFromSubmitted[1] != entities.CaseStatusUnderReview {
		t.Fatalf("unexpected admin transitions from submitted: %v", adminFromSubmitted)
	}

	donorFromSubmitted := policy.AvailableTransitions(entities.CaseStatusSubmitted, entities.RoleDonor, false)
	if len(donorFromSubmitted) != 0 {
		t.Fatalf("expected no donor transitions from submitted, got %v", donorFromSubmitted)
	}

	donorFromDraft := policy.AvailableTransitions(entities.CaseStatusDraft, entities.RoleDonor, false)
	if len(donorFromDraft) != 1 || donorFromDraft[0] != entities.CaseStatusSubmitted {
		t.Fatalf("unexpected donor transitions from draft: %v", donorFromDraft)
	}

	systemFromPublished := policy.AvailableTransitions(entities.CaseStatusPublished, "", true)
	if len(systemFromPublished) != 1 || systemFromPublished[0] != entities.CaseStatusClosed {
		t.Fatalf("unexpected system transitions from published: %v", systemFromPublished)
	}
}
