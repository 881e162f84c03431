package entities

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want CaseStatus
		ok   bool
	}{
		{"draft", CaseStatusDraft, true},
		{"submitted", CaseStatusSubmitted, true},
		{"published", CaseStatusPublished, true},
		{"under_review", CaseStatusUnderReview, true},
		{"closed", CaseStatusClosed, true},
		{"active", CaseStatusPublished, true},
		{"completed", CaseStatusClosed, true},
		{"cancelled", CaseStatusClosed, true},
		{" Published ", CaseStatusPublished, true},
		{"ACTIVE", CaseStatusPublished, true},
		{"archived", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeStatus(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NormalizeStatus(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	for _, raw := range []string{"draft", "submitted", "active", "completed", "cancelled", "under_review"} {
		first, ok := NormalizeStatus(raw)
		if !ok {
			t.Fatalf("NormalizeStatus(%q) unexpectedly failed", raw)
		}
		second, ok := NormalizeStatus(string(first))
		if !ok || second != first {
			t.Errorf("normalizing %q twice gave %q then %q", raw, first, second)
		}
	}
}

func TestValidateBasics(t *testing.T) {
	base := Case{
		TitleEn:      "Winter blankets",
		CreatedBy:    "user-1",
		TargetAmount: 500,
		CaseType:     CaseTypeOneTime,
	}
	if !base.ValidateBasics() {
		t.Fatal("expected base case to validate")
	}

	missingTitle := base
	missingTitle.TitleEn = "  "
	if missingTitle.ValidateBasics() {
		t.Fatal("blank english title must fail validation")
	}

	missingCreator := base
	missingCreator.CreatedBy = ""
	if missingCreator.ValidateBasics() {
		t.Fatal("missing creator must fail validation")
	}

	zeroTarget := base
	zeroTarget.TargetAmount = 0
	if zeroTarget.ValidateBasics() {
		t.Fatal("zero target must fail validation")
	}

	badType := base
	badType.CaseType = "monthly"
	if badType.ValidateBasics() {
		t.Fatal("unsupported case type must fail validation")
	}
}
