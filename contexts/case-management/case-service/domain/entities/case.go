package entities

import (
	"strings"
	"time"
)

type CaseStatus string
type CaseType string
type Role string

const (
	CaseStatusDraft       CaseStatus = "draft"
	CaseStatusSubmitted   CaseStatus = "submitted"
	CaseStatusPublished   CaseStatus = "published"
	CaseStatusUnderReview CaseStatus = "under_review"
	CaseStatusClosed      CaseStatus = "closed"

	CaseTypeOneTime   CaseType = "one-time"
	CaseTypeRecurring CaseType = "recurring"

	RoleDonor   Role = "donor"
	RoleSponsor Role = "sponsor"
	RoleAdmin   Role = "admin"
)

type Case struct {
	CaseID        string
	TitleEn       string
	TitleAr       string
	Description   string
	CaseType      CaseType
	Status        CaseStatus
	TargetAmount  float64
	CurrentAmount float64
	CreatedBy     string
	AssignedTo    string
	SponsorID     string
	BeneficiaryID string
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeStatus maps a raw status value onto the canonical five-value set.
// Legacy callers still send "active", "completed" and "cancelled"; everything
// past this boundary operates on canonical values only.
func NormalizeStatus(value string) (CaseStatus, bool) {
	switch CaseStatus(strings.ToLower(strings.TrimSpace(value))) {
	case CaseStatusDraft:
		return CaseStatusDraft, true
	case CaseStatusSubmitted:
		return CaseStatusSubmitted, true
	case CaseStatusPublished, "active":
		return CaseStatusPublished, true
	case CaseStatusUnderReview:
		return CaseStatusUnderReview, true
	case CaseStatusClosed, "completed", "cancelled":
		return CaseStatusClosed, true
	default:
		return "", false
	}
}

func (c Case) ValidateBasics() bool {
	return strings.TrimSpace(c.TitleEn) != "" &&
		strings.TrimSpace(c.CreatedBy) != "" &&
		c.TargetAmount > 0 &&
		IsSupportedCaseType(c.CaseType)
}

func IsSupportedCaseType(value CaseType) bool {
	switch value {
	case CaseTypeOneTime, CaseTypeRecurring:
		return true
	default:
		return false
	}
}

func IsSupportedRole(value Role) bool {
	switch value {
	case RoleDonor, RoleSponsor, RoleAdmin:
		return true
	default:
		return false
	}
}
