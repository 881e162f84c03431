package entities

import "time"

// StatusHistory is an append-only audit record. Entries are written exactly
// once per successful transition and are never updated or deleted.
type StatusHistory struct {
	HistoryID       string
	CaseID          string
	FromStatus      CaseStatus
	ToStatus        CaseStatus
	ChangedBy       string
	SystemTriggered bool
	ChangeReason    string
	CreatedAt       time.Time
}

type UpdateType string
type UpdateVisibility string

const (
	UpdateTypeMilestone UpdateType = "milestone"
	UpdateTypeGeneral   UpdateType = "general"
	UpdateTypeProgress  UpdateType = "progress"

	VisibilityPublic   UpdateVisibility = "public"
	VisibilityInternal UpdateVisibility = "internal"
)

// CaseUpdate is a human-readable activity feed entry describing what happened
// to a case. Internal entries are hidden from donors.
type CaseUpdate struct {
	UpdateID   string
	CaseID     string
	TitleEn    string
	TitleAr    string
	Content    string
	UpdateType UpdateType
	Visibility UpdateVisibility
	CreatedBy  string
	CreatedAt  time.Time
}
