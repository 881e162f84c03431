package entities

import "time"

type ContributionStatus string

const (
	ContributionStatusPending  ContributionStatus = "pending"
	ContributionStatusApproved ContributionStatus = "approved"
	ContributionStatusRejected ContributionStatus = "rejected"
)

// Contribution is a single donation toward a case. Only approved amounts
// count toward the case's current amount and goal closure.
type Contribution struct {
	ContributionID string
	CaseID         string
	ContributorID  string
	Amount         float64
	Status         ContributionStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
