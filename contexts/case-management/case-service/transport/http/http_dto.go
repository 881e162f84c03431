package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCaseRequest struct {
	TitleEn       string  `json:"title_en"`
	TitleAr       string  `json:"title_ar"`
	Description   string  `json:"description"`
	CaseType      string  `json:"case_type"`
	TargetAmount  float64 `json:"target_amount"`
	SponsorID     string  `json:"sponsor_id"`
	BeneficiaryID string  `json:"beneficiary_id"`
	EndDate       string  `json:"end_date"`
}

type ChangeStatusRequest struct {
	NewStatus string `json:"new_status"`
	Reason    string `json:"reason"`
}

type RecordContributionRequest struct {
	Amount float64 `json:"amount"`
}

type CaseDTO struct {
	CaseID        string  `json:"case_id"`
	TitleEn       string  `json:"title_en"`
	TitleAr       string  `json:"title_ar"`
	Description   string  `json:"description"`
	CaseType      string  `json:"case_type"`
	Status        string  `json:"status"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	CreatedBy     string  `json:"created_by"`
	AssignedTo    string  `json:"assigned_to,omitempty"`
	SponsorID     string  `json:"sponsor_id,omitempty"`
	BeneficiaryID string  `json:"beneficiary_id,omitempty"`
	EndDate       string  `json:"end_date,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type CreateCaseResponse struct {
	Case CaseDTO `json:"case"`
}

type GetCaseResponse struct {
	Case CaseDTO `json:"case"`
}

type ListCasesResponse struct {
	Items []CaseDTO `json:"items"`
}

type ChangeStatusResponse struct {
	Case CaseDTO `json:"case"`
}

type StatusHistoryDTO struct {
	HistoryID       string `json:"history_id"`
	CaseID          string `json:"case_id"`
	FromStatus      string `json:"from_status"`
	ToStatus        string `json:"to_status"`
	ChangedBy       string `json:"changed_by,omitempty"`
	SystemTriggered bool   `json:"system_triggered"`
	ChangeReason    string `json:"change_reason,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type ListHistoryResponse struct {
	Items []StatusHistoryDTO `json:"items"`
}

type CaseUpdateDTO struct {
	UpdateID   string `json:"update_id"`
	CaseID     string `json:"case_id"`
	TitleEn    string `json:"title_en"`
	TitleAr    string `json:"title_ar"`
	Content    string `json:"content"`
	UpdateType string `json:"update_type"`
	Visibility string `json:"visibility"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  string `json:"created_at"`
}

type ListUpdatesResponse struct {
	Items []CaseUpdateDTO `json:"items"`
}

type ContributionDTO struct {
	ContributionID string  `json:"contribution_id"`
	CaseID         string  `json:"case_id"`
	ContributorID  string  `json:"contributor_id"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type ContributionResponse struct {
	Contribution ContributionDTO `json:"contribution"`
}

type AvailableTransitionsResponse struct {
	CaseID      string   `json:"case_id"`
	Transitions []string `json:"transitions"`
}
