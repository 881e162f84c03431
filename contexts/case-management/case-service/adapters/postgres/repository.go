package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCase(ctx context.Context, item entities.Case) error {
	row := caseModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCaseInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetCase(ctx context.Context, caseID string) (entities.Case, error) {
	var row caseModel
	err := r.db.WithContext(ctx).
		Where("case_id = ?", strings.TrimSpace(caseID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Case{}, domainerrors.ErrCaseNotFound
		}
		return entities.Case{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCases(ctx context.Context, filter ports.CaseFilter) ([]entities.Case, error) {
	tx := r.db.WithContext(ctx).Model(&caseModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.CaseType != "" {
		tx = tx.Where("case_type = ?", string(filter.CaseType))
	}
	if strings.TrimSpace(filter.CreatedBy) != "" {
		tx = tx.Where("created_by = ?", strings.TrimSpace(filter.CreatedBy))
	}

	var rows []caseModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Case, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ApplyStatusChange runs the status write and history append in one
// transaction. The row is locked and re-checked against the expected from
// status, so two concurrent transitions cannot both win.
func (r *Repository) ApplyStatusChange(ctx context.Context, entry entities.StatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row caseModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("case_id = ?", strings.TrimSpace(entry.CaseID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCaseNotFound
			}
			return err
		}

		current, ok := entities.NormalizeStatus(row.Status)
		if !ok || current != entry.FromStatus {
			return domainerrors.ErrCaseStatusConflict
		}

		if err := tx.Model(&caseModel{}).
			Where("case_id = ?", row.CaseID).
			Updates(map[string]any{
				"status":     string(entry.ToStatus),
				"updated_at": entry.CreatedAt.UTC(),
			}).
			Error; err != nil {
			return err
		}

		historyRow := statusHistoryModel{
			HistoryID:       strings.TrimSpace(entry.HistoryID),
			CaseID:          row.CaseID,
			FromStatus:      string(entry.FromStatus),
			ToStatus:        string(entry.ToStatus),
			ChangedBy:       strings.TrimSpace(entry.ChangedBy),
			SystemTriggered: entry.SystemTriggered,
			ChangeReason:    strings.TrimSpace(entry.ChangeReason),
			CreatedAt:       entry.CreatedAt.UTC(),
		}
		if err := tx.Create(&historyRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrCaseStatusConflict
			}
			return err
		}
		return nil
	})
}

func (r *Repository) ListHistory(ctx context.Context, caseID string) ([]entities.StatusHistory, error) {
	var rows []statusHistoryModel
	if err := r.db.WithContext(ctx).
		Where("case_id = ?", strings.TrimSpace(caseID)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.StatusHistory, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return entities.User{
		UserID: row.UserID,
		Name:   row.Name,
		Role:   entities.Role(row.Role),
	}, nil
}

func (r *Repository) AddContribution(ctx context.Context, item entities.Contribution) error {
	row := contributionModel{
		ContributionID: strings.TrimSpace(item.ContributionID),
		CaseID:         strings.TrimSpace(item.CaseID),
		ContributorID:  strings.TrimSpace(item.ContributorID),
		Amount:         item.Amount,
		Status:         string(item.Status),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidContribution
		}
		return err
	}
	return nil
}

func (r *Repository) GetContribution(ctx context.Context, contributionID string) (entities.Contribution, error) {
	var row contributionModel
	err := r.db.WithContext(ctx).
		Where("contribution_id = ?", strings.TrimSpace(contributionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contribution{}, domainerrors.ErrContributionNotFound
		}
		return entities.Contribution{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ApproveContribution(ctx context.Context, contributionID string, now time.Time) (entities.Contribution, error) {
	var approved entities.Contribution
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row contributionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("contribution_id = ?", strings.TrimSpace(contributionID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrContributionNotFound
			}
			return err
		}
		if row.Status != string(entities.ContributionStatusPending) {
			return domainerrors.ErrContributionNotPending
		}

		if err := tx.Model(&contributionModel{}).
			Where("contribution_id = ?", row.ContributionID).
			Updates(map[string]any{
				"status":     string(entities.ContributionStatusApproved),
				"updated_at": now.UTC(),
			}).
			Error; err != nil {
			return err
		}

		result := tx.Model(&caseModel{}).
			Where("case_id = ?", row.CaseID).
			Updates(map[string]any{
				"current_amount": gorm.Expr("current_amount + ?", row.Amount),
				"updated_at":     now.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrCaseNotFound
		}

		row.Status = string(entities.ContributionStatusApproved)
		row.UpdatedAt = now.UTC()
		approved = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Contribution{}, err
	}
	return approved, nil
}

func (r *Repository) SumApprovedByCase(ctx context.Context, caseID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&contributionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("case_id = ? AND status = ?", strings.TrimSpace(caseID), string(entities.ContributionStatusApproved)).
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) ListContributorIDs(ctx context.Context, caseID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&contributionModel{}).
		Distinct("contributor_id").
		Where("case_id = ?", strings.TrimSpace(caseID)).
		Order("contributor_id ASC").
		Pluck("contributor_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) AddUpdate(ctx context.Context, item entities.CaseUpdate) error {
	row := caseUpdateModel{
		UpdateID:   strings.TrimSpace(item.UpdateID),
		CaseID:     strings.TrimSpace(item.CaseID),
		TitleEn:    item.TitleEn,
		TitleAr:    item.TitleAr,
		Content:    item.Content,
		UpdateType: string(item.UpdateType),
		Visibility: string(item.Visibility),
		CreatedBy:  strings.TrimSpace(item.CreatedBy),
		CreatedAt:  item.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCaseInput
		}
		return err
	}
	return nil
}

func (r *Repository) ListUpdates(ctx context.Context, caseID string, includeInternal bool) ([]entities.CaseUpdate, error) {
	tx := r.db.WithContext(ctx).
		Model(&caseUpdateModel{}).
		Where("case_id = ?", strings.TrimSpace(caseID))
	if !includeInternal {
		tx = tx.Where("visibility = ?", string(entities.VisibilityPublic))
	}

	var rows []caseUpdateModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.CaseUpdate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListRules(ctx context.Context, filter ports.RuleFilter) ([]entities.NotificationRule, error) {
	tx := r.db.WithContext(ctx).
		Model(&notificationRuleModel{}).
		Where("event = ?", string(filter.Event))
	if filter.Event == entities.NotificationEventFieldChanged {
		tx = tx.Where(
			"field = ? AND from_value = ? AND to_value = ?",
			strings.TrimSpace(filter.Field),
			strings.TrimSpace(filter.FromValue),
			strings.TrimSpace(filter.ToValue),
		)
	}

	var rows []notificationRuleModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.NotificationRule, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type caseModel struct {
	CaseID        string     `gorm:"column:case_id;primaryKey"`
	TitleEn       string     `gorm:"column:title_en"`
	TitleAr       string     `gorm:"column:title_ar"`
	Description   string     `gorm:"column:description"`
	CaseType      string     `gorm:"column:case_type"`
	Status        string     `gorm:"column:status"`
	TargetAmount  float64    `gorm:"column:target_amount"`
	CurrentAmount float64    `gorm:"column:current_amount"`
	CreatedBy     string     `gorm:"column:created_by"`
	AssignedTo    string     `gorm:"column:assigned_to"`
	SponsorID     string     `gorm:"column:sponsor_id"`
	BeneficiaryID string     `gorm:"column:beneficiary_id"`
	EndDate       *time.Time `gorm:"column:end_date"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (caseModel) TableName() string {
	return "cases"
}

func caseModelFromEntity(item entities.Case) caseModel {
	return caseModel{
		CaseID:        strings.TrimSpace(item.CaseID),
		TitleEn:       strings.TrimSpace(item.TitleEn),
		TitleAr:       strings.TrimSpace(item.TitleAr),
		Description:   strings.TrimSpace(item.Description),
		CaseType:      string(item.CaseType),
		Status:        string(item.Status),
		TargetAmount:  item.TargetAmount,
		CurrentAmount: item.CurrentAmount,
		CreatedBy:     strings.TrimSpace(item.CreatedBy),
		AssignedTo:    strings.TrimSpace(item.AssignedTo),
		SponsorID:     strings.TrimSpace(item.SponsorID),
		BeneficiaryID: strings.TrimSpace(item.BeneficiaryID),
		EndDate:       normalizeOptionalTime(item.EndDate),
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m caseModel) toEntity() entities.Case {
	return entities.Case{
		CaseID:        m.CaseID,
		TitleEn:       m.TitleEn,
		TitleAr:       m.TitleAr,
		Description:   m.Description,
		CaseType:      entities.CaseType(m.CaseType),
		Status:        entities.CaseStatus(m.Status),
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		CreatedBy:     m.CreatedBy,
		AssignedTo:    m.AssignedTo,
		SponsorID:     m.SponsorID,
		BeneficiaryID: m.BeneficiaryID,
		EndDate:       normalizeOptionalTime(m.EndDate),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type statusHistoryModel struct {
	HistoryID       string    `gorm:"column:history_id;primaryKey"`
	CaseID          string    `gorm:"column:case_id"`
	FromStatus      string    `gorm:"column:from_status"`
	ToStatus        string    `gorm:"column:to_status"`
	ChangedBy       string    `gorm:"column:changed_by"`
	SystemTriggered bool      `gorm:"column:system_triggered"`
	ChangeReason    string    `gorm:"column:change_reason"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (statusHistoryModel) TableName() string {
	return "case_status_history"
}

func (m statusHistoryModel) toEntity() entities.StatusHistory {
	return entities.StatusHistory{
		HistoryID:       m.HistoryID,
		CaseID:          m.CaseID,
		FromStatus:      entities.CaseStatus(m.FromStatus),
		ToStatus:        entities.CaseStatus(m.ToStatus),
		ChangedBy:       m.ChangedBy,
		SystemTriggered: m.SystemTriggered,
		ChangeReason:    m.ChangeReason,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}

type userModel struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	Name   string `gorm:"column:name"`
	Role   string `gorm:"column:role"`
}

func (userModel) TableName() string {
	return "users"
}

type contributionModel struct {
	ContributionID string    `gorm:"column:contribution_id;primaryKey"`
	CaseID         string    `gorm:"column:case_id"`
	ContributorID  string    `gorm:"column:contributor_id"`
	Amount         float64   `gorm:"column:amount"`
	Status         string    `gorm:"column:status"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (contributionModel) TableName() string {
	return "contributions"
}

func (m contributionModel) toEntity() entities.Contribution {
	return entities.Contribution{
		ContributionID: m.ContributionID,
		CaseID:         m.CaseID,
		ContributorID:  m.ContributorID,
		Amount:         m.Amount,
		Status:         entities.ContributionStatus(m.Status),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type caseUpdateModel struct {
	UpdateID   string    `gorm:"column:update_id;primaryKey"`
	CaseID     string    `gorm:"column:case_id"`
	TitleEn    string    `gorm:"column:title_en"`
	TitleAr    string    `gorm:"column:title_ar"`
	Content    string    `gorm:"column:content"`
	UpdateType string    `gorm:"column:update_type"`
	Visibility string    `gorm:"column:visibility"`
	CreatedBy  string    `gorm:"column:created_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (caseUpdateModel) TableName() string {
	return "case_updates"
}

func (m caseUpdateModel) toEntity() entities.CaseUpdate {
	return entities.CaseUpdate{
		UpdateID:   m.UpdateID,
		CaseID:     m.CaseID,
		TitleEn:    m.TitleEn,
		TitleAr:    m.TitleAr,
		Content:    m.Content,
		UpdateType: entities.UpdateType(m.UpdateType),
		Visibility: entities.UpdateVisibility(m.Visibility),
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type notificationRuleModel struct {
	RuleID                string `gorm:"column:rule_id;primaryKey"`
	Event                 string `gorm:"column:event"`
	Field                 string `gorm:"column:field"`
	FromValue             string `gorm:"column:from_value"`
	ToValue               string `gorm:"column:to_value"`
	Active                bool   `gorm:"column:active"`
	NotifyAllUsers        bool   `gorm:"column:notify_all_users"`
	NotifyCreator         bool   `gorm:"column:notify_creator"`
	NotifyContributors    bool   `gorm:"column:notify_contributors"`
	NotifyChangeInitiator bool   `gorm:"column:notify_change_initiator"`
	NotifyAssignedTo      bool   `gorm:"column:notify_assigned_to"`
	NotifySpecificUsers   string `gorm:"column:notify_specific_users"`
}

func (notificationRuleModel) TableName() string {
	return "notification_rules"
}

func (m notificationRuleModel) toEntity() entities.NotificationRule {
	return entities.NotificationRule{
		RuleID:                m.RuleID,
		Event:                 entities.NotificationEvent(m.Event),
		Field:                 m.Field,
		FromValue:             m.FromValue,
		ToValue:               m.ToValue,
		Active:                m.Active,
		NotifyAllUsers:        m.NotifyAllUsers,
		NotifyCreator:         m.NotifyCreator,
		NotifyContributors:    m.NotifyContributors,
		NotifyChangeInitiator: m.NotifyChangeInitiator,
		NotifyAssignedTo:      m.NotifyAssignedTo,
		NotifySpecificUsers:   splitUserList(m.NotifySpecificUsers),
	}
}

// notify_specific_users is stored as a comma separated list.
func splitUserList(raw string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if value := strings.TrimSpace(item); value != "" {
			items = append(items, value)
		}
	}
	return items
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
