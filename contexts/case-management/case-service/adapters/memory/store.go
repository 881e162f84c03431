package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
	domainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"

	"github.com/google/uuid"
)

// Seed is the initial dataset for an in-memory store.
type Seed struct {
	Cases []entities.Case
	Users []entities.User
	Rules []entities.NotificationRule
}

// SentNotification records one hand-off to the delivery channel.
type SentNotification struct {
	Method       string
	Notification ports.CaseNotification
}

type Store struct {
	mu sync.RWMutex

	cases         map[string]entities.Case
	users         map[string]entities.User
	rules         []entities.NotificationRule
	contributions map[string]entities.Contribution
	history       []entities.StatusHistory
	updates       []entities.CaseUpdate
	notifications []SentNotification
}

func NewStore(seed Seed) *Store {
	cases := make(map[string]entities.Case, len(seed.Cases))
	for _, item := range seed.Cases {
		cases[item.CaseID] = item
	}
	users := make(map[string]entities.User, len(seed.Users))
	for _, item := range seed.Users {
		users[item.UserID] = item
	}
	return &Store{
		cases:         cases,
		users:         users,
		rules:         append([]entities.NotificationRule(nil), seed.Rules...),
		contributions: make(map[string]entities.Contribution),
		history:       make([]entities.StatusHistory, 0),
		updates:       make([]entities.CaseUpdate, 0),
		notifications: make([]SentNotification, 0),
	}
}

func (s *Store) CreateCase(_ context.Context, item entities.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cases[item.CaseID]; exists {
		return domainerrors.ErrInvalidCaseInput
	}
	s.cases[item.CaseID] = item
	return nil
}

func (s *Store) GetCase(_ context.Context, caseID string) (entities.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.cases[strings.TrimSpace(caseID)]
	if !exists {
		return entities.Case{}, domainerrors.ErrCaseNotFound
	}
	return item, nil
}

func (s *Store) ListCases(_ context.Context, filter ports.CaseFilter) ([]entities.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Case, 0, len(s.cases))
	for _, item := range s.cases {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.CaseType != "" && item.CaseType != filter.CaseType {
			continue
		}
		if filter.CreatedBy != "" && item.CreatedBy != filter.CreatedBy {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ApplyStatusChange(_ context.Context, entry entities.StatusHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.cases[entry.CaseID]
	if !exists {
		return domainerrors.ErrCaseNotFound
	}
	current, ok := entities.NormalizeStatus(string(item.Status))
	if !ok || current != entry.FromStatus {
		return domainerrors.ErrCaseStatusConflict
	}

	item.Status = entry.ToStatus
	item.UpdatedAt = entry.CreatedAt
	s.cases[entry.CaseID] = item
	s.history = append(s.history, entry)
	return nil
}

func (s *Store) ListHistory(_ context.Context, caseID string) ([]entities.StatusHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.StatusHistory, 0)
	for _, entry := range s.history {
		if entry.CaseID == strings.TrimSpace(caseID) {
			items = append(items, entry)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.users[strings.TrimSpace(userID)]
	if !exists {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return item, nil
}

func (s *Store) AddContribution(_ context.Context, item entities.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contributions[item.ContributionID]; exists {
		return domainerrors.ErrInvalidContribution
	}
	if _, exists := s.cases[item.CaseID]; !exists {
		return domainerrors.ErrCaseNotFound
	}
	s.contributions[item.ContributionID] = item
	return nil
}

func (s *Store) GetContribution(_ context.Context, contributionID string) (entities.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.contributions[strings.TrimSpace(contributionID)]
	if !exists {
		return entities.Contribution{}, domainerrors.ErrContributionNotFound
	}
	return item, nil
}

func (s *Store) ApproveContribution(_ context.Context, contributionID string, now time.Time) (entities.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contribution, exists := s.contributions[strings.TrimSpace(contributionID)]
	if !exists {
		return entities.Contribution{}, domainerrors.ErrContributionNotFound
	}
	if contribution.Status != entities.ContributionStatusPending {
		return entities.Contribution{}, domainerrors.ErrContributionNotPending
	}
	item, exists := s.cases[contribution.CaseID]
	if !exists {
		return entities.Contribution{}, domainerrors.ErrCaseNotFound
	}

	contribution.Status = entities.ContributionStatusApproved
	contribution.UpdatedAt = now.UTC()
	s.contributions[contribution.ContributionID] = contribution

	item.CurrentAmount += contribution.Amount
	item.UpdatedAt = now.UTC()
	s.cases[item.CaseID] = item
	return contribution, nil
}

func (s *Store) SumApprovedByCase(_ context.Context, caseID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, item := range s.contributions {
		if item.CaseID == strings.TrimSpace(caseID) && item.Status == entities.ContributionStatusApproved {
			total += item.Amount
		}
	}
	return total, nil
}

func (s *Store) ListContributorIDs(_ context.Context, caseID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, item := range s.contributions {
		if item.CaseID != strings.TrimSpace(caseID) {
			continue
		}
		if _, exists := seen[item.ContributorID]; exists {
			continue
		}
		seen[item.ContributorID] = struct{}{}
		ids = append(ids, item.ContributorID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) AddUpdate(_ context.Context, item entities.CaseUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates = append(s.updates, item)
	return nil
}

func (s *Store) ListUpdates(_ context.Context, caseID string, includeInternal bool) ([]entities.CaseUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.CaseUpdate, 0)
	for _, item := range s.updates {
		if item.CaseID != strings.TrimSpace(caseID) {
			continue
		}
		if !includeInternal && item.Visibility == entities.VisibilityInternal {
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListRules(_ context.Context, filter ports.RuleFilter) ([]entities.NotificationRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.NotificationRule, 0)
	for _, rule := range s.rules {
		if rule.Event != filter.Event {
			continue
		}
		if filter.Event == entities.NotificationEventFieldChanged {
			if rule.Field != filter.Field || rule.FromValue != filter.FromValue || rule.ToValue != filter.ToValue {
				continue
			}
		}
		items = append(items, rule)
	}
	return items, nil
}

func (s *Store) NotifyCaseCreated(_ context.Context, notification ports.CaseNotification) error {
	return s.record("case_created", notification)
}

func (s *Store) NotifyCaseCompleted(_ context.Context, notification ports.CaseNotification) error {
	return s.record("case_completed", notification)
}

func (s *Store) NotifyCaseStatusChanged(_ context.Context, notification ports.CaseNotification) error {
	return s.record("case_status_changed", notification)
}

func (s *Store) record(method string, notification ports.CaseNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, SentNotification{
		Method:       method,
		Notification: notification,
	})
	return nil
}

// SentNotifications returns a copy of everything handed to the channel.
func (s *Store) SentNotifications() []SentNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]SentNotification(nil), s.notifications...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
