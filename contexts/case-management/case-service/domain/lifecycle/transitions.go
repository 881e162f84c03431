package lifecycle

import (
	"sort"

	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/entities"
)

// Transition is a single allowed edge in the case status machine.
type Transition struct {
	From           entities.CaseStatus
	To             entities.CaseStatus
	AllowedRoles   []entities.Role
	RequiresReason bool
	SystemAllowed  bool
}

type edge struct {
	from entities.CaseStatus
	to   entities.CaseStatus
}

// Policy holds the transition table. It is built once at process start and
// injected into use cases so tests can substitute alternate tables.
type Policy struct {
	rules map[edge]Transition
}

func NewPolicy(transitions []Transition) Policy {
	rules := make(map[edge]Transition, len(transitions))
	for _, item := range transitions {
		rules[edge{from: item.From, to: item.To}] = item
	}
	return Policy{rules: rules}
}

// DefaultPolicy is the production transition table. Only published->closed
// may be triggered unattended; every other edge needs a human actor.
func DefaultPolicy() Policy {
	allRoles := []entities.Role{entities.RoleDonor, entities.RoleSponsor, entities.RoleAdmin}
	adminOnly := []entities.Role{entities.RoleAdmin}

	return NewPolicy([]Transition{
		{From: entities.CaseStatusDraft, To: entities.CaseStatusSubmitted, AllowedRoles: allRoles},
		{From: entities.CaseStatusSubmitted, To: entities.CaseStatusPublished, AllowedRoles: adminOnly},
		{From: entities.CaseStatusSubmitted, To: entities.CaseStatusUnderReview, AllowedRoles: adminOnly, RequiresReason: true},
		{From: entities.CaseStatusUnderReview, To: entities.CaseStatusPublished, AllowedRoles: adminOnly},
		{From: entities.CaseStatusUnderReview, To: entities.CaseStatusClosed, AllowedRoles: adminOnly, RequiresReason: true},
		{From: entities.CaseStatusPublished, To: entities.CaseStatusClosed, AllowedRoles: adminOnly, SystemAllowed: true},
		{From: entities.CaseStatusPublished, To: entities.CaseStatusUnderReview, AllowedRoles: adminOnly, RequiresReason: true},
		{From: entities.CaseStatusClosed, To: entities.CaseStatusPublished, AllowedRoles: adminOnly, RequiresReason: true},
		{From: entities.CaseStatusClosed, To: entities.CaseStatusUnderReview, AllowedRoles: adminOnly, RequiresReason: true},
	})
}

// IsTransitionAllowed checks one edge. System-triggered changes ignore the
// actor role entirely; human changes need a role listed on the edge.
func (p Policy) IsTransitionAllowed(from, to entities.CaseStatus, role entities.Role, systemTriggered bool) bool {
	rule, exists := p.rules[edge{from: from, to: to}]
	if !exists {
		return false
	}
	if systemTriggered {
		return rule.SystemAllowed
	}
	if role == "" {
		return false
	}
	for _, allowed := range rule.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// RequiresReason reports whether the edge demands a free-text reason. A
// missing edge yields false; the legality check rejects it anyway.
func (p Policy) RequiresReason(from, to entities.CaseStatus) bool {
	rule, exists := p.rules[edge{from: from, to: to}]
	return exists && rule.RequiresReason
}

// AvailableTransitions lists the statuses reachable from the given one for
// the actor. Informational only; ChangeCaseStatus re-checks legality.
func (p Policy) AvailableTransitions(from entities.CaseStatus, role entities.Role, systemTriggered bool) []entities.CaseStatus {
	targets := make([]entities.CaseStatus, 0)
	for key := range p.rules {
		if key.from != from {
			continue
		}
		if p.IsTransitionAllowed(key.from, key.to, role, systemTriggered) {
			targets = append(targets, key.to)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}
