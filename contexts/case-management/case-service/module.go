package caseservice

import (
	"log/slog"

	httpadapter "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/adapters/http"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/adapters/memory"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/commands"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/notifications"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/queries"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/application/workers"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/lifecycle"
	"github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	GoalCloser workers.GoalCloser
	Store      *memory.Store
}

type Dependencies struct {
	Cases         ports.CaseRepository
	History       ports.HistoryRepository
	Users         ports.UserRepository
	Contributions ports.ContributionRepository
	Updates       ports.CaseUpdateRepository
	Rules         ports.NotificationRuleRepository
	Notifier      ports.Notifier
	Policy        lifecycle.Policy
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	matcher := notifications.RuleMatcher{
		Rules:  deps.Rules,
		Logger: deps.Logger,
	}
	dispatcher := notifications.Dispatcher{
		Contributions: deps.Contributions,
		Notifier:      deps.Notifier,
		Logger:        deps.Logger,
	}

	changeStatus := commands.ChangeCaseStatusUseCase{
		Cases:      deps.Cases,
		Users:      deps.Users,
		Updates:    deps.Updates,
		Policy:     deps.Policy,
		Matcher:    matcher,
		Dispatcher: dispatcher,
		Clock:      deps.Clock,
		IDGen:      deps.IDGenerator,
		Logger:     deps.Logger,
	}
	createCase := commands.CreateCaseUseCase{
		Cases:  deps.Cases,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	recordContribution := commands.RecordContributionUseCase{
		Cases:         deps.Cases,
		Contributions: deps.Contributions,
		Clock:         deps.Clock,
		IDGen:         deps.IDGenerator,
		Logger:        deps.Logger,
	}
	approveContribution := commands.ApproveContributionUseCase{
		Users:         deps.Users,
		Contributions: deps.Contributions,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
	}

	getCase := queries.GetCaseUseCase{
		Cases:  deps.Cases,
		Logger: deps.Logger,
	}
	listCases := queries.ListCasesUseCase{
		Cases:  deps.Cases,
		Logger: deps.Logger,
	}
	listHistory := queries.ListHistoryUseCase{
		History: deps.History,
		Logger:  deps.Logger,
	}
	listUpdates := queries.ListUpdatesUseCase{
		Updates: deps.Updates,
		Logger:  deps.Logger,
	}
	availableTransitions := queries.AvailableTransitionsUseCase{
		Cases:  deps.Cases,
		Users:  deps.Users,
		Policy: deps.Policy,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCase:           createCase,
			ChangeStatus:         changeStatus,
			RecordContribution:   recordContribution,
			ApproveContribution:  approveContribution,
			GetCase:              getCase,
			ListCases:            listCases,
			ListHistory:          listHistory,
			ListUpdates:          listUpdates,
			AvailableTransitions: availableTransitions,
			Logger:               deps.Logger,
		},
		GoalCloser: workers.GoalCloser{
			Cases:         deps.Cases,
			Contributions: deps.Contributions,
			ChangeStatus:  changeStatus,
			Clock:         deps.Clock,
			Logger:        deps.Logger,
		},
	}
}

func NewInMemoryModule(seed memory.Seed, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Cases:         store,
		History:       store,
		Users:         store,
		Contributions: store,
		Updates:       store,
		Rules:         store,
		Notifier:      store,
		Policy:        lifecycle.DefaultPolicy(),
		Clock:         store,
		IDGenerator:   store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
