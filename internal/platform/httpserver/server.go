package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	caseservice "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service"
	casedomainerrors "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/domain/errors"
	casehttp "github.com/eslamene/Meen-Ma3ana-sub004/contexts/case-management/case-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/eslamene/Meen-Ma3ana-sub004/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	cases  caseservice.Module
}

func New(cases caseservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		cases:  cases,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/cases", s.handleCreateCase)
	s.mux.HandleFunc("GET /api/cases", s.handleListCases)
	s.mux.HandleFunc("GET /api/cases/{case_id}", s.handleGetCase)
	s.mux.HandleFunc("POST /api/cases/{case_id}/status", s.handleChangeStatus)
	s.mux.HandleFunc("GET /api/cases/{case_id}/history", s.handleListHistory)
	s.mux.HandleFunc("GET /api/cases/{case_id}/updates", s.handleListUpdates)
	s.mux.HandleFunc("GET /api/cases/{case_id}/transitions", s.handleAvailableTransitions)
	s.mux.HandleFunc("POST /api/cases/{case_id}/contributions", s.handleRecordContribution)
	s.mux.HandleFunc("POST /api/contributions/{contribution_id}/approve", s.handleApproveContribution)
}

func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCaseError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req casehttp.CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCaseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.cases.Handler.CreateCaseHandler(r.Context(), userID, req)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.cases.Handler.ListCasesHandler(
		r.Context(),
		query.Get("status"),
		query.Get("case_type"),
		query.Get("created_by"),
	)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("case_id")
	resp, err := s.cases.Handler.GetCaseHandler(r.Context(), caseID)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCaseError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req casehttp.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCaseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	caseID := r.PathValue("case_id")
	resp, err := s.cases.Handler.ChangeStatusHandler(r.Context(), userID, caseID, req)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("case_id")
	resp, err := s.cases.Handler.ListHistoryHandler(r.Context(), caseID)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("case_id")
	includeInternal := r.URL.Query().Get("include_internal") == "true"
	resp, err := s.cases.Handler.ListUpdatesHandler(r.Context(), caseID, includeInternal)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAvailableTransitions(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	caseID := r.PathValue("case_id")
	resp, err := s.cases.Handler.AvailableTransitionsHandler(r.Context(), userID, caseID)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordContribution(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCaseError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req casehttp.RecordContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCaseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	caseID := r.PathValue("case_id")
	resp, err := s.cases.Handler.RecordContributionHandler(r.Context(), userID, caseID, req)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleApproveContribution(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCaseError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	contributionID := r.PathValue("contribution_id")
	resp, err := s.cases.Handler.ApproveContributionHandler(r.Context(), userID, contributionID)
	if err != nil {
		writeCaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCaseDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, casedomainerrors.ErrCaseNotFound):
		writeCaseError(w, http.StatusNotFound, "case_not_found", err.Error())
	case errors.Is(err, casedomainerrors.ErrUserNotFound):
		writeCaseError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, casedomainerrors.ErrContributionNotFound):
		writeCaseError(w, http.StatusNotFound, "contribution_not_found", err.Error())
	case errors.Is(err, casedomainerrors.ErrInvalidStatusTransition):
		writeCaseError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, casedomainerrors.ErrCaseStatusConflict):
		writeCaseError(w, http.StatusConflict, "case_status_conflict", err.Error())
	case errors.Is(err, casedomainerrors.ErrContributionNotPending):
		writeCaseError(w, http.StatusConflict, "contribution_not_pending", err.Error())
	case errors.Is(err, casedomainerrors.ErrCaseNotAcceptingFunds):
		writeCaseError(w, http.StatusConflict, "case_not_accepting_funds", err.Error())
	case errors.Is(err, casedomainerrors.ErrReasonRequired):
		writeCaseError(w, http.StatusUnprocessableEntity, "reason_required", err.Error())
	case errors.Is(err, casedomainerrors.ErrInvalidCaseInput):
		writeCaseError(w, http.StatusBadRequest, "invalid_case_input", err.Error())
	case errors.Is(err, casedomainerrors.ErrInvalidContribution):
		writeCaseError(w, http.StatusBadRequest, "invalid_contribution", err.Error())
	default:
		writeCaseError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCaseError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, casehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
