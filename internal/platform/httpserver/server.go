package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	electionservice "ballot/contexts/governance/election-service"
	"ballot/contexts/governance/election-service/domain/entities"
	domainerrors "ballot/contexts/governance/election-service/domain/errors"
	electionhttp "ballot/contexts/governance/election-service/transport/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "ballot/internal/platform/httpserver/docs"
)

const (
	moduleName   = "internal/platform/httpserver"
	callerHeader = "X-Caller-Address"
)

type Options struct {
	AllowedOrigins []string
	EnableSwagger  bool
}

type Server struct {
	mux       *http.ServeMux
	handler   http.Handler
	logger    *slog.Logger
	addr      string
	elections electionservice.Module
	options   Options
}

func New(
	elections electionservice.Module,
	options Options,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		elections: elections,
		options:   options,
	}
	s.registerRoutes()
	s.handler = cors.New(cors.Options{
		AllowedOrigins: options.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", callerHeader},
		MaxAge:         600,
	}).Handler(s.mux)
	return s
}

// Handler is the routed mux wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", moduleName,
		"layer", "platform",
		"addr", s.addr,
		"swagger_enabled", s.options.EnableSwagger,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", moduleName,
			"layer", "platform",
		)
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	if s.options.EnableSwagger {
		s.mux.Handle("/swagger/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/phase", s.handleGetPhase)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/winner", s.handleGetWinner)

	s.mux.HandleFunc("POST /v1/elections/{election_id}/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/voters/{address}", s.handleGetVoter)

	s.mux.HandleFunc("POST /v1/elections/{election_id}/proposals-registration/start",
		s.handleChangeStatus(entities.ProposalsRegistrationStarted))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/proposals-registration/end",
		s.handleChangeStatus(entities.ProposalsRegistrationEnded))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/voting-session/start",
		s.handleChangeStatus(entities.VotingSessionStarted))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/voting-session/end",
		s.handleChangeStatus(entities.VotingSessionEnded))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/tally",
		s.handleChangeStatus(entities.VotesTallied))

	s.mux.HandleFunc("POST /v1/elections/{election_id}/proposals", s.handleSubmitProposal)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/proposals", s.handleListProposals)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /v1/elections/{election_id}/votes", s.handleCastVote)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateElection godoc
// @Summary Create an election owned by the caller
// @Tags elections
// @Param X-Caller-Address header string true "caller address"
// @Param request body electionhttp.CreateElectionRequest true "election"
// @Success 201 {object} electionhttp.ElectionResponse
// @Router /v1/elections [post]
func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req electionhttp.CreateElectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPhase(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.WorkflowStatusHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetWinner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.WinnerHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRegisterVoter godoc
// @Summary Register a voter (administrator only, registering_voters phase)
// @Tags voters
// @Param X-Caller-Address header string true "caller address"
// @Param election_id path string true "election id"
// @Param request body electionhttp.RegisterVoterRequest true "voter"
// @Success 201 {object} electionhttp.VoterResponse
// @Router /v1/elections/{election_id}/voters [post]
func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req electionhttp.RegisterVoterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.elections.Handler.RegisterVoterHandler(r.Context(), r.PathValue("election_id"), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.GetVoterHandler(
		r.Context(),
		r.PathValue("election_id"),
		caller,
		r.PathValue("address"),
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeStatus(target entities.WorkflowStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		resp, err := s.elections.Handler.ChangeStatusHandler(r.Context(), r.PathValue("election_id"), caller, target)
		if err != nil {
			writeElectionDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleSubmitProposal godoc
// @Summary Submit a proposal (registered voter, proposals phase)
// @Tags proposals
// @Param X-Caller-Address header string true "caller address"
// @Param election_id path string true "election id"
// @Param request body electionhttp.SubmitProposalRequest true "proposal"
// @Success 201 {object} electionhttp.ProposalResponse
// @Router /v1/elections/{election_id}/proposals [post]
func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req electionhttp.SubmitProposalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.elections.Handler.SubmitProposalHandler(r.Context(), r.PathValue("election_id"), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.ListProposalsHandler(r.Context(), r.PathValue("election_id"), caller)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	proposalID, err := strconv.Atoi(r.PathValue("proposal_id"))
	if err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an integer")
		return
	}
	resp, err := s.elections.Handler.GetProposalHandler(r.Context(), r.PathValue("election_id"), caller, proposalID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCastVote godoc
// @Summary Cast the caller's single vote (registered voter, voting phase)
// @Tags votes
// @Param X-Caller-Address header string true "caller address"
// @Param election_id path string true "election id"
// @Param request body electionhttp.CastVoteRequest true "vote"
// @Success 200 {object} electionhttp.VoterResponse
// @Router /v1/elections/{election_id}/votes [post]
func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req electionhttp.CastVoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.elections.Handler.CastVoteHandler(r.Context(), r.PathValue("election_id"), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get(callerHeader))
	if caller == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_caller", callerHeader+" header is required")
		return "", false
	}
	return caller, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionhttp.ErrInvalidCaller):
		writeElectionError(w, http.StatusUnauthorized, "invalid_caller", err.Error())
	case errors.Is(err, domainerrors.ErrUnauthorized):
		writeElectionError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidPhase):
		writeElectionError(w, http.StatusConflict, "invalid_phase", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidState):
		writeElectionError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, domainerrors.ErrConflict):
		writeElectionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidInput),
		errors.Is(err, electionhttp.ErrInvalidAddress),
		errors.Is(err, electionhttp.ErrInvalidRequest):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrOutOfRange):
		writeElectionError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrElectionNotFound):
		writeElectionError(w, http.StatusNotFound, "election_not_found", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
