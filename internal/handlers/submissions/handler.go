package submissions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/services/submission"
	"github.com/codecoffee/judge/internal/domain"
	"github.com/codecoffee/judge/internal/handlers/response"
	"github.com/codecoffee/judge/internal/static/errs"
	"github.com/codecoffee/judge/internal/workerpool"
)

// PoolMonitor exposes the worker pool snapshot to the status endpoint
type PoolMonitor interface {
	Status() workerpool.PoolStatus
}

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	service   submission.ISubmissionService
	pool      PoolMonitor
	languages []string
	logger    primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(
	service submission.ISubmissionService,
	pool PoolMonitor,
	languages []string,
	logger primary.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		service:   service,
		pool:      pool,
		languages: languages,
		logger:    logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/submissions", h.CreateSubmission).Methods("POST")
	router.HandleFunc("/api/submissions/{submissionId}", h.GetSubmission).Methods("GET")
	router.HandleFunc("/api/queue/status", h.QueueStatus).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")
}

// CreateSubmission handles both scored submissions and sample runs,
// selected by the mode query parameter (default submit)
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode submission request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request body", StatusCode: http.StatusBadRequest})
		return
	}
	if req.ProblemID == "" || req.Code == "" || req.Language == "" || req.UserID == "" {
		response.WriteError(w, response.ErrorMessage{
			Message:    "problemId, code, language and userId are required",
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	mode := domain.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = domain.ModeSubmit
	}
	if mode != domain.ModeRun && mode != domain.ModeSubmit {
		response.WriteError(w, response.ErrorMessage{
			Message:    fmt.Sprintf("unknown mode %q", mode),
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	var (
		id  string
		err error
	)
	if mode == domain.ModeRun {
		id, err = h.service.RunCode(r.Context(), req.UserID, req.ProblemID, req.Code, req.Language)
	} else {
		var subID uuid.UUID
		subID, err = h.service.SubmitCode(r.Context(), req.UserID, req.ProblemID, req.Code, req.Language)
		id = subID.String()
	}
	if err != nil {
		h.writeSubmitError(w, req, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, CreateSubmissionResponse{
		SubmissionID: id,
		Status:       domain.StatusPending,
		Message:      "Submission queued for judging",
	})
}

// GetSubmission handles submission retrieval requests
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["submissionId"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "Invalid submission id", StatusCode: http.StatusBadRequest})
		return
	}

	sub, problem, err := h.service.GetSubmission(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get submission", StatusCode: http.StatusInternalServerError})
		return
	}
	if sub == nil {
		response.WriteError(w, response.ErrorMessage{Message: "Submission not found", StatusCode: http.StatusNotFound})
		return
	}

	response.WriteJSON(w, http.StatusOK, newSubmissionResponse(sub, problem))
}

// QueueStatus handles queue visibility requests
func (h *SubmissionHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	length, err := h.service.QueueLength(r.Context())
	if err != nil {
		h.logger.Error("Failed to read queue length", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to read queue status", StatusCode: http.StatusInternalServerError})
		return
	}

	response.WriteJSON(w, http.StatusOK, QueueStatusResponse{
		QueueLength: length,
		Workers:     h.pool.Status(),
	})
}

// Health handles liveness requests
func (h *SubmissionHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SubmissionHandler) writeSubmitError(w http.ResponseWriter, req CreateSubmissionRequest, err error) {
	switch {
	case errors.Is(err, errs.ErrProblemNotFound):
		response.WriteError(w, response.ErrorMessage{
			Message:    fmt.Sprintf("Problem %s not found", req.ProblemID),
			StatusCode: http.StatusNotFound,
		})
	case errors.Is(err, errs.ErrUnsupportedLanguage):
		response.WriteError(w, response.ErrorMessage{
			Message:    fmt.Sprintf("Unsupported language: %s. Supported languages: %s", req.Language, strings.Join(h.languages, ", ")),
			StatusCode: http.StatusBadRequest,
		})
	default:
		h.logger.Error("Failed to create submission", "problemId", req.ProblemID, "error", err)
		response.WriteError(w, response.ErrorMessage{
			Message:    "Failed to create submission",
			StatusCode: http.StatusInternalServerError,
		})
	}
}
