package handler

import (
	"context"
	"encoding/json"
	"lawhealth/internal/apperr"
	"lawhealth/internal/model"
	"lawhealth/internal/service"
	"lawhealth/internal/transport/rest/middleware"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ComplianceAPI is the service surface the handler needs
type ComplianceAPI interface {
	DefaultCount() int
	GetQuestions(ctx context.Context, count int) (*service.QuestionSet, error)
	GetSelection(ctx context.Context, selectionID string) (*service.QuestionSet, error)
	RetakeQuestions(ctx context.Context, assessmentID, subjectID string) (*service.QuestionSet, error)
	Evaluate(ctx context.Context, subjectID string, in service.EvaluateInput) (*model.Assessment, error)
	GetHistory(ctx context.Context, subjectID string) ([]*model.Assessment, error)
	GetByID(ctx context.Context, assessmentID, subjectID string) (*model.Assessment, error)
	Domains() []service.DomainSummary
}

// ComplianceHandler handles Law Health Check endpoints
type ComplianceHandler struct {
	svc ComplianceAPI
	log *slog.Logger
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(svc ComplianceAPI, log *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{svc: svc, log: log}
}

type subjectRequest struct {
	DisplayName string `json:"displayName" validate:"max=200"`
	SizeTier    string `json:"sizeTier" validate:"omitempty,oneof=micro small medium large"`
}

type evaluateRequest struct {
	Answers     model.Answers  `json:"answers" validate:"required,min=1"`
	QuestionIDs []string       `json:"questionIds" validate:"required,min=1,max=500,dive,required"`
	Subject     subjectRequest `json:"subject"`
	SelectionID string         `json:"selectionId" validate:"max=64"`
}

// Questions handles GET /v1/lhc/questions?count=N
func (h *ComplianceHandler) Questions(w http.ResponseWriter, r *http.Request) {
	count := h.svc.DefaultCount()
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeAppError(w, apperr.New(apperr.CodeBadRequest, "count must be an integer"))
			return
		}
		count = n
	}

	set, err := h.svc.GetQuestions(r.Context(), count)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// Selection handles GET /v1/lhc/selections/{selectionId}
func (h *ComplianceHandler) Selection(w http.ResponseWriter, r *http.Request) {
	set, err := h.svc.GetSelection(r.Context(), mux.Vars(r)["selectionId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// Evaluate handles POST /v1/lhc/assessments
func (h *ComplianceHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, apperr.New(apperr.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateRequest(&req); err != nil {
		writeAppError(w, err)
		return
	}

	subject := model.SubjectContext{
		DisplayName: req.Subject.DisplayName,
		SizeTier:    model.SizeTier(req.Subject.SizeTier),
	}
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		if subject.DisplayName == "" {
			subject.DisplayName = claims.CompanyName
		}
		if subject.SizeTier == "" {
			subject.SizeTier = claims.SizeTier
		}
	}

	a, err := h.svc.Evaluate(r.Context(), userID, service.EvaluateInput{
		Answers:     req.Answers,
		QuestionIDs: req.QuestionIDs,
		Subject:     subject,
		SelectionID: req.SelectionID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// History handles GET /v1/lhc/assessments
func (h *ComplianceHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	history, err := h.svc.GetHistory(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Get handles GET /v1/lhc/assessments/{id}
func (h *ComplianceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	a, err := h.svc.GetByID(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Retake handles GET /v1/lhc/assessments/{id}/retake
func (h *ComplianceHandler) Retake(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	set, err := h.svc.RetakeQuestions(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// Domains handles GET /v1/lhc/domains
func (h *ComplianceHandler) Domains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Domains())
}

func (h *ComplianceHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.CodeOf(err) == apperr.CodeInternal {
		h.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeAppError(w, err)
}
