package interfaces

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

type GoalServiceInterface interface {
	CreateGoal(goal *domain.Goal) error
	GetGoal(goalID, userID string) (*domain.Goal, error)
	GetUserGoals(userID string) ([]domain.Goal, error)
	UpdateGoal(goal *domain.Goal) error
	DeleteGoal(goalID, userID string) error
}

type GoalHandler struct {
	service      GoalServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewGoalHandler(service GoalServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *GoalHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &GoalHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

type goalRequest struct {
	Name         string          `json:"nome"`
	TargetAmount decimal.Decimal `json:"valor_alvo"`
	Deadline     string          `json:"prazo"`
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid deadline format")
		return
	}

	goal := domain.Goal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
	}
	if err := h.service.CreateGoal(&goal); err != nil {
		status, message := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error during goal creation: %v", err)
		}
		h.respondError(w, status, message)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Goal successfully created.",
		"data":    goal,
	})
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	goal, err := h.service.GetGoal(r.PathValue("goalID"), userID)
	if err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   goal,
	})
}

func (h *GoalHandler) GetUserGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	goals, err := h.service.GetUserGoals(userID)
	if err != nil {
		log.Printf("Error listing goals: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve goals")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   goals,
	})
}

func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	goalID := r.PathValue("goalID")
	current, err := h.service.GetGoal(goalID, userID)
	if err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != "" {
		current.Name = req.Name
	}
	if !req.TargetAmount.IsZero() {
		current.TargetAmount = req.TargetAmount
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid deadline format")
			return
		}
		current.Deadline = deadline
	}

	if err := h.service.UpdateGoal(current); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Goal successfully updated.",
		"data":    current,
	})
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.service.DeleteGoal(r.PathValue("goalID"), userID); err != nil {
		status, message := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error during goal deletion: %v", err)
		}
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Goal successfully deleted.",
	})
}
