package interfaces

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

type FixedExpenseServiceInterface interface {
	CreateFixedExpense(fixedExpense *domain.FixedExpense) error
	GetUserFixedExpenses(userID string) ([]domain.FixedExpense, error)
	UpdateFixedExpense(fixedExpense *domain.FixedExpense) error
	DeleteFixedExpense(fixedExpenseID, userID string) error
}

type FixedExpenseHandler struct {
	service      FixedExpenseServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewFixedExpenseHandler(service FixedExpenseServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *FixedExpenseHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &FixedExpenseHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

func (h *FixedExpenseHandler) CreateFixedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var fixedExpense domain.FixedExpense
	if err := json.NewDecoder(r.Body).Decode(&fixedExpense); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fixedExpense.UserID = userID
	if err := h.service.CreateFixedExpense(&fixedExpense); err != nil {
		status, message := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error during fixed expense creation: %v", err)
		}
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Fixed expense successfully created.",
		"data":    fixedExpense,
	})
}

func (h *FixedExpenseHandler) GetUserFixedExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	fixedExpenses, err := h.service.GetUserFixedExpenses(userID)
	if err != nil {
		log.Printf("Error listing fixed expenses: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve fixed expenses")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   fixedExpenses,
	})
}

func (h *FixedExpenseHandler) UpdateFixedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var fixedExpense domain.FixedExpense
	if err := json.NewDecoder(r.Body).Decode(&fixedExpense); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fixedExpense.ID = r.PathValue("fixedExpenseID")
	fixedExpense.UserID = userID
	if err := h.service.UpdateFixedExpense(&fixedExpense); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Fixed expense successfully updated.",
		"data":    fixedExpense,
	})
}

func (h *FixedExpenseHandler) DeleteFixedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.service.DeleteFixedExpense(r.PathValue("fixedExpenseID"), userID); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Fixed expense successfully deleted.",
	})
}
