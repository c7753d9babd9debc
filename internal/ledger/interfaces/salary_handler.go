package interfaces

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

type SalaryServiceInterface interface {
	CreateSalary(salary *domain.Salary) error
	GetUserSalaries(userID string) ([]domain.Salary, error)
	UpdateSalary(salary *domain.Salary) error
	DeleteSalary(salaryID, userID string) error
}

type SalaryHandler struct {
	service      SalaryServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewSalaryHandler(service SalaryServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *SalaryHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &SalaryHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

func (h *SalaryHandler) CreateSalary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var salary domain.Salary
	if err := json.NewDecoder(r.Body).Decode(&salary); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	salary.UserID = userID
	if err := h.service.CreateSalary(&salary); err != nil {
		status, message := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error during salary creation: %v", err)
		}
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Salary successfully created.",
		"data":    salary,
	})
}

func (h *SalaryHandler) GetUserSalaries(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	salaries, err := h.service.GetUserSalaries(userID)
	if err != nil {
		log.Printf("Error listing salaries: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve salaries")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   salaries,
	})
}

func (h *SalaryHandler) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var salary domain.Salary
	if err := json.NewDecoder(r.Body).Decode(&salary); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	salary.ID = r.PathValue("salaryID")
	salary.UserID = userID
	if err := h.service.UpdateSalary(&salary); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Salary successfully updated.",
		"data":    salary,
	})
}

func (h *SalaryHandler) DeleteSalary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.service.DeleteSalary(r.PathValue("salaryID"), userID); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Salary successfully deleted.",
	})
}
