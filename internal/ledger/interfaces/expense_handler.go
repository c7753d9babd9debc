package interfaces

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpoliveira/controlefin/internal/ledger/application"
	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

type ExpenseServiceInterface interface {
	CreateExpense(expense *domain.Expense) error
	GetExpense(expenseID, userID string) (*domain.Expense, error)
	GetUserExpenses(userID string, startDate, endDate time.Time) ([]domain.Expense, error)
	UpdateExpense(expense *domain.Expense) error
	DeleteExpense(expenseID, userID string) error
	GetMonthlySummary(userID string, startDate, endDate time.Time) ([]application.MonthTotals, error)
}

type ExpenseHandler struct {
	service      ExpenseServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewExpenseHandler(service ExpenseServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *ExpenseHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &ExpenseHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

type expenseRequest struct {
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Amount      decimal.Decimal `json:"valor"`
	Date        string          `json:"data_gasto"`
	Type        string          `json:"tipo"`
	CategoryID  *string         `json:"categoria_id"`
	GoalID      *string         `json:"meta_id"`
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid date format")
		return
	}

	expense := domain.Expense{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		GoalID:      req.GoalID,
	}
	if err := h.service.CreateExpense(&expense); err != nil {
		status, message := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error during expense creation: %v", err)
		}
		h.respondError(w, status, message)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully created.",
		"data":    expense,
	})
}

func (h *ExpenseHandler) GetUserExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	startDate, endDate, err := dateRangeFromQuery(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.service.GetUserExpenses(userID, startDate, endDate)
	if err != nil {
		log.Printf("Error listing expenses: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve expenses")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   expenses,
	})
}

// UpdateExpense accepts a partial record. Only the fields present in the body
// change; "meta_id": null is an explicit unlink, while an absent meta_id
// keeps the current link.
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	expenseID := r.PathValue("expenseID")
	current, err := h.service.GetExpense(expenseID, userID)
	if err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := applyExpenseFields(current, fields); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateExpense(current); err != nil {
		status, message := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error during expense update: %v", err)
		}
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully updated.",
		"data":    current,
	})
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.service.DeleteExpense(r.PathValue("expenseID"), userID); err != nil {
		status, message := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error during expense deletion: %v", err)
		}
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully deleted.",
	})
}

func (h *ExpenseHandler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	startDate, endDate, err := dateRangeFromQuery(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.service.GetMonthlySummary(userID, startDate, endDate)
	if err != nil {
		log.Printf("Error building monthly summary: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve summary")
		return
	}
	if summary == nil {
		summary = []application.MonthTotals{}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

func applyExpenseFields(expense *domain.Expense, fields map[string]json.RawMessage) error {
	if raw, ok := fields["nome"]; ok {
		if err := json.Unmarshal(raw, &expense.Name); err != nil {
			return err
		}
	}
	if raw, ok := fields["descricao"]; ok {
		if err := json.Unmarshal(raw, &expense.Description); err != nil {
			return err
		}
	}
	if raw, ok := fields["valor"]; ok {
		if err := json.Unmarshal(raw, &expense.Amount); err != nil {
			return err
		}
	}
	if raw, ok := fields["tipo"]; ok {
		if err := json.Unmarshal(raw, &expense.Type); err != nil {
			return err
		}
	}
	if raw, ok := fields["data_gasto"]; ok {
		var dateStr string
		if err := json.Unmarshal(raw, &dateStr); err != nil {
			return err
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return err
		}
		expense.Date = date
	}
	if raw, ok := fields["categoria_id"]; ok {
		if err := json.Unmarshal(raw, &expense.CategoryID); err != nil {
			return err
		}
	}
	if raw, ok := fields["meta_id"]; ok {
		if err := json.Unmarshal(raw, &expense.GoalID); err != nil {
			return err
		}
	}
	return nil
}

func dateRangeFromQuery(r *http.Request) (time.Time, time.Time, error) {
	startDateStr := r.URL.Query().Get("start_date")
	endDateStr := r.URL.Query().Get("end_date")

	startDate := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Now()
	var err error

	if startDateStr != "" {
		startDate, err = time.Parse("2006-01-02", startDateStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endDateStr != "" {
		endDate, err = time.Parse("2006-01-02", endDateStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return startDate, endDate, nil
}
