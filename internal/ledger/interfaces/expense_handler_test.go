package interfaces

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

func storedExpense() *domain.Expense {
	goalID := "goal-1"
	return &domain.Expense{
		ID:     "expense-1",
		UserID: "user-1",
		Name:   "Mercado",
		Amount: decimal.RequireFromString("40.00"),
		Date:   time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		Type:   domain.ExpenseTypeOutflow,
		GoalID: &goalID,
	}
}

func TestCreateExpenseHandler(t *testing.T) {
	service := &MockExpenseService{}
	handler := NewExpenseHandler(service, respondJSON, respondError)

	req := authenticatedRequest(http.MethodPost, "/api/protected/gastos-variaveis",
		`{"nome":"Mercado","valor":100.00,"data_gasto":"2026-05-10","tipo":"saida","meta_id":"goal-1"}`)
	rec := httptest.NewRecorder()
	handler.CreateExpense(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotNil(t, service.Created)
	assert.Equal(t, "user-1", service.Created.UserID)
	assert.NotNil(t, service.Created.GoalID)
	assert.Equal(t, "goal-1", *service.Created.GoalID)
}

func TestCreateExpenseHandlerRejectsBadDate(t *testing.T) {
	handler := NewExpenseHandler(&MockExpenseService{}, respondJSON, respondError)

	req := authenticatedRequest(http.MethodPost, "/api/protected/gastos-variaveis",
		`{"nome":"Mercado","valor":100.00,"data_gasto":"10-05-2026","tipo":"saida"}`)
	rec := httptest.NewRecorder()
	handler.CreateExpense(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateExpenseHandlerUnlinksOnNullGoal(t *testing.T) {
	service := &MockExpenseService{Expense: storedExpense()}
	handler := NewExpenseHandler(service, respondJSON, respondError)

	req := authenticatedRequest(http.MethodPut, "/api/protected/gastos-variaveis/expense-1",
		`{"meta_id":null}`)
	req.SetPathValue("expenseID", "expense-1")
	rec := httptest.NewRecorder()
	handler.UpdateExpense(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, service.Updated)
	assert.Nil(t, service.Updated.GoalID)
	// untouched fields keep their stored values
	assert.Equal(t, "Mercado", service.Updated.Name)
}

func TestUpdateExpenseHandlerKeepsLinkWhenGoalAbsent(t *testing.T) {
	service := &MockExpenseService{Expense: storedExpense()}
	handler := NewExpenseHandler(service, respondJSON, respondError)

	req := authenticatedRequest(http.MethodPut, "/api/protected/gastos-variaveis/expense-1",
		`{"valor":65.00}`)
	req.SetPathValue("expenseID", "expense-1")
	rec := httptest.NewRecorder()
	handler.UpdateExpense(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, service.Updated)
	assert.NotNil(t, service.Updated.GoalID)
	assert.Equal(t, "goal-1", *service.Updated.GoalID)
	assert.True(t, service.Updated.Amount.Equal(decimal.RequireFromString("65.00")))
}

func TestUpdateExpenseHandlerRelinks(t *testing.T) {
	service := &MockExpenseService{Expense: storedExpense()}
	handler := NewExpenseHandler(service, respondJSON, respondError)

	req := authenticatedRequest(http.MethodPut, "/api/protected/gastos-variaveis/expense-1",
		`{"meta_id":"goal-2"}`)
	req.SetPathValue("expenseID", "expense-1")
	rec := httptest.NewRecorder()
	handler.UpdateExpense(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, service.Updated.GoalID)
	assert.Equal(t, "goal-2", *service.Updated.GoalID)
}

func TestUpdateExpenseHandlerNotFound(t *testing.T) {
	handler := NewExpenseHandler(&MockExpenseService{}, respondJSON, respondError)

	req := authenticatedRequest(http.MethodPut, "/api/protected/gastos-variaveis/missing",
		`{"valor":65.00}`)
	req.SetPathValue("expenseID", "missing")
	rec := httptest.NewRecorder()
	handler.UpdateExpense(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteExpenseHandler(t *testing.T) {
	service := &MockExpenseService{Expense: storedExpense()}
	handler := NewExpenseHandler(service, respondJSON, respondError)

	req := authenticatedRequest(http.MethodDelete, "/api/protected/gastos-variaveis/expense-1", "")
	req.SetPathValue("expenseID", "expense-1")
	rec := httptest.NewRecorder()
	handler.DeleteExpense(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "expense-1", service.DeletedID)
}
