package domain

import (
	"time"

	"github.com/shopspring/decimal"

	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

const (
	ExpenseTypeIncome  = "entrada"
	ExpenseTypeOutflow = "saida"
)

func IsValidExpenseType(expenseType string) bool {
	return expenseType == ExpenseTypeIncome || expenseType == ExpenseTypeOutflow
}

// Expense is a single variable transaction ("gasto variável"), optionally
// linked to a goal through GoalID.
type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Amount      decimal.Decimal `json:"valor"`
	Date        time.Time       `json:"data_gasto"`
	Type        string          `json:"tipo"`
	CategoryID  *string         `json:"categoria_id"`
	GoalID      *string         `json:"meta_id"`
}

func (e *Expense) RoundToTwoDecimalPlaces() {
	e.Amount = e.Amount.Round(2)
}

func (e *Expense) Validate() error {
	if e.Name == "" {
		return ledgerErrors.NewValidationError("Name must not be empty")
	}
	if !e.Amount.IsPositive() {
		return ledgerErrors.NewValidationError("Amount must be greater than zero")
	}
	if e.Date.IsZero() {
		return ledgerErrors.NewValidationError("Date is required")
	}
	if !IsValidExpenseType(e.Type) {
		return ledgerErrors.ErrInvalidExpenseType
	}
	if len(e.Description) > 200 {
		return ledgerErrors.NewValidationError("Description must be of length less than 200")
	}
	return nil
}

type ExpenseRepository interface {
	Save(tx Tx, expense Expense) error
	FindByID(expenseID, userID string) (*Expense, error)
	FindByUser(userID string, startDate, endDate time.Time) ([]Expense, error)
	Update(tx Tx, expense Expense) error
	Delete(tx Tx, expenseID, userID string) error
	// DetachFromGoal nulls meta_id on every expense linked to the goal.
	DetachFromGoal(tx Tx, goalID string) error
	// DetachOrphans nulls meta_id on expenses whose goal no longer exists
	// and returns the ids of the repaired rows.
	DetachOrphans() ([]string, error)
	BeginTransaction() (Tx, error)
}
