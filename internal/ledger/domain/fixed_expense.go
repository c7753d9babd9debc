package domain

import (
	"github.com/shopspring/decimal"

	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

// FixedExpense is a recurring monthly charge ("gasto fixo").
type FixedExpense struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"nome"`
	Amount     decimal.Decimal `json:"valor"`
	DueDay     int             `json:"dia_vencimento"`
	CategoryID *string         `json:"categoria_id"`
}

func (f *FixedExpense) Validate() error {
	if f.Name == "" {
		return ledgerErrors.NewValidationError("Name must not be empty")
	}
	if !f.Amount.IsPositive() {
		return ledgerErrors.NewValidationError("Amount must be greater than zero")
	}
	if f.DueDay < 1 || f.DueDay > 31 {
		return ledgerErrors.NewValidationError("Due day must be between 1 and 31")
	}
	return nil
}

type FixedExpenseRepository interface {
	Save(fixedExpense FixedExpense) error
	FindByUser(userID string) ([]FixedExpense, error)
	Update(fixedExpense FixedExpense) error
	Delete(fixedExpenseID, userID string) error
}
