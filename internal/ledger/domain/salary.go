package domain

import (
	"github.com/shopspring/decimal"

	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

// Salary is one month's recorded income ("salário").
type Salary struct {
	ID     string          `json:"id"`
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"valor"`
	Month  int             `json:"mes"`
	Year   int             `json:"ano"`
}

func (s *Salary) Validate() error {
	if !s.Amount.IsPositive() {
		return ledgerErrors.NewValidationError("Amount must be greater than zero")
	}
	if s.Month < 1 || s.Month > 12 {
		return ledgerErrors.NewValidationError("Month must be between 1 and 12")
	}
	if s.Year < 2000 {
		return ledgerErrors.NewValidationError("Year must be 2000 or later")
	}
	return nil
}

type SalaryRepository interface {
	Save(salary Salary) error
	FindByUser(userID string) ([]Salary, error)
	Update(salary Salary) error
	Delete(salaryID, userID string) error
}
