package domain

import (
	"time"

	"github.com/shopspring/decimal"

	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

// Goal is a savings target ("meta"). CurrentAmount is a maintained aggregate:
// at rest it equals the sum of Amount over all expenses linked to the goal.
type Goal struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"nome"`
	TargetAmount  decimal.Decimal `json:"valor_alvo"`
	CurrentAmount decimal.Decimal `json:"valor_atual"`
	Deadline      time.Time       `json:"prazo"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (g *Goal) Validate() error {
	if g.Name == "" {
		return ledgerErrors.NewValidationError("Name must not be empty")
	}
	if len(g.Name) > 100 {
		return ledgerErrors.NewValidationError("Name must be of length less than 100")
	}
	if !g.TargetAmount.IsPositive() {
		return ledgerErrors.NewValidationError("Target amount must be greater than zero")
	}
	if g.Deadline.IsZero() {
		return ledgerErrors.NewValidationError("Deadline is required")
	}
	return nil
}

// GoalBalance pairs a goal's stored aggregate with the value recomputed from
// its linked expenses.
type GoalBalance struct {
	GoalID   string
	Stored   decimal.Decimal
	Computed decimal.Decimal
}

type GoalRepository interface {
	Save(goal Goal) error
	FindByID(goalID, userID string) (*Goal, error)
	FindByUser(userID string) ([]Goal, error)
	Update(goal Goal) error
	Delete(tx Tx, goalID, userID string) error
	ExistsForUser(tx Tx, goalID, userID string) (bool, error)
	// ApplyDelta adds delta to the stored aggregate as a single relative
	// UPDATE, clamping at zero. It returns the previous and new values.
	ApplyDelta(tx Tx, goalID string, delta decimal.Decimal) (previous, current decimal.Decimal, err error)
	// Recompute overwrites the stored aggregate with the sum of linked
	// expense amounts and returns the written value.
	Recompute(goalID string) (decimal.Decimal, error)
	ListBalances() ([]GoalBalance, error)
	BeginTransaction() (Tx, error)
}
