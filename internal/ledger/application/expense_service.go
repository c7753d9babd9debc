package application

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type CategoryServiceInterface interface {
	DoesCategoryExist(categoryID, userID string) (bool, error)
}

// ExpenseService owns the lifecycle of variable expenses. Every mutation that
// touches meta_id or valor runs the matching reconciler transition inside the
// same store transaction as the expense write, so the expense row and the
// goal balance either both change or neither does.
type ExpenseService struct {
	repo            domain.ExpenseRepository
	reconciler      *Reconciler
	categoryService CategoryServiceInterface
}

func NewExpenseService(repo domain.ExpenseRepository, reconciler *Reconciler, categoryService CategoryServiceInterface) *ExpenseService {
	return &ExpenseService{repo: repo, reconciler: reconciler, categoryService: categoryService}
}

func safeRollback(tx domain.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Printf("Error during transaction rollback: %v", err)
	}
}

func (s *ExpenseService) CreateExpense(expense *domain.Expense) (err error) {
	expense.ID = uuid.NewString()
	expense.RoundToTwoDecimalPlaces()
	if err := expense.Validate(); err != nil {
		return err
	}
	if err := s.checkCategory(expense); err != nil {
		return err
	}

	tx, err := s.repo.BeginTransaction()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			safeRollback(tx)
			panic(p)
		} else if err != nil {
			safeRollback(tx)
		} else {
			err = tx.Commit()
		}
	}()

	if err = s.repo.Save(tx, *expense); err != nil {
		return err
	}
	if expense.GoalID != nil {
		err = s.reconciler.OnExpenseLinked(tx, expense, *expense.GoalID)
	}
	return err
}

func (s *ExpenseService) GetUserExpenses(userID string, startDate, endDate time.Time) ([]domain.Expense, error) {
	expenses, err := s.repo.FindByUser(userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

func (s *ExpenseService) GetExpense(expenseID, userID string) (*domain.Expense, error) {
	return s.repo.FindByID(expenseID, userID)
}

// UpdateExpense applies the link state machine against the expense's prior
// stored values: unlink happens at the old value, link at the new one, and a
// same-goal value change collapses to a single delta.
func (s *ExpenseService) UpdateExpense(expense *domain.Expense) (err error) {
	expense.RoundToTwoDecimalPlaces()
	if err := expense.Validate(); err != nil {
		return err
	}
	if err := s.checkCategory(expense); err != nil {
		return err
	}

	prior, err := s.repo.FindByID(expense.ID, expense.UserID)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTransaction()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			safeRollback(tx)
			panic(p)
		} else if err != nil {
			safeRollback(tx)
		} else {
			err = tx.Commit()
		}
	}()

	if err = s.repo.Update(tx, *expense); err != nil {
		return err
	}

	switch {
	case prior.GoalID == nil && expense.GoalID != nil:
		err = s.reconciler.OnExpenseLinked(tx, expense, *expense.GoalID)
	case prior.GoalID != nil && expense.GoalID == nil:
		err = s.reconciler.OnExpenseUnlinked(tx, prior, *prior.GoalID)
	case prior.GoalID != nil && expense.GoalID != nil && *prior.GoalID != *expense.GoalID:
		if err = s.reconciler.OnExpenseUnlinked(tx, prior, *prior.GoalID); err != nil {
			return err
		}
		err = s.reconciler.OnExpenseLinked(tx, expense, *expense.GoalID)
	case prior.GoalID != nil && expense.GoalID != nil:
		err = s.reconciler.OnExpenseValueChanged(tx, expense, *expense.GoalID, prior.Amount, expense.Amount)
	}
	return err
}

func (s *ExpenseService) DeleteExpense(expenseID, userID string) (err error) {
	prior, err := s.repo.FindByID(expenseID, userID)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTransaction()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			safeRollback(tx)
			panic(p)
		} else if err != nil {
			safeRollback(tx)
		} else {
			err = tx.Commit()
		}
	}()

	if err = s.repo.Delete(tx, expenseID, userID); err != nil {
		return err
	}
	if prior.GoalID != nil {
		err = s.reconciler.OnExpenseUnlinked(tx, prior, *prior.GoalID)
	}
	return err
}

func (s *ExpenseService) checkCategory(expense *domain.Expense) error {
	if expense.CategoryID == nil {
		return nil
	}
	exists, err := s.categoryService.DoesCategoryExist(*expense.CategoryID, expense.UserID)
	if err != nil {
		return err
	}
	if !exists {
		return ledgerErrors.ErrInvalidCategory
	}
	return nil
}

// MonthTotals aggregates one calendar month of a user's variable
// transactions.
type MonthTotals struct {
	Year    int             `json:"ano"`
	Month   time.Month      `json:"mes"`
	Income  decimal.Decimal `json:"entradas"`
	Outflow decimal.Decimal `json:"saidas"`
}

// GetMonthlySummary computes per-month entrada/saida totals on demand from
// the store; nothing is cached between requests.
func (s *ExpenseService) GetMonthlySummary(userID string, startDate, endDate time.Time) ([]MonthTotals, error) {
	expenses, err := s.repo.FindByUser(userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*MonthTotals)
	var order []string
	for _, expense := range expenses {
		key := expense.Date.Format("2006-01")
		monthTotals, ok := totals[key]
		if !ok {
			monthTotals = &MonthTotals{
				Year:    expense.Date.Year(),
				Month:   expense.Date.Month(),
				Income:  decimal.Zero,
				Outflow: decimal.Zero,
			}
			totals[key] = monthTotals
			order = append(order, key)
		}
		if expense.Type == domain.ExpenseTypeIncome {
			monthTotals.Income = monthTotals.Income.Add(expense.Amount)
		} else {
			monthTotals.Outflow = monthTotals.Outflow.Add(expense.Amount)
		}
	}

	summary := make([]MonthTotals, 0, len(order))
	for _, key := range order {
		summary = append(summary, *totals[key])
	}
	return summary, nil
}
