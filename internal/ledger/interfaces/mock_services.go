package interfaces

import (
	"time"

	"github.com/rpoliveira/controlefin/internal/ledger/application"
	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type MockGoalService struct {
	Goal      *domain.Goal
	Err       error
	Created   *domain.Goal
	Updated   *domain.Goal
	DeletedID string
}

func (m *MockGoalService) CreateGoal(goal *domain.Goal) error {
	if m.Err != nil {
		return m.Err
	}
	goal.ID = "goal-1"
	m.Created = goal
	return nil
}

func (m *MockGoalService) GetGoal(goalID, userID string) (*domain.Goal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Goal == nil || m.Goal.ID != goalID {
		return nil, ledgerErrors.NewNotFoundError("goal", goalID)
	}
	found := *m.Goal
	return &found, nil
}

func (m *MockGoalService) GetUserGoals(userID string) ([]domain.Goal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Goal == nil {
		return []domain.Goal{}, nil
	}
	return []domain.Goal{*m.Goal}, nil
}

func (m *MockGoalService) UpdateGoal(goal *domain.Goal) error {
	if m.Err != nil {
		return m.Err
	}
	m.Updated = goal
	return nil
}

func (m *MockGoalService) DeleteGoal(goalID, userID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.DeletedID = goalID
	return nil
}

type MockExpenseService struct {
	Expense   *domain.Expense
	Summary   []application.MonthTotals
	Err       error
	Created   *domain.Expense
	Updated   *domain.Expense
	DeletedID string
}

func (m *MockExpenseService) CreateExpense(expense *domain.Expense) error {
	if m.Err != nil {
		return m.Err
	}
	expense.ID = "expense-1"
	m.Created = expense
	return nil
}

func (m *MockExpenseService) GetExpense(expenseID, userID string) (*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Expense == nil || m.Expense.ID != expenseID {
		return nil, ledgerErrors.NewNotFoundError("expense", expenseID)
	}
	found := *m.Expense
	return &found, nil
}

func (m *MockExpenseService) GetUserExpenses(userID string, startDate, endDate time.Time) ([]domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Expense == nil {
		return []domain.Expense{}, nil
	}
	return []domain.Expense{*m.Expense}, nil
}

func (m *MockExpenseService) UpdateExpense(expense *domain.Expense) error {
	if m.Err != nil {
		return m.Err
	}
	m.Updated = expense
	return nil
}

func (m *MockExpenseService) DeleteExpense(expenseID, userID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.DeletedID = expenseID
	return nil
}

func (m *MockExpenseService) GetMonthlySummary(userID string, startDate, endDate time.Time) ([]application.MonthTotals, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Summary, nil
}
