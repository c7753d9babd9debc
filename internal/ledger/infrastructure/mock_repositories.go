package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

// In-memory repositories for service-level tests. Transactions are recorded
// but writes apply immediately, which is enough for the paths the unit tests
// cover (failures are raised before any write happens).

type MockTx struct {
	Committed  bool
	RolledBack bool
	CommitErr  error
}

func (t *MockTx) Commit() error {
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback() error {
	t.RolledBack = true
	return nil
}

type MockGoalRepository struct {
	Goals    map[string]*domain.Goal
	Expenses *MockExpenseRepository
	LastTx   *MockTx
}

func NewMockGoalRepository(expenses *MockExpenseRepository) *MockGoalRepository {
	return &MockGoalRepository{Goals: make(map[string]*domain.Goal), Expenses: expenses}
}

func (m *MockGoalRepository) Save(goal domain.Goal) error {
	stored := goal
	m.Goals[goal.ID] = &stored
	return nil
}

func (m *MockGoalRepository) FindByID(goalID, userID string) (*domain.Goal, error) {
	goal, ok := m.Goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, ledgerErrors.NewNotFoundError("goal", goalID)
	}
	found := *goal
	return &found, nil
}

func (m *MockGoalRepository) FindByUser(userID string) ([]domain.Goal, error) {
	var goals []domain.Goal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			goals = append(goals, *goal)
		}
	}
	return goals, nil
}

func (m *MockGoalRepository) Update(goal domain.Goal) error {
	stored, ok := m.Goals[goal.ID]
	if !ok || stored.UserID != goal.UserID {
		return ledgerErrors.NewNotFoundError("goal", goal.ID)
	}
	stored.Name = goal.Name
	stored.TargetAmount = goal.TargetAmount
	stored.Deadline = goal.Deadline
	return nil
}

func (m *MockGoalRepository) Delete(_ domain.Tx, goalID, userID string) error {
	goal, ok := m.Goals[goalID]
	if !ok || goal.UserID != userID {
		return ledgerErrors.NewNotFoundError("goal", goalID)
	}
	delete(m.Goals, goalID)
	return nil
}

func (m *MockGoalRepository) ExistsForUser(_ domain.Tx, goalID, userID string) (bool, error) {
	goal, ok := m.Goals[goalID]
	return ok && goal.UserID == userID, nil
}

func (m *MockGoalRepository) ApplyDelta(_ domain.Tx, goalID string, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	goal, ok := m.Goals[goalID]
	if !ok {
		return decimal.Zero, decimal.Zero, ledgerErrors.NewNotFoundError("goal", goalID)
	}
	previous := goal.CurrentAmount
	current := previous.Add(delta)
	if current.IsNegative() {
		current = decimal.Zero
	}
	goal.CurrentAmount = current
	return previous, current, nil
}

func (m *MockGoalRepository) Recompute(goalID string) (decimal.Decimal, error) {
	goal, ok := m.Goals[goalID]
	if !ok {
		return decimal.Zero, ledgerErrors.NewNotFoundError("goal", goalID)
	}
	goal.CurrentAmount = m.sumLinked(goalID)
	return goal.CurrentAmount, nil
}

func (m *MockGoalRepository) ListBalances() ([]domain.GoalBalance, error) {
	var balances []domain.GoalBalance
	for id, goal := range m.Goals {
		balances = append(balances, domain.GoalBalance{
			GoalID:   id,
			Stored:   goal.CurrentAmount,
			Computed: m.sumLinked(id),
		})
	}
	return balances, nil
}

func (m *MockGoalRepository) BeginTransaction() (domain.Tx, error) {
	m.LastTx = &MockTx{}
	return m.LastTx, nil
}

func (m *MockGoalRepository) sumLinked(goalID string) decimal.Decimal {
	sum := decimal.Zero
	if m.Expenses == nil {
		return sum
	}
	for _, expense := range m.Expenses.Expenses {
		if expense.GoalID != nil && *expense.GoalID == goalID {
			sum = sum.Add(expense.Amount)
		}
	}
	return sum
}

type MockExpenseRepository struct {
	Expenses map[string]*domain.Expense
	Goals    *MockGoalRepository
	LastTx   *MockTx
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{Expenses: make(map[string]*domain.Expense)}
}

func (m *MockExpenseRepository) Save(_ domain.Tx, expense domain.Expense) error {
	stored := expense
	m.Expenses[expense.ID] = &stored
	return nil
}

func (m *MockExpenseRepository) FindByID(expenseID, userID string) (*domain.Expense, error) {
	expense, ok := m.Expenses[expenseID]
	if !ok || expense.UserID != userID {
		return nil, ledgerErrors.NewNotFoundError("expense", expenseID)
	}
	found := *expense
	return &found, nil
}

func (m *MockExpenseRepository) FindByUser(userID string, startDate, endDate time.Time) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID != userID {
			continue
		}
		if expense.Date.Before(startDate) || expense.Date.After(endDate) {
			continue
		}
		expenses = append(expenses, *expense)
	}
	return expenses, nil
}

func (m *MockExpenseRepository) Update(_ domain.Tx, expense domain.Expense) error {
	stored, ok := m.Expenses[expense.ID]
	if !ok || stored.UserID != expense.UserID {
		return ledgerErrors.NewNotFoundError("expense", expense.ID)
	}
	*stored = expense
	return nil
}

func (m *MockExpenseRepository) Delete(_ domain.Tx, expenseID, userID string) error {
	expense, ok := m.Expenses[expenseID]
	if !ok || expense.UserID != userID {
		return ledgerErrors.NewNotFoundError("expense", expenseID)
	}
	delete(m.Expenses, expenseID)
	return nil
}

func (m *MockExpenseRepository) DetachFromGoal(_ domain.Tx, goalID string) error {
	for _, expense := range m.Expenses {
		if expense.GoalID != nil && *expense.GoalID == goalID {
			expense.GoalID = nil
		}
	}
	return nil
}

func (m *MockExpenseRepository) DetachOrphans() ([]string, error) {
	var ids []string
	for id, expense := range m.Expenses {
		if expense.GoalID == nil {
			continue
		}
		if m.Goals == nil {
			continue
		}
		if _, ok := m.Goals.Goals[*expense.GoalID]; !ok {
			expense.GoalID = nil
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockExpenseRepository) BeginTransaction() (domain.Tx, error) {
	m.LastTx = &MockTx{}
	return m.LastTx, nil
}
