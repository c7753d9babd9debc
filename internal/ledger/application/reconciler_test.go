package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
	"github.com/rpoliveira/controlefin/internal/ledger/infrastructure"
)

const testUserID = "user-1"

type fixture struct {
	goals      *infrastructure.MockGoalRepository
	expenses   *infrastructure.MockExpenseRepository
	reconciler *Reconciler
	expenseSvc *ExpenseService
	goalSvc    *GoalService
}

func newFixture() *fixture {
	expenses := infrastructure.NewMockExpenseRepository()
	goals := infrastructure.NewMockGoalRepository(expenses)
	expenses.Goals = goals
	reconciler := NewReconciler(goals, expenses)
	return &fixture{
		goals:      goals,
		expenses:   expenses,
		reconciler: reconciler,
		expenseSvc: NewExpenseService(expenses, reconciler, &MockCategoryService{}),
		goalSvc:    NewGoalService(goals, expenses),
	}
}

func (f *fixture) createGoal(t *testing.T, name, target string) *domain.Goal {
	t.Helper()
	goal := &domain.Goal{
		UserID:       testUserID,
		Name:         name,
		TargetAmount: decimal.RequireFromString(target),
		Deadline:     time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, f.goalSvc.CreateGoal(goal))
	return goal
}

func (f *fixture) createExpense(t *testing.T, amount string, goalID *string) *domain.Expense {
	t.Helper()
	expense := &domain.Expense{
		UserID: testUserID,
		Name:   "Gasto",
		Amount: decimal.RequireFromString(amount),
		Date:   time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		Type:   domain.ExpenseTypeOutflow,
		GoalID: goalID,
	}
	assert.NoError(t, f.expenseSvc.CreateExpense(expense))
	return expense
}

func (f *fixture) goalBalance(t *testing.T, goalID string) decimal.Decimal {
	t.Helper()
	goal, err := f.goalSvc.GetGoal(goalID, testUserID)
	assert.NoError(t, err)
	return goal.CurrentAmount
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want := decimal.RequireFromString(expected)
	assert.True(t, want.Sub(actual).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01)),
		fmt.Sprintf("expected %s, got %s", want, actual))
}

func TestLinkThenUnlinkRestoresBalance(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Viagem", "1000.00")
	assertAmount(t, "0.00", f.goalBalance(t, goal.ID))

	expense := f.createExpense(t, "100.00", &goal.ID)
	assertAmount(t, "100.00", f.goalBalance(t, goal.ID))

	expense.GoalID = nil
	assert.NoError(t, f.expenseSvc.UpdateExpense(expense))
	assertAmount(t, "0.00", f.goalBalance(t, goal.ID))
}

func TestValueChangeAppliesDelta(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Reserva", "500.00")
	f.createExpense(t, "60.00", &goal.ID)
	expense := f.createExpense(t, "40.00", &goal.ID)
	assertAmount(t, "100.00", f.goalBalance(t, goal.ID))

	expense.Amount = decimal.RequireFromString("65.00")
	assert.NoError(t, f.expenseSvc.UpdateExpense(expense))
	assertAmount(t, "125.00", f.goalBalance(t, goal.ID))
}

func TestRelinkAcrossGoals(t *testing.T) {
	f := newFixture()
	goalA := f.createGoal(t, "Meta A", "300.00")
	goalB := f.createGoal(t, "Meta B", "300.00")
	expense := f.createExpense(t, "50.00", &goalA.ID)
	assertAmount(t, "50.00", f.goalBalance(t, goalA.ID))

	expense.GoalID = &goalB.ID
	assert.NoError(t, f.expenseSvc.UpdateExpense(expense))
	assertAmount(t, "0.00", f.goalBalance(t, goalA.ID))
	assertAmount(t, "50.00", f.goalBalance(t, goalB.ID))
}

func TestRelinkWithValueChangeUsesOldThenNewValue(t *testing.T) {
	f := newFixture()
	goalA := f.createGoal(t, "Meta A", "300.00")
	goalB := f.createGoal(t, "Meta B", "300.00")
	expense := f.createExpense(t, "50.00", &goalA.ID)

	expense.GoalID = &goalB.ID
	expense.Amount = decimal.RequireFromString("80.00")
	assert.NoError(t, f.expenseSvc.UpdateExpense(expense))
	assertAmount(t, "0.00", f.goalBalance(t, goalA.ID))
	assertAmount(t, "80.00", f.goalBalance(t, goalB.ID))
}

func TestDeleteLinkedExpenseUnlinks(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "200.00")
	expense := f.createExpense(t, "75.50", &goal.ID)
	assertAmount(t, "75.50", f.goalBalance(t, goal.ID))

	assert.NoError(t, f.expenseSvc.DeleteExpense(expense.ID, testUserID))
	assertAmount(t, "0.00", f.goalBalance(t, goal.ID))
}

func TestLinkToMissingGoalRejected(t *testing.T) {
	f := newFixture()
	missing := "does-not-exist"
	expense := &domain.Expense{
		UserID: testUserID,
		Name:   "Gasto",
		Amount: decimal.RequireFromString("10.00"),
		Date:   time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		Type:   domain.ExpenseTypeOutflow,
		GoalID: &missing,
	}
	err := f.expenseSvc.CreateExpense(expense)
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsNotFoundError(err))
	assert.True(t, f.expenses.LastTx.RolledBack)
}

func TestLinkToForeignGoalRejected(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "200.00")
	expense := &domain.Expense{
		UserID: "another-user",
		Name:   "Gasto",
		Amount: decimal.RequireFromString("10.00"),
		Date:   time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		Type:   domain.ExpenseTypeOutflow,
		GoalID: &goal.ID,
	}
	err := f.expenseSvc.CreateExpense(expense)
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsNotFoundError(err))
}

func TestReconcileGoalIsIdempotent(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "400.00")
	f.createExpense(t, "120.30", &goal.ID)
	f.createExpense(t, "79.70", &goal.ID)

	first, err := f.reconciler.ReconcileGoal(goal.ID)
	assert.NoError(t, err)
	second, err := f.reconciler.ReconcileGoal(goal.ID)
	assert.NoError(t, err)
	assertAmount(t, "200.00", first)
	assert.True(t, first.Equal(second))
}

func TestReconcileAllRepairsDrift(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "400.00")
	f.createExpense(t, "150.00", &goal.ID)

	// simulate drift from a write that bypassed the API
	f.goals.Goals[goal.ID].CurrentAmount = decimal.RequireFromString("999.99")

	drifts, err := f.reconciler.ReconcileAll()
	assert.NoError(t, err)
	assert.Len(t, drifts, 1)
	assertAmount(t, "999.99", drifts[0].Before)
	assertAmount(t, "150.00", drifts[0].After)
	assertAmount(t, "150.00", f.goalBalance(t, goal.ID))

	drifts, err = f.reconciler.ReconcileAll()
	assert.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestReconcileAllIgnoresEpsilonDifferences(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "400.00")
	f.createExpense(t, "150.00", &goal.ID)
	f.goals.Goals[goal.ID].CurrentAmount = decimal.RequireFromString("150.01")

	drifts, err := f.reconciler.ReconcileAll()
	assert.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestGoalDeleteDetachesExpenses(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "400.00")
	expense := f.createExpense(t, "90.00", &goal.ID)

	assert.NoError(t, f.goalSvc.DeleteGoal(goal.ID, testUserID))

	survivor, err := f.expenseSvc.GetExpense(expense.ID, testUserID)
	assert.NoError(t, err)
	assert.Nil(t, survivor.GoalID)
}

func TestFindOrphanExpensesDetachesDanglingReferences(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "400.00")
	expense := f.createExpense(t, "90.00", &goal.ID)

	// bypass the service and drop the goal directly
	delete(f.goals.Goals, goal.ID)

	report, err := f.reconciler.FindOrphanExpenses()
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Count)
	assert.Contains(t, report.ExpenseIDs, expense.ID)

	survivor, err := f.expenseSvc.GetExpense(expense.ID, testUserID)
	assert.NoError(t, err)
	assert.Nil(t, survivor.GoalID)

	report, err = f.reconciler.FindOrphanExpenses()
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Count)
}

func TestUnlinkClampsAtZero(t *testing.T) {
	f := newFixture()
	goal := f.createGoal(t, "Meta", "400.00")
	expense := f.createExpense(t, "90.00", &goal.ID)

	// drift the stored balance below the linked sum
	f.goals.Goals[goal.ID].CurrentAmount = decimal.RequireFromString("10.00")

	assert.NoError(t, f.expenseSvc.DeleteExpense(expense.ID, testUserID))
	assertAmount(t, "0.00", f.goalBalance(t, goal.ID))
}
