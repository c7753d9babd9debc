package application

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

func TestCreateExpenseRejectsInvalidInput(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name    string
		expense domain.Expense
	}{
		{"zero amount", domain.Expense{UserID: testUserID, Name: "Gasto", Amount: decimal.Zero, Date: time.Now(), Type: domain.ExpenseTypeOutflow}},
		{"negative amount", domain.Expense{UserID: testUserID, Name: "Gasto", Amount: decimal.RequireFromString("-5.00"), Date: time.Now(), Type: domain.ExpenseTypeOutflow}},
		{"missing name", domain.Expense{UserID: testUserID, Amount: decimal.RequireFromString("5.00"), Date: time.Now(), Type: domain.ExpenseTypeOutflow}},
		{"missing date", domain.Expense{UserID: testUserID, Name: "Gasto", Amount: decimal.RequireFromString("5.00"), Type: domain.ExpenseTypeOutflow}},
		{"bad type", domain.Expense{UserID: testUserID, Name: "Gasto", Amount: decimal.RequireFromString("5.00"), Date: time.Now(), Type: "transfer"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expense := c.expense
			err := f.expenseSvc.CreateExpense(&expense)
			assert.Error(t, err)
			assert.True(t, ledgerErrors.IsValidationError(err))
		})
	}
	assert.Empty(t, f.expenses.Expenses)
}

func TestCreateExpenseRejectsUnknownCategory(t *testing.T) {
	expenses := newFixture()
	expenses.expenseSvc = NewExpenseService(
		expenses.expenses,
		expenses.reconciler,
		&MockCategoryService{Existing: map[string]bool{"known": true}},
	)

	unknown := "unknown"
	expense := &domain.Expense{
		UserID:     testUserID,
		Name:       "Gasto",
		Amount:     decimal.RequireFromString("5.00"),
		Date:       time.Now(),
		Type:       domain.ExpenseTypeOutflow,
		CategoryID: &unknown,
	}
	err := expenses.expenseSvc.CreateExpense(expense)
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsValidationError(err))
}

func TestCreateExpenseRoundsAmount(t *testing.T) {
	f := newFixture()
	expense := &domain.Expense{
		UserID: testUserID,
		Name:   "Gasto",
		Amount: decimal.RequireFromString("10.005"),
		Date:   time.Now(),
		Type:   domain.ExpenseTypeIncome,
	}
	assert.NoError(t, f.expenseSvc.CreateExpense(expense))
	assert.True(t, expense.Amount.Equal(decimal.RequireFromString("10.01")))
}

func TestUpdateExpenseOfAnotherUserNotFound(t *testing.T) {
	f := newFixture()
	expense := f.createExpense(t, "20.00", nil)

	stolen := *expense
	stolen.UserID = "intruder"
	err := f.expenseSvc.UpdateExpense(&stolen)
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsNotFoundError(err))
}

func TestGoalBalanceNotWritableThroughCreate(t *testing.T) {
	f := newFixture()
	goal := &domain.Goal{
		UserID:        testUserID,
		Name:          "Meta",
		TargetAmount:  decimal.RequireFromString("100.00"),
		CurrentAmount: decimal.RequireFromString("55.00"),
		Deadline:      time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, f.goalSvc.CreateGoal(goal))
	assertAmount(t, "0.00", f.goalBalance(t, goal.ID))
}

func TestGetMonthlySummary(t *testing.T) {
	f := newFixture()
	mk := func(amount string, day int, month time.Month, expenseType string) {
		expense := &domain.Expense{
			UserID: testUserID,
			Name:   "Gasto",
			Amount: decimal.RequireFromString(amount),
			Date:   time.Date(2026, month, day, 0, 0, 0, 0, time.UTC),
			Type:   expenseType,
		}
		assert.NoError(t, f.expenseSvc.CreateExpense(expense))
	}
	mk("1500.00", 5, time.January, domain.ExpenseTypeIncome)
	mk("200.50", 10, time.January, domain.ExpenseTypeOutflow)
	mk("99.50", 20, time.January, domain.ExpenseTypeOutflow)
	mk("80.00", 3, time.February, domain.ExpenseTypeOutflow)

	summary, err := f.expenseSvc.GetMonthlySummary(testUserID,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Len(t, summary, 2)

	byMonth := make(map[time.Month]MonthTotals)
	for _, month := range summary {
		byMonth[month.Month] = month
	}
	assertAmount(t, "1500.00", byMonth[time.January].Income)
	assertAmount(t, "300.00", byMonth[time.January].Outflow)
	assertAmount(t, "80.00", byMonth[time.February].Outflow)
}
