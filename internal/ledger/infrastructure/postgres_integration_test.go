package infrastructure

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithInitScripts(filepath.Join("..", "..", "..", "db", "schema.sql")),
		tcpostgres.WithDatabase("controlefin_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertTestUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	userID := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO usuarios (id, email, login, password_hash, hash_token)
        VALUES ($1, $2, $3, 'x', 'x')`,
		userID, userID+"@example.com", "user_"+userID[:8],
	)
	require.NoError(t, err)
	return userID
}

func insertGoal(t *testing.T, repo *GoalRepository, userID, name, target string) domain.Goal {
	t.Helper()
	goal := domain.Goal{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         name,
		TargetAmount: decimal.RequireFromString(target),
		CurrentAmount: decimal.Zero,
		Deadline:     time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(goal))
	return goal
}

func linkedExpense(userID, amount string, goalID *string) domain.Expense {
	return domain.Expense{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   "Gasto",
		Amount: decimal.RequireFromString(amount),
		Date:   time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		Type:   domain.ExpenseTypeOutflow,
		GoalID: goalID,
	}
}

func TestPostgresApplyDeltaAndClamp(t *testing.T) {
	db := setupPostgres(t)
	goals := NewGoalRepository(db)
	userID := insertTestUser(t, db)
	goal := insertGoal(t, goals, userID, "Viagem", "1000.00")

	tx, err := goals.BeginTransaction()
	require.NoError(t, err)
	previous, current, err := goals.ApplyDelta(tx, goal.ID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.True(t, previous.IsZero())
	assert.True(t, current.Equal(decimal.RequireFromString("100.00")))

	// subtracting more than the stored balance clamps at zero
	tx, err = goals.BeginTransaction()
	require.NoError(t, err)
	previous, current, err = goals.ApplyDelta(tx, goal.ID, decimal.RequireFromString("-250.00"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.True(t, previous.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, current.IsZero())
}

func TestPostgresExpenseLinkLifecycle(t *testing.T) {
	db := setupPostgres(t)
	goals := NewGoalRepository(db)
	expenses := NewExpenseRepository(db)
	userID := insertTestUser(t, db)
	goal := insertGoal(t, goals, userID, "Viagem", "1000.00")

	expense := linkedExpense(userID, "100.00", &goal.ID)
	tx, err := expenses.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, expenses.Save(tx, expense))
	_, _, err = goals.ApplyDelta(tx, goal.ID, expense.Amount)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	stored, err := goals.FindByID(goal.ID, userID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentAmount.Equal(decimal.RequireFromString("100.00")))

	recomputed, err := goals.Recompute(goal.ID)
	require.NoError(t, err)
	assert.True(t, recomputed.Equal(decimal.RequireFromString("100.00")))

	again, err := goals.Recompute(goal.ID)
	require.NoError(t, err)
	assert.True(t, again.Equal(recomputed))
}

func TestPostgresGoalDeleteSetsExpenseNull(t *testing.T) {
	db := setupPostgres(t)
	goals := NewGoalRepository(db)
	expenses := NewExpenseRepository(db)
	userID := insertTestUser(t, db)
	goal := insertGoal(t, goals, userID, "Viagem", "1000.00")

	expense := linkedExpense(userID, "50.00", &goal.ID)
	tx, err := expenses.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, expenses.Save(tx, expense))
	require.NoError(t, tx.Commit())

	tx, err = goals.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, expenses.DetachFromGoal(tx, goal.ID))
	require.NoError(t, goals.Delete(tx, goal.ID, userID))
	require.NoError(t, tx.Commit())

	survivor, err := expenses.FindByID(expense.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, survivor.GoalID)
}

func TestPostgresListBalancesDetectsDrift(t *testing.T) {
	db := setupPostgres(t)
	goals := NewGoalRepository(db)
	expenses := NewExpenseRepository(db)
	userID := insertTestUser(t, db)
	goal := insertGoal(t, goals, userID, "Viagem", "1000.00")

	expense := linkedExpense(userID, "150.00", &goal.ID)
	tx, err := expenses.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, expenses.Save(tx, expense))
	require.NoError(t, tx.Commit())

	// drift the aggregate behind the API's back
	_, err = db.Exec(`UPDATE metas SET valor_atual = 999.99 WHERE id = $1`, goal.ID)
	require.NoError(t, err)

	balances, err := goals.ListBalances()
	require.NoError(t, err)
	var found bool
	for _, balance := range balances {
		if balance.GoalID == goal.ID {
			found = true
			assert.True(t, balance.Stored.Equal(decimal.RequireFromString("999.99")))
			assert.True(t, balance.Computed.Equal(decimal.RequireFromString("150.00")))
		}
	}
	assert.True(t, found)
}

func TestPostgresDetachOrphans(t *testing.T) {
	db := setupPostgres(t)
	goals := NewGoalRepository(db)
	expenses := NewExpenseRepository(db)
	userID := insertTestUser(t, db)
	goal := insertGoal(t, goals, userID, "Viagem", "1000.00")

	expense := linkedExpense(userID, "50.00", &goal.ID)
	tx, err := expenses.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, expenses.Save(tx, expense))
	require.NoError(t, tx.Commit())

	// simulate a write path that bypassed the FK constraint
	_, err = db.Exec(`ALTER TABLE gastos_variaveis DROP CONSTRAINT gastos_variaveis_meta_id_fkey`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM metas WHERE id = $1`, goal.ID)
	require.NoError(t, err)

	ids, err := expenses.DetachOrphans()
	require.NoError(t, err)
	assert.Equal(t, []string{expense.ID}, ids)

	survivor, err := expenses.FindByID(expense.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, survivor.GoalID)
}
