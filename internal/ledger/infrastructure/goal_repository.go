package infrastructure

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type GoalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Save(goal domain.Goal) error {
	_, err := r.db.Exec(
		`INSERT INTO metas (id, user_id, nome, valor_alvo, valor_atual, prazo)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.Deadline,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("save goal", err)
	}
	return nil
}

func (r *GoalRepository) FindByID(goalID, userID string) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.db.QueryRow(
		`SELECT id, user_id, nome, valor_alvo, valor_atual, prazo, created_at
        FROM metas WHERE id = $1 AND user_id = $2`,
		goalID, userID,
	).Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount, &goal.Deadline, &goal.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledgerErrors.NewNotFoundError("goal", goalID)
	}
	if err != nil {
		return nil, ledgerErrors.NewStoreError("find goal", err)
	}
	return &goal, nil
}

func (r *GoalRepository) FindByUser(userID string) ([]domain.Goal, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, nome, valor_alvo, valor_atual, prazo, created_at
        FROM metas WHERE user_id = $1 ORDER BY prazo`,
		userID,
	)
	if err != nil {
		return nil, ledgerErrors.NewStoreError("list goals", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var goal domain.Goal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount, &goal.Deadline, &goal.CreatedAt); err != nil {
			return nil, ledgerErrors.NewStoreError("scan goal", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update touches the user-editable fields only. valor_atual belongs to the
// reconciler and is never written here.
func (r *GoalRepository) Update(goal domain.Goal) error {
	result, err := r.db.Exec(
		`UPDATE metas SET nome = $1, valor_alvo = $2, prazo = $3 WHERE id = $4 AND user_id = $5`,
		goal.Name, goal.TargetAmount, goal.Deadline, goal.ID, goal.UserID,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("update goal", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("update goal", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("goal", goal.ID)
	}
	return nil
}

func (r *GoalRepository) Delete(tx domain.Tx, goalID, userID string) error {
	result, err := sqlTx(tx).Exec(`DELETE FROM metas WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return ledgerErrors.NewStoreError("delete goal", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("delete goal", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("goal", goalID)
	}
	return nil
}

func (r *GoalRepository) ExistsForUser(tx domain.Tx, goalID, userID string) (bool, error) {
	var exists bool
	err := sqlTx(tx).QueryRow(
		`SELECT EXISTS (SELECT 1 FROM metas WHERE id = $1 AND user_id = $2)`,
		goalID, userID,
	).Scan(&exists)
	if err != nil {
		return false, ledgerErrors.NewStoreError("check goal", err)
	}
	return exists, nil
}

// ApplyDelta moves valor_atual by delta in a single relative UPDATE so that
// concurrent writers against the same goal cannot lose updates. The stored
// value is clamped at zero; callers compare previous+delta against the
// returned value to detect a clamp.
func (r *GoalRepository) ApplyDelta(tx domain.Tx, goalID string, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	var previous, current decimal.Decimal
	err := sqlTx(tx).QueryRow(
		`UPDATE metas m
        SET valor_atual = GREATEST(m.valor_atual + $1, 0)
        FROM (SELECT valor_atual FROM metas WHERE id = $2 FOR UPDATE) old
        WHERE m.id = $2
        RETURNING old.valor_atual, m.valor_atual`,
		delta, goalID,
	).Scan(&previous, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, decimal.Zero, ledgerErrors.NewNotFoundError("goal", goalID)
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, ledgerErrors.NewStoreError("apply goal delta", err)
	}
	return previous, current, nil
}

// Recompute overwrites valor_atual with the sum over currently linked
// expenses. Running it twice in a row writes the same value.
func (r *GoalRepository) Recompute(goalID string) (decimal.Decimal, error) {
	var current decimal.Decimal
	err := r.db.QueryRow(
		`UPDATE metas
        SET valor_atual = COALESCE(
            (SELECT SUM(valor) FROM gastos_variaveis WHERE meta_id = metas.id), 0)
        WHERE id = $1
        RETURNING valor_atual`,
		goalID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledgerErrors.NewNotFoundError("goal", goalID)
	}
	if err != nil {
		return decimal.Zero, ledgerErrors.NewStoreError("recompute goal", err)
	}
	return current, nil
}

func (r *GoalRepository) ListBalances() ([]domain.GoalBalance, error) {
	rows, err := r.db.Query(
		`SELECT m.id, m.valor_atual, COALESCE(SUM(e.valor), 0)
        FROM metas m
        LEFT JOIN gastos_variaveis e ON e.meta_id = m.id
        GROUP BY m.id, m.valor_atual`,
	)
	if err != nil {
		return nil, ledgerErrors.NewStoreError("list goal balances", err)
	}
	defer rows.Close()

	var balances []domain.GoalBalance
	for rows.Next() {
		var balance domain.GoalBalance
		if err := rows.Scan(&balance.GoalID, &balance.Stored, &balance.Computed); err != nil {
			return nil, ledgerErrors.NewStoreError("scan goal balance", err)
		}
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}

func (r *GoalRepository) BeginTransaction() (domain.Tx, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, ledgerErrors.NewStoreError("begin transaction", err)
	}
	return &pgTx{tx}, nil
}
