package infrastructure

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Save(tx domain.Tx, expense domain.Expense) error {
	_, err := sqlTx(tx).Exec(
		`INSERT INTO gastos_variaveis
        (id, user_id, categoria_id, meta_id, nome, descricao, valor, data_gasto, tipo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID, expense.UserID, expense.CategoryID, expense.GoalID,
		expense.Name, expense.Description, expense.Amount, expense.Date, expense.Type,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("save expense", err)
	}
	return nil
}

func (r *ExpenseRepository) FindByID(expenseID, userID string) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.QueryRow(
		`SELECT id, user_id, categoria_id, meta_id, nome, COALESCE(descricao, ''), valor, data_gasto, tipo
        FROM gastos_variaveis WHERE id = $1 AND user_id = $2`,
		expenseID, userID,
	).Scan(&expense.ID, &expense.UserID, &expense.CategoryID, &expense.GoalID,
		&expense.Name, &expense.Description, &expense.Amount, &expense.Date, &expense.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledgerErrors.NewNotFoundError("expense", expenseID)
	}
	if err != nil {
		return nil, ledgerErrors.NewStoreError("find expense", err)
	}
	return &expense, nil
}

func (r *ExpenseRepository) FindByUser(userID string, startDate, endDate time.Time) ([]domain.Expense, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, categoria_id, meta_id, nome, COALESCE(descricao, ''), valor, data_gasto, tipo
        FROM gastos_variaveis
        WHERE user_id = $1 AND data_gasto BETWEEN $2 AND $3
        ORDER BY data_gasto DESC`,
		userID, startDate, endDate,
	)
	if err != nil {
		return nil, ledgerErrors.NewStoreError("list expenses", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(&expense.ID, &expense.UserID, &expense.CategoryID, &expense.GoalID,
			&expense.Name, &expense.Description, &expense.Amount, &expense.Date, &expense.Type); err != nil {
			return nil, ledgerErrors.NewStoreError("scan expense", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) Update(tx domain.Tx, expense domain.Expense) error {
	result, err := sqlTx(tx).Exec(
		`UPDATE gastos_variaveis
        SET categoria_id = $1, meta_id = $2, nome = $3, descricao = $4, valor = $5, data_gasto = $6, tipo = $7
        WHERE id = $8 AND user_id = $9`,
		expense.CategoryID, expense.GoalID, expense.Name, expense.Description,
		expense.Amount, expense.Date, expense.Type, expense.ID, expense.UserID,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("update expense", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("update expense", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("expense", expense.ID)
	}
	return nil
}

func (r *ExpenseRepository) Delete(tx domain.Tx, expenseID, userID string) error {
	result, err := sqlTx(tx).Exec(`DELETE FROM gastos_variaveis WHERE id = $1 AND user_id = $2`, expenseID, userID)
	if err != nil {
		return ledgerErrors.NewStoreError("delete expense", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("delete expense", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("expense", expenseID)
	}
	return nil
}

func (r *ExpenseRepository) DetachFromGoal(tx domain.Tx, goalID string) error {
	_, err := sqlTx(tx).Exec(`UPDATE gastos_variaveis SET meta_id = NULL WHERE meta_id = $1`, goalID)
	if err != nil {
		return ledgerErrors.NewStoreError("detach expenses", err)
	}
	return nil
}

// DetachOrphans repairs rows whose meta_id survived a goal delete through a
// code path that bypassed the FK constraint.
func (r *ExpenseRepository) DetachOrphans() ([]string, error) {
	rows, err := r.db.Query(
		`UPDATE gastos_variaveis e
        SET meta_id = NULL
        WHERE e.meta_id IS NOT NULL
          AND NOT EXISTS (SELECT 1 FROM metas m WHERE m.id = e.meta_id)
        RETURNING e.id`,
	)
	if err != nil {
		return nil, ledgerErrors.NewStoreError("detach orphan expenses", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, ledgerErrors.NewStoreError("scan orphan expense", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ExpenseRepository) BeginTransaction() (domain.Tx, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, ledgerErrors.NewStoreError("begin transaction", err)
	}
	return &pgTx{tx}, nil
}
