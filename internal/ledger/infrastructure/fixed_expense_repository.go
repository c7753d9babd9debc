package infrastructure

import (
	"database/sql"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type FixedExpenseRepository struct {
	db *sql.DB
}

func NewFixedExpenseRepository(db *sql.DB) *FixedExpenseRepository {
	return &FixedExpenseRepository{db: db}
}

func (r *FixedExpenseRepository) Save(fixedExpense domain.FixedExpense) error {
	_, err := r.db.Exec(
		`INSERT INTO gastos_fixos (id, user_id, categoria_id, nome, valor, dia_vencimento)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		fixedExpense.ID, fixedExpense.UserID, fixedExpense.CategoryID,
		fixedExpense.Name, fixedExpense.Amount, fixedExpense.DueDay,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("save fixed expense", err)
	}
	return nil
}

func (r *FixedExpenseRepository) FindByUser(userID string) ([]domain.FixedExpense, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, categoria_id, nome, valor, dia_vencimento
        FROM gastos_fixos WHERE user_id = $1 ORDER BY dia_vencimento`,
		userID,
	)
	if err != nil {
		return nil, ledgerErrors.NewStoreError("list fixed expenses", err)
	}
	defer rows.Close()

	var fixedExpenses []domain.FixedExpense
	for rows.Next() {
		var fixedExpense domain.FixedExpense
		if err := rows.Scan(&fixedExpense.ID, &fixedExpense.UserID, &fixedExpense.CategoryID,
			&fixedExpense.Name, &fixedExpense.Amount, &fixedExpense.DueDay); err != nil {
			return nil, ledgerErrors.NewStoreError("scan fixed expense", err)
		}
		fixedExpenses = append(fixedExpenses, fixedExpense)
	}
	return fixedExpenses, rows.Err()
}

func (r *FixedExpenseRepository) Update(fixedExpense domain.FixedExpense) error {
	result, err := r.db.Exec(
		`UPDATE gastos_fixos
        SET categoria_id = $1, nome = $2, valor = $3, dia_vencimento = $4
        WHERE id = $5 AND user_id = $6`,
		fixedExpense.CategoryID, fixedExpense.Name, fixedExpense.Amount,
		fixedExpense.DueDay, fixedExpense.ID, fixedExpense.UserID,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("update fixed expense", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("update fixed expense", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("fixed expense", fixedExpense.ID)
	}
	return nil
}

func (r *FixedExpenseRepository) Delete(fixedExpenseID, userID string) error {
	result, err := r.db.Exec(`DELETE FROM gastos_fixos WHERE id = $1 AND user_id = $2`, fixedExpenseID, userID)
	if err != nil {
		return ledgerErrors.NewStoreError("delete fixed expense", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("delete fixed expense", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("fixed expense", fixedExpenseID)
	}
	return nil
}
