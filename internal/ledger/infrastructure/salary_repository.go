package infrastructure

import (
	"database/sql"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type SalaryRepository struct {
	db *sql.DB
}

func NewSalaryRepository(db *sql.DB) *SalaryRepository {
	return &SalaryRepository{db: db}
}

func (r *SalaryRepository) Save(salary domain.Salary) error {
	_, err := r.db.Exec(
		`INSERT INTO salarios (id, user_id, valor, mes, ano) VALUES ($1, $2, $3, $4, $5)`,
		salary.ID, salary.UserID, salary.Amount, salary.Month, salary.Year,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("save salary", err)
	}
	return nil
}

func (r *SalaryRepository) FindByUser(userID string) ([]domain.Salary, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, valor, mes, ano FROM salarios
        WHERE user_id = $1 ORDER BY ano DESC, mes DESC`,
		userID,
	)
	if err != nil {
		return nil, ledgerErrors.NewStoreError("list salaries", err)
	}
	defer rows.Close()

	var salaries []domain.Salary
	for rows.Next() {
		var salary domain.Salary
		if err := rows.Scan(&salary.ID, &salary.UserID, &salary.Amount, &salary.Month, &salary.Year); err != nil {
			return nil, ledgerErrors.NewStoreError("scan salary", err)
		}
		salaries = append(salaries, salary)
	}
	return salaries, rows.Err()
}

func (r *SalaryRepository) Update(salary domain.Salary) error {
	result, err := r.db.Exec(
		`UPDATE salarios SET valor = $1, mes = $2, ano = $3 WHERE id = $4 AND user_id = $5`,
		salary.Amount, salary.Month, salary.Year, salary.ID, salary.UserID,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("update salary", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("update salary", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("salary", salary.ID)
	}
	return nil
}

func (r *SalaryRepository) Delete(salaryID, userID string) error {
	result, err := r.db.Exec(`DELETE FROM salarios WHERE id = $1 AND user_id = $2`, salaryID, userID)
	if err != nil {
		return ledgerErrors.NewStoreError("delete salary", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("delete salary", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("salary", salaryID)
	}
	return nil
}
