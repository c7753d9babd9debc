package infrastructure

import (
	"database/sql"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Save(category domain.Category) error {
	_, err := r.db.Exec(
		`INSERT INTO categorias (id, user_id, nome) VALUES ($1, $2, $3)`,
		category.ID, category.UserID, category.Name,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("save category", err)
	}
	return nil
}

func (r *CategoryRepository) FindByUser(userID string) ([]domain.Category, error) {
	rows, err := r.db.Query(`SELECT id, user_id, nome FROM categorias WHERE user_id = $1 ORDER BY nome`, userID)
	if err != nil {
		return nil, ledgerErrors.NewStoreError("list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name); err != nil {
			return nil, ledgerErrors.NewStoreError("scan category", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) ExistsForUser(categoryID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM categorias WHERE id = $1 AND user_id = $2)`,
		categoryID, userID,
	).Scan(&exists)
	if err != nil {
		return false, ledgerErrors.NewStoreError("check category", err)
	}
	return exists, nil
}

func (r *CategoryRepository) Update(category domain.Category) error {
	result, err := r.db.Exec(
		`UPDATE categorias SET nome = $1 WHERE id = $2 AND user_id = $3`,
		category.Name, category.ID, category.UserID,
	)
	if err != nil {
		return ledgerErrors.NewStoreError("update category", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("update category", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("category", category.ID)
	}
	return nil
}

func (r *CategoryRepository) Delete(categoryID, userID string) error {
	result, err := r.db.Exec(`DELETE FROM categorias WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return ledgerErrors.NewStoreError("delete category", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreError("delete category", err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError("category", categoryID)
	}
	return nil
}
