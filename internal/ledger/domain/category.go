package domain

import ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"

type Category struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"nome"`
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return ledgerErrors.NewValidationError("Name must not be empty")
	}
	if len(c.Name) > 60 {
		return ledgerErrors.NewValidationError("Name must be of length less than 60")
	}
	return nil
}

type CategoryRepository interface {
	Save(category Category) error
	FindByUser(userID string) ([]Category, error)
	ExistsForUser(categoryID, userID string) (bool, error)
	Update(category Category) error
	Delete(categoryID, userID string) error
}
