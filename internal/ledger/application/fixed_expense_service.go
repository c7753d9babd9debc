package application

import (
	"github.com/google/uuid"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type FixedExpenseService struct {
	repo            domain.FixedExpenseRepository
	categoryService CategoryServiceInterface
}

func NewFixedExpenseService(repo domain.FixedExpenseRepository, categoryService CategoryServiceInterface) *FixedExpenseService {
	return &FixedExpenseService{repo: repo, categoryService: categoryService}
}

func (s *FixedExpenseService) CreateFixedExpense(fixedExpense *domain.FixedExpense) error {
	fixedExpense.ID = uuid.NewString()
	fixedExpense.Amount = fixedExpense.Amount.Round(2)
	if err := fixedExpense.Validate(); err != nil {
		return err
	}
	if err := s.checkCategory(fixedExpense); err != nil {
		return err
	}
	return s.repo.Save(*fixedExpense)
}

func (s *FixedExpenseService) GetUserFixedExpenses(userID string) ([]domain.FixedExpense, error) {
	fixedExpenses, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if fixedExpenses == nil {
		return []domain.FixedExpense{}, nil
	}
	return fixedExpenses, nil
}

func (s *FixedExpenseService) UpdateFixedExpense(fixedExpense *domain.FixedExpense) error {
	fixedExpense.Amount = fixedExpense.Amount.Round(2)
	if err := fixedExpense.Validate(); err != nil {
		return err
	}
	if err := s.checkCategory(fixedExpense); err != nil {
		return err
	}
	return s.repo.Update(*fixedExpense)
}

func (s *FixedExpenseService) DeleteFixedExpense(fixedExpenseID, userID string) error {
	return s.repo.Delete(fixedExpenseID, userID)
}

func (s *FixedExpenseService) checkCategory(fixedExpense *domain.FixedExpense) error {
	if fixedExpense.CategoryID == nil {
		return nil
	}
	exists, err := s.categoryService.DoesCategoryExist(*fixedExpense.CategoryID, fixedExpense.UserID)
	if err != nil {
		return err
	}
	if !exists {
		return ledgerErrors.ErrInvalidCategory
	}
	return nil
}
