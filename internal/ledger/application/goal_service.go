package application

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

type GoalService struct {
	repo     domain.GoalRepository
	expenses domain.ExpenseRepository
}

func NewGoalService(repo domain.GoalRepository, expenses domain.ExpenseRepository) *GoalService {
	return &GoalService{repo: repo, expenses: expenses}
}

// CreateGoal stores a new goal. The accumulated balance always starts at
// zero, whatever the caller sent.
func (s *GoalService) CreateGoal(goal *domain.Goal) error {
	goal.ID = uuid.NewString()
	goal.TargetAmount = goal.TargetAmount.Round(2)
	goal.CurrentAmount = decimal.Zero
	if err := goal.Validate(); err != nil {
		return err
	}
	return s.repo.Save(*goal)
}

func (s *GoalService) GetGoal(goalID, userID string) (*domain.Goal, error) {
	return s.repo.FindByID(goalID, userID)
}

func (s *GoalService) GetUserGoals(userID string) ([]domain.Goal, error) {
	goals, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		return []domain.Goal{}, nil
	}
	return goals, nil
}

// UpdateGoal edits the target fields. valor_atual is reconciler-owned and is
// not writable here.
func (s *GoalService) UpdateGoal(goal *domain.Goal) error {
	goal.TargetAmount = goal.TargetAmount.Round(2)
	if err := goal.Validate(); err != nil {
		return err
	}
	return s.repo.Update(*goal)
}

// DeleteGoal detaches every linked expense before removing the goal row, in
// one transaction. Expenses are never cascade-deleted with their goal; the
// ON DELETE SET NULL constraint backs this up for writes that bypass the
// service.
func (s *GoalService) DeleteGoal(goalID, userID string) (err error) {
	tx, err := s.repo.BeginTransaction()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			safeRollback(tx)
			panic(p)
		} else if err != nil {
			safeRollback(tx)
		} else {
			err = tx.Commit()
		}
	}()

	if err = s.expenses.DetachFromGoal(tx, goalID); err != nil {
		return err
	}
	err = s.repo.Delete(tx, goalID, userID)
	return err
}
