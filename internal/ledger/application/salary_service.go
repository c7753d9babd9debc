package application

import (
	"github.com/google/uuid"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

type SalaryService struct {
	repo domain.SalaryRepository
}

func NewSalaryService(repo domain.SalaryRepository) *SalaryService {
	return &SalaryService{repo: repo}
}

func (s *SalaryService) CreateSalary(salary *domain.Salary) error {
	salary.ID = uuid.NewString()
	salary.Amount = salary.Amount.Round(2)
	if err := salary.Validate(); err != nil {
		return err
	}
	return s.repo.Save(*salary)
}

func (s *SalaryService) GetUserSalaries(userID string) ([]domain.Salary, error) {
	salaries, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if salaries == nil {
		return []domain.Salary{}, nil
	}
	return salaries, nil
}

func (s *SalaryService) UpdateSalary(salary *domain.Salary) error {
	salary.Amount = salary.Amount.Round(2)
	if err := salary.Validate(); err != nil {
		return err
	}
	return s.repo.Update(*salary)
}

func (s *SalaryService) DeleteSalary(salaryID, userID string) error {
	return s.repo.Delete(salaryID, userID)
}
