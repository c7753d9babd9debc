package application

// MockCategoryService treats every category as existing unless Existing is
// set.
type MockCategoryService struct {
	Existing map[string]bool
}

func (m *MockCategoryService) DoesCategoryExist(categoryID, userID string) (bool, error) {
	if m.Existing == nil {
		return true, nil
	}
	return m.Existing[categoryID], nil
}
