package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	users   map[string]*User
	created *User
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: map[string]*User{}}
}

func (m *mockRepository) createUser(user *User) error {
	user.ID = "user-1"
	m.created = user
	m.users[user.ID] = user
	return nil
}

func (m *mockRepository) userExistsByLoginOrEmail(login, email string) (*User, error) {
	for _, u := range m.users {
		if u.Login == login || u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) getUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	for _, u := range m.users {
		if u.Login == loginOrEmail || u.Email == loginOrEmail {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) getUserByID(id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *mockRepository) updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = newPasswordHash
	u.HashToken = newHashToken
	return nil
}

func (m *mockRepository) listUsers() ([]User, error) {
	var all []User
	for _, u := range m.users {
		all = append(all, *u)
	}
	return all, nil
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo)

	created, err := svc.Register("joao@example.com", "joaosilva", "str0ngpass")
	assert.NoError(t, err)
	assert.Equal(t, RoleUser, created.Role)
	assert.NotEmpty(t, created.HashToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("str0ngpass")))
}

func TestRegisterDerivesLoginFromEmail(t *testing.T) {
	svc := NewUserService(newMockRepository())

	created, err := svc.Register("maria@example.com", "", "str0ngpass")
	assert.NoError(t, err)
	assert.Equal(t, "maria", created.Login)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		login    string
		password string
		wantErr  error
	}{
		{"bad email format", "not-an-email", "joaosilva", "str0ngpass", ErrInvalidEmail},
		{"login too short", "joao@example.com", "abc", "str0ngpass", ErrLoginLength},
		{"password too short", "joao@example.com", "joaosilva", "short", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUserService(newMockRepository()).Register(tt.email, tt.login, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo)

	_, err := svc.Register("joao@example.com", "joaosilva", "str0ngpass")
	assert.NoError(t, err)

	_, err = svc.Register("joao@example.com", "otherlogin", "str0ngpass")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = svc.Register("other@example.com", "joaosilva", "str0ngpass")
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)
}

func TestChangePasswordRotatesHashToken(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo)

	created, err := svc.Register("joao@example.com", "joaosilva", "str0ngpass")
	assert.NoError(t, err)
	oldHashToken := created.HashToken

	err = svc.ChangePasswordWithOldPassword(created.ID, "str0ngpass", "evenl0nger")
	assert.NoError(t, err)

	updated := repo.users[created.ID]
	assert.NotEqual(t, oldHashToken, updated.HashToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("evenl0nger")))
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo)

	created, err := svc.Register("joao@example.com", "joaosilva", "str0ngpass")
	assert.NoError(t, err)

	err = svc.ChangePasswordWithOldPassword(created.ID, "wrongpass", "evenl0nger")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)
}
