package user

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength = 100
	minEmailLength = 3
	maxLoginLength = 30
	minLoginLength = 5
	bcryptCost     = 12

	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrInvalidEmail       = fmt.Errorf("email address is not valid")
	ErrEmailLength        = fmt.Errorf("email address is too long or too short, max length: %d, min length: %d", maxEmailLength, minEmailLength)
	ErrLoginLength        = fmt.Errorf("login is too long or too short, max length: %d, min length: %d", maxLoginLength, minLoginLength)
	ErrPasswordTooShort   = errors.New("password must have at least 8 characters")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrInternalError      = errors.New("internal Server Error")
	ErrInvalidOldPassword = errors.New("invalid old password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Login            string    `json:"login"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	HashToken        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Service interface {
	Register(email, login, password string) (*User, error)
	GetUserByID(userID string) (*User, error)
	GetUserByLoginOrEmail(loginOrEmail string) (*User, error)
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
	ListUsers() ([]User, error)
}

type service struct {
	repo Repository
}

func NewUserService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

// generateHashToken mints the per-user secret mixed into refresh tokens.
// Rotating it invalidates every refresh token issued so far.
func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %v", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	return nil
}

func (s *service) Register(email, login, password string) (*User, error) {
	err := validateEmailAddress(email)
	if err != nil {
		return nil, err
	}

	if len(login) == 0 {
		parts := strings.Split(email, "@")
		if len(parts) < 2 {
			return nil, ErrInvalidEmail
		}
		login = parts[0]
	} else if len(login) > maxLoginLength || len(login) < minLoginLength {
		return nil, ErrLoginLength
	}

	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	existingUser, err := s.repo.userExistsByLoginOrEmail(login, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		fmt.Println("Error with database request")
		return nil, ErrInternalError
	}

	if existingUser != nil {
		if existingUser.Login == login {
			return nil, ErrLoginAlreadyExists
		} else if existingUser.Email == email {
			return nil, ErrEmailAlreadyExists
		}
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		fmt.Println("Error during hashing the password")
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		fmt.Println("Error during generating a hashToken")
		return nil, ErrInternalError
	}

	user := &User{
		Email:        email,
		Login:        login,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		HashToken:    hashToken,
	}

	err = s.repo.createUser(user)
	if err != nil {
		fmt.Println("Error during creating the user: ", err)
		return nil, ErrInternalError
	}

	return user, nil
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !doPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}

	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return ErrInternalError
	}

	// new hash token revokes outstanding refresh tokens
	newHashToken, err := generateHashToken()
	if err != nil {
		return ErrInternalError
	}

	err = s.repo.updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken)
	if err != nil {
		return ErrInternalError
	}

	return nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	return s.repo.getUserByLoginOrEmail(loginOrEmail)
}

func (s *service) ListUsers() ([]User, error) {
	return s.repo.listUsers()
}
