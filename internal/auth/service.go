package auth

import (
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/rpoliveira/controlefin/internal/user"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInternalError         = errors.New("internal Server Error")
	ErrUser2FANotEnabled     = errors.New("two factor auth is not enabled")
	ErrInvalid2FACode        = errors.New("2fa code is invalid")
	ErrUser2FAAlreadyEnabled = errors.New("2fa auth already enabled")
)

// TwoFactorAuthenticator generates and verifies TOTP secrets.
type TwoFactorAuthenticator interface {
	GenerateSecret(accountName string) (string, string, error)
	VerifyCode(secret, code string) bool
}

type Service interface {
	Login(emailOrLogin, password string) (*user.User, string, string, error)
	VerifyTwoFactor(sessionToken, code string) (*user.User, string, string, error)
	RegisterTwoFactor(userID string) (string, error)
	VerifyTwoFactorCode(userID, code string) error
	DisableTwoFactorAuth(userID, code string) error
	RefreshAccessToken(userID string) (string, string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	RequireAdmin() func(http.Handler) http.Handler
}

type service struct {
	repo           UserRepository
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  TwoFactorAuthenticator
}

func NewAuthService(repo UserRepository, userService user.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, authenticator TwoFactorAuthenticator) Service {
	return &service{
		repo:           repo,
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
	}
}

func (s *service) issueTokens(existingUser *user.User) (string, string, error) {
	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID, existingUser.Role, defaultJWTDuration)
	if err != nil {
		log.Println("error during JWT generation:", err)
		return "", "", ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, existingUser.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		log.Println("error during refresh token generation:", err)
		return "", "", ErrInternalError
	}
	return jwtToken, refreshToken, nil
}

// Login authenticates by password. When 2FA is enabled it returns a short-lived
// session token instead of JWTs and the caller must complete VerifyTwoFactor.
func (s *service) Login(emailOrLogin, password string) (*user.User, string, string, error) {
	existingUser, err := s.userService.GetUserByLoginOrEmail(emailOrLogin)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", ErrInternalError
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, "", "", ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return nil, "", "", ErrInternalError
		}
		return existingUser, sessionToken, "", nil
	}

	jwtToken, refreshToken, err := s.issueTokens(existingUser)
	if err != nil {
		return nil, "", "", err
	}
	return existingUser, jwtToken, refreshToken, nil
}

func (s *service) VerifyTwoFactor(sessionToken, code string) (*user.User, string, string, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, "", "", err
	}
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrUserNotFound
		}
		return nil, "", "", ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return nil, "", "", ErrUser2FANotEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(userID)
	if err != nil {
		return nil, "", "", err
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return nil, "", "", ErrInvalid2FACode
	}

	s.sessionManager.DeleteSessionToken(sessionToken)

	jwtToken, refreshToken, err := s.issueTokens(existingUser)
	if err != nil {
		return nil, "", "", err
	}
	return existingUser, jwtToken, refreshToken, nil
}

// RegisterTwoFactor stores a fresh TOTP secret and returns the otpauth URI.
// 2FA only becomes active once VerifyTwoFactorCode confirms a valid code.
func (s *service) RegisterTwoFactor(userID string) (string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", ErrInternalError
	}

	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		return "", ErrInternalError
	}
	if err := s.repo.SaveTwoFactorSecret(userID, secret); err != nil {
		return "", ErrInternalError
	}
	return otpURI, nil
}

func (s *service) VerifyTwoFactorCode(userID, code string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(userID)
	if err != nil {
		if errors.Is(err, ErrUser2FANotEnabled) {
			return ErrUser2FANotEnabled
		}
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.repo.EnableTwoFactor(userID); err != nil {
		return ErrInternalError
	}
	return nil
}

func (s *service) DisableTwoFactorAuth(userID, code string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(userID)
	if err != nil {
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.repo.DisableTwoFactor(userID); err != nil {
		return ErrInternalError
	}
	return nil
}

// RefreshAccessToken requests are already checked in refresh token middleware
func (s *service) RefreshAccessToken(userID string) (string, string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", ErrInternalError
	}
	return s.issueTokens(existingUser)
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}
