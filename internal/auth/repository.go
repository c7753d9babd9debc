package auth

import (
	"database/sql"
	"errors"
	"fmt"
)

type UserRepository interface {
	EnableTwoFactor(userID string) error
	GetTwoFactorSecret(userID string) (string, error)
	SaveTwoFactorSecret(userID string, secret string) error
	DisableTwoFactor(userID string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) SaveTwoFactorSecret(userID string, secret string) error {
	query := `
        INSERT INTO user_two_factor_secrets (user_id, secret, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET secret = EXCLUDED.secret,
            created_at = NOW()
    `
	_, err := r.db.Exec(query, userID, secret)
	if err != nil {
		return ErrInternalError
	}
	return nil
}

func (r *userRepository) GetTwoFactorSecret(userID string) (string, error) {
	var secret string
	query := `
        SELECT secret
        FROM user_two_factor_secrets
        WHERE user_id = $1
    `
	err := r.db.QueryRow(query, userID).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUser2FANotEnabled
		}
		return "", ErrInternalError
	}
	return secret, nil
}

func (r *userRepository) EnableTwoFactor(userID string) error {
	query := `
		UPDATE usuarios
		SET two_factor_enabled = TRUE,
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return ErrInternalError
	}
	return nil
}

func (r *userRepository) DisableTwoFactor(userID string) error {
	query := `
		UPDATE usuarios
		SET two_factor_enabled = FALSE,
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("could not disable two-factor authentication: %v", err)
	}

	query = `
		DELETE FROM user_two_factor_secrets
		WHERE user_id = $1
	`
	_, err = r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("could not delete TOTP secret: %v", err)
	}

	return nil
}
