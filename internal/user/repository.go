package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(user *User) error
	userExistsByLoginOrEmail(login, email string) (*User, error)
	getUserByLoginOrEmail(loginOrEmail string) (*User, error)
	getUserByID(id string) (*User, error)
	updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error
	listUsers() ([]User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, email, login, password_hash, role, two_factor_enabled, hash_token, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Login, &user.PasswordHash, &user.Role, &user.TwoFactorEnabled, &user.HashToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	return &user, nil
}

func (r *userRepository) createUser(user *User) error {
	query := `
		INSERT INTO usuarios (email, login, password_hash, role, hash_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id;
	`
	var id string
	err := r.db.QueryRow(query, user.Email, user.Login, user.PasswordHash, user.Role, user.HashToken).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}

	user.ID = id
	return nil
}

func (r *userRepository) userExistsByLoginOrEmail(login, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM usuarios
		WHERE login = $1 OR email = $2
	`
	return scanUser(r.db.QueryRow(query, login, email))
}

func (r *userRepository) getUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM usuarios
		WHERE login = $1 OR email = $1
	`
	return scanUser(r.db.QueryRow(query, loginOrEmail))
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM usuarios
		WHERE id = $1
	`
	return scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error {
	query := `
        UPDATE usuarios
        SET password_hash = $1,
            hash_token = $2,
            updated_at = $3
        WHERE id = $4
    `
	_, err := r.db.Exec(query, newPasswordHash, newHashToken, time.Now(), userID)
	return err
}

func (r *userRepository) listUsers() ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM usuarios
		ORDER BY created_at
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("could not list users: %v", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Login, &user.PasswordHash, &user.Role, &user.TwoFactorEnabled, &user.HashToken, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("could not scan user: %v", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
