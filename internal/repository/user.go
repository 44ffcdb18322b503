package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openquran/versehub/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateName  = errors.New("full name already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ByFullName(fullName string) (*model.User, error)
	Update(user *model.User) error
	SetRefreshToken(id string, token *string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `
		INSERT INTO users (id, full_name, email, password_hash, is_verified, verification_fingerprint, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.VerificationFingerprint,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (r *userRepository) ByFullName(fullName string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE full_name = $1`

	err := r.db.Get(user, query, fullName)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (r *userRepository) Update(user *model.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET full_name = $1, email = $2, password_hash = $3, is_verified = $4,
		    verification_fingerprint = $5, refresh_token = $6,
		    reset_fingerprint = $7, reset_expires_at = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.Exec(query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.VerificationFingerprint,
		user.RefreshToken,
		user.ResetFingerprint,
		user.ResetExpiresAt,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetRefreshToken overwrites the stored refresh token. A nil token logs the
// user out; logging out an already logged-out user is not an error.
func (r *userRepository) SetRefreshToken(id string, token *string) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, token, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// mapUniqueViolation turns driver-specific unique constraint errors into
// sentinel errors (works for both SQLite and PostgreSQL).
func mapUniqueViolation(err error) error {
	errStr := err.Error()
	if !strings.Contains(errStr, "UNIQUE constraint failed") && !strings.Contains(errStr, "duplicate key value") {
		return err
	}
	if strings.Contains(errStr, "full_name") {
		return ErrDuplicateName
	}
	if strings.Contains(errStr, "email") {
		return ErrDuplicateEmail
	}
	return err
}
