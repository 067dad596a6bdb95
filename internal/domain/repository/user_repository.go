package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// SetResetToken stores a pending reset token with its expiry.
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	// FindByResetToken matches only tokens whose expiry is still in the
	// future at the given instant; expired rows are treated as absent.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	// ReplacePassword swaps the password hash and clears any pending reset
	// token in the same statement, making reset tokens single-use.
	ReplacePassword(ctx context.Context, userID, passwordHash string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, handle, password_hash, role, provider,
	          reset_token, reset_token_expiry, created_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, handle, password_hash, role, provider)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.Handle, user.PasswordHash, user.Role, user.Provider)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email already exists: %w", common.ErrDuplicateEmail)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *pgUserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE reset_token = $1 AND reset_token_expiry > $2`
	return r.scanOne(ctx, query, token, now)
}

func (r *pgUserRepository) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	query := `UPDATE users SET reset_token = $2, reset_token_expiry = $3, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, token, expiry)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetResetToken: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) ReplacePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, reset_token = NULL,
	          reset_token_expiry = NULL, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("pgUserRepository.ReplacePassword: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	user := &model.User{}
	var passwordHash sql.NullString // NULL for externally-authenticated accounts
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.Handle, &passwordHash,
		&user.Role, &user.Provider, &user.ResetToken, &user.ResetTokenExpiry,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.scanOne: %w", err)
	}
	user.PasswordHash = passwordHash.String
	return user, nil
}
