// Package user is the repository for the users table
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/thrasher-corp/sqlboiler/boil"

	"github.com/parley-chat/parley/common"
)

// postgres unique_violation
const pqUniqueViolation = "23505"

// Insert stores a new user with a pre-hashed password
func Insert(ctx context.Context, exec boil.ContextExecutor, id, name, passwordHash string) error {
	query := `INSERT INTO users (id, name, password_hash) VALUES ($1, $2, $3)`
	if _, err := exec.ExecContext(ctx, query, id, name, passwordHash); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("%w: %s", common.ErrUserAlreadyExists, id)
		}
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

// PasswordHash returns the stored hash for id
func PasswordHash(ctx context.Context, exec boil.ContextExecutor, id string) (string, error) {
	query := `SELECT password_hash FROM users WHERE id = $1`
	var hash string
	err := exec.QueryRowContext(ctx, query, id).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", common.ErrUserNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return hash, nil
}
