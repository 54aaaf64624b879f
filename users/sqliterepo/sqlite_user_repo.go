package sqliteuserrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jrsteele09/go-session-service/users"
)

var _ users.Repo = (*SQLiteUserRepo)(nil)

// SQLiteUserRepo is the durable users.Repo, one row per email.
type SQLiteUserRepo struct {
	db *sql.DB
}

func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

// EnsureUsersTable creates the users table if it does not exist.
func EnsureUsersTable(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
  email TEXT PRIMARY KEY,
  name TEXT NULL,
  refresh_token TEXT NULL,
  token_version INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func (ur *SQLiteUserRepo) Upsert(ctx context.Context, email string, name *string, refreshToken *string) (*users.User, error) {
	// COALESCE keeps the stored refresh token when the caller passes nil,
	// which happens when a repeat consent yields no new refresh token.
	_, err := ur.db.ExecContext(ctx, `
INSERT INTO users (email, name, refresh_token, token_version, created_at)
VALUES (?, ?, ?, 0, ?)
ON CONFLICT(email) DO UPDATE SET
  name = COALESCE(excluded.name, users.name),
  refresh_token = COALESCE(excluded.refresh_token, users.refresh_token)`,
		email, name, refreshToken, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("[SQLiteUserRepo.Upsert] exec: %w", err)
	}
	return ur.GetByEmail(ctx, email)
}

func (ur *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := ur.db.QueryRowContext(ctx, `
SELECT email, name, refresh_token, token_version, created_at
FROM users WHERE email = ?`, email)

	var (
		user      users.User
		createdAt string
	)
	err := row.Scan(&user.Email, &user.Name, &user.RefreshToken, &user.TokenVersion, &createdAt)
	if err == sql.ErrNoRows {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[SQLiteUserRepo.GetByEmail] scan: %w", err)
	}
	user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("[SQLiteUserRepo.GetByEmail] parse created_at: %w", err)
	}
	return &user, nil
}

func (ur *SQLiteUserRepo) Rotate(ctx context.Context, email, oldToken, newToken string) (*users.User, error) {
	// Single UPDATE guarded on the old token value: the compare-and-swap
	// happens inside sqlite, so concurrent rotations cannot both win.
	res, err := ur.db.ExecContext(ctx, `
UPDATE users SET refresh_token = ?, token_version = token_version + 1
WHERE email = ? AND refresh_token = ?`, newToken, email, oldToken)
	if err != nil {
		return nil, fmt.Errorf("[SQLiteUserRepo.Rotate] exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("[SQLiteUserRepo.Rotate] rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := ur.GetByEmail(ctx, email); err != nil {
			return nil, err
		}
		return nil, users.ErrTokenMismatch
	}
	return ur.GetByEmail(ctx, email)
}

func (ur *SQLiteUserRepo) ClearRefreshToken(ctx context.Context, email string) error {
	res, err := ur.db.ExecContext(ctx, `UPDATE users SET refresh_token = NULL WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("[SQLiteUserRepo.ClearRefreshToken] exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("[SQLiteUserRepo.ClearRefreshToken] rows affected: %w", err)
	}
	if affected == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (ur *SQLiteUserRepo) Delete(ctx context.Context, email string) error {
	res, err := ur.db.ExecContext(ctx, `DELETE FROM users WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("[SQLiteUserRepo.Delete] exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("[SQLiteUserRepo.Delete] rows affected: %w", err)
	}
	if affected == 0 {
		return users.ErrNotFound
	}
	return nil
}
