package sqlite

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

const accountColumns = `id, email, name, role, password_hash, is_active,
	reset_token_hash, reset_token_expires_at, created_at, last_login_at`

// AccountRepository stores accounts in SQLite. Timestamps are kept as unix
// nanoseconds so that expiry comparisons are numeric.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, input account.CreateAccountInput) (a account.Account, err error) {
	row := r.db.QueryRowContext(
		ctx,
		`INSERT INTO account (id, email, name, role, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+accountColumns,
		string(input.ID),
		string(input.Email),
		input.Name,
		string(input.Role),
		string(input.PasswordHash),
		input.IsActive,
		encodeTime(input.CreatedAt),
	)
	a, err = scanAccount(row)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return a, account.ErrEmailAlreadyExists
	}
	if err != nil {
		return a, storageError(err)
	}
	return a, a.Validate()
}

func (r *AccountRepository) GetByID(ctx context.Context, id account.ID) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrAccountDoesNotExist,
		`SELECT `+accountColumns+` FROM account WHERE id = ?`,
		string(id),
	)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email c.Email) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrAccountDoesNotExist,
		`SELECT `+accountColumns+` FROM account WHERE email = ?`,
		string(c.NewEmail(string(email))),
	)
}

func (r *AccountRepository) GetByResetTokenHash(
	ctx context.Context,
	hash account.ResetTokenHash,
	now time.Time,
) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrInvalidOrExpiredToken,
		`SELECT `+accountColumns+` FROM account
		WHERE reset_token_hash = ? AND reset_token_expires_at > ?`,
		string(hash),
		encodeTime(now),
	)
}

func (r *AccountRepository) SetResetToken(ctx context.Context, id account.ID, reset account.PendingReset) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE account SET reset_token_hash = ?, reset_token_expires_at = ? WHERE id = ?`,
		string(reset.TokenHash),
		encodeTime(reset.ExpiresAt),
		string(id),
	)
	return execResult(res, err)
}

func (r *AccountRepository) RedeemResetToken(
	ctx context.Context,
	input account.RedeemResetTokenInput,
) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrInvalidOrExpiredToken,
		`UPDATE account
		SET password_hash = ?, reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE reset_token_hash = ? AND reset_token_expires_at > ?
		RETURNING `+accountColumns,
		string(input.PasswordHash),
		string(input.TokenHash),
		encodeTime(input.Now),
	)
}

func (r *AccountRepository) SetPassword(ctx context.Context, id account.ID, hash account.PasswordHash) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE account
		SET password_hash = ?, reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE id = ?`,
		string(hash),
		string(id),
	)
	return execResult(res, err)
}

func (r *AccountRepository) SetLastLoginAt(ctx context.Context, id account.ID, at time.Time) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE account SET last_login_at = ? WHERE id = ?`,
		encodeTime(at),
		string(id),
	)
	return execResult(res, err)
}

func (r *AccountRepository) SetActive(ctx context.Context, id account.ID, isActive bool) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrAccountDoesNotExist,
		`UPDATE account SET is_active = ? WHERE id = ? RETURNING `+accountColumns,
		isActive,
		string(id),
	)
}

func (r *AccountRepository) getOne(
	ctx context.Context,
	errNotFound error,
	query string,
	args ...interface{},
) (a account.Account, err error) {
	a, err = scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return a, errNotFound
	}
	if err != nil {
		return a, storageError(err)
	}
	return a, a.Validate()
}

func execResult(res sql.Result, err error) error {
	if err != nil {
		return storageError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageError(err)
	}
	if affected == 0 {
		return account.ErrAccountDoesNotExist
	}
	return nil
}

func storageError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return account.NewStorageError(err)
}

func encodeTime(t time.Time) int64 {
	return t.UnixNano()
}

func decodeTime(v int64) time.Time {
	return time.Unix(0, v).UTC()
}

func scanAccount(row *sql.Row) (a account.Account, err error) {
	var (
		id, email, name, role, passwordHash string
		isActive                            bool
		resetTokenHash                      sql.NullString
		resetTokenExpiresAt, lastLoginAt    sql.NullInt64
		createdAt                           int64
	)
	err = row.Scan(
		&id,
		&email,
		&name,
		&role,
		&passwordHash,
		&isActive,
		&resetTokenHash,
		&resetTokenExpiresAt,
		&createdAt,
		&lastLoginAt,
	)
	if err != nil {
		return a, err
	}

	pendingReset := c.None[account.PendingReset]()
	if resetTokenHash.Valid && resetTokenExpiresAt.Valid {
		pendingReset = c.NewOptional(account.PendingReset{
			TokenHash: account.ResetTokenHash(resetTokenHash.String),
			ExpiresAt: decodeTime(resetTokenExpiresAt.Int64),
		}, true)
	}
	lastLogin := c.None[time.Time]()
	if lastLoginAt.Valid {
		lastLogin = c.NewOptional(decodeTime(lastLoginAt.Int64), true)
	}

	return account.Account{
		ID:           account.ID(id),
		Email:        c.Email(email),
		Name:         name,
		Role:         account.Role(role),
		PasswordHash: account.PasswordHash(passwordHash),
		IsActive:     isActive,
		PendingReset: pendingReset,
		CreatedAt:    decodeTime(createdAt),
		LastLoginAt:  lastLogin,
	}, nil
}
