package account

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "account_email_idx"

const accountColumns = `id, email, name, role, password_hash, is_active,
	reset_token_hash, reset_token_expires_at, created_at, last_login_at`

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxAccountRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxAccountRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxAccountRepository{db: db}
}

func (r *PgxAccountRepository) Create(ctx context.Context, input account.CreateAccountInput) (a account.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO account (id, email, name, role, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		string(input.ID),
		string(input.Email),
		input.Name,
		string(input.Role),
		string(input.PasswordHash),
		input.IsActive,
		input.CreatedAt,
	)
	a, err = scanAccount(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE &&
		pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
		return a, account.ErrEmailAlreadyExists
	}
	if err != nil {
		return a, storageError(err)
	}
	return a, a.Validate()
}

func (r *PgxAccountRepository) GetByID(ctx context.Context, id account.ID) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrAccountDoesNotExist,
		`SELECT `+accountColumns+` FROM account WHERE id = $1`,
		string(id),
	)
}

func (r *PgxAccountRepository) GetByEmail(ctx context.Context, email c.Email) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrAccountDoesNotExist,
		`SELECT `+accountColumns+` FROM account WHERE email = $1`,
		string(c.NewEmail(string(email))),
	)
}

func (r *PgxAccountRepository) GetByResetTokenHash(
	ctx context.Context,
	hash account.ResetTokenHash,
	now time.Time,
) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrInvalidOrExpiredToken,
		`SELECT `+accountColumns+` FROM account
		WHERE reset_token_hash = $1 AND reset_token_expires_at > $2`,
		string(hash),
		now,
	)
}

func (r *PgxAccountRepository) SetResetToken(ctx context.Context, id account.ID, reset account.PendingReset) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE account SET reset_token_hash = $2, reset_token_expires_at = $3 WHERE id = $1`,
		string(id),
		string(reset.TokenHash),
		reset.ExpiresAt,
	)
	return commandResult(tag, err)
}

func (r *PgxAccountRepository) RedeemResetToken(
	ctx context.Context,
	input account.RedeemResetTokenInput,
) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrInvalidOrExpiredToken,
		`UPDATE account
		SET password_hash = $3, reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE reset_token_hash = $1 AND reset_token_expires_at > $2
		RETURNING `+accountColumns,
		string(input.TokenHash),
		input.Now,
		string(input.PasswordHash),
	)
}

func (r *PgxAccountRepository) SetPassword(ctx context.Context, id account.ID, hash account.PasswordHash) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE account
		SET password_hash = $2, reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE id = $1`,
		string(id),
		string(hash),
	)
	return commandResult(tag, err)
}

func (r *PgxAccountRepository) SetLastLoginAt(ctx context.Context, id account.ID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE account SET last_login_at = $2 WHERE id = $1`, string(id), at)
	return commandResult(tag, err)
}

func (r *PgxAccountRepository) SetActive(ctx context.Context, id account.ID, isActive bool) (account.Account, error) {
	return r.getOne(
		ctx,
		account.ErrAccountDoesNotExist,
		`UPDATE account SET is_active = $2 WHERE id = $1 RETURNING `+accountColumns,
		string(id),
		isActive,
	)
}

func (r *PgxAccountRepository) getOne(
	ctx context.Context,
	errNotFound error,
	query string,
	args ...interface{},
) (a account.Account, err error) {
	a, err = scanAccount(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return a, errNotFound
	}
	if err != nil {
		return a, storageError(err)
	}
	return a, a.Validate()
}

func commandResult(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return storageError(err)
	}
	if tag.RowsAffected() == 0 {
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

func scanAccount(row pgx.Row) (a account.Account, err error) {
	var (
		id, email, name, role, passwordHash string
		isActive                            bool
		resetTokenHash                      sql.NullString
		resetTokenExpiresAt, lastLoginAt    sql.NullTime
		createdAt                           time.Time
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
	return account.Account{
		ID:           account.ID(id),
		Email:        c.Email(email),
		Name:         name,
		Role:         account.Role(role),
		PasswordHash: account.PasswordHash(passwordHash),
		IsActive:     isActive,
		PendingReset: decodePendingReset(resetTokenHash, resetTokenExpiresAt),
		CreatedAt:    createdAt.UTC(),
		LastLoginAt:  c.NewOptional(lastLoginAt.Time.UTC(), lastLoginAt.Valid),
	}, nil
}

func decodePendingReset(hash sql.NullString, expiresAt sql.NullTime) c.Optional[account.PendingReset] {
	if !hash.Valid || !expiresAt.Valid {
		return c.None[account.PendingReset]()
	}
	return c.NewOptional(account.PendingReset{
		TokenHash: account.ResetTokenHash(hash.String),
		ExpiresAt: expiresAt.Time.UTC(),
	}, true)
}
