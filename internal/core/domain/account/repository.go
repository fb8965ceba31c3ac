package account

import (
	c "adbridge/internal/core/domain/common"
	"context"
	"time"
)

type CreateAccountInput struct {
	ID           ID
	Email        c.Email
	Name         string
	Role         Role
	PasswordHash PasswordHash
	IsActive     bool
	CreatedAt    time.Time
}

type RedeemResetTokenInput struct {
	TokenHash    ResetTokenHash
	PasswordHash PasswordHash
	Now          time.Time
}

// AccountRepository is the account store. Every mutating method is a single
// atomic update of one account record.
type AccountRepository interface {
	Create(ctx context.Context, input CreateAccountInput) (Account, error)
	GetByID(ctx context.Context, id ID) (Account, error)
	GetByEmail(ctx context.Context, email c.Email) (Account, error)

	// GetByResetTokenHash returns the account whose pending reset matches hash
	// and expires strictly after now.
	GetByResetTokenHash(ctx context.Context, hash ResetTokenHash, now time.Time) (Account, error)

	// SetResetToken replaces any pending reset of the account.
	SetResetToken(ctx context.Context, id ID, reset PendingReset) error

	// RedeemResetToken sets the new password hash and clears the pending reset
	// of the account matched like in GetByResetTokenHash. Returns
	// ErrInvalidOrExpiredToken when nothing matched.
	RedeemResetToken(ctx context.Context, input RedeemResetTokenInput) (Account, error)

	// SetPassword sets the password hash and clears any pending reset.
	SetPassword(ctx context.Context, id ID, hash PasswordHash) error
	SetLastLoginAt(ctx context.Context, id ID, at time.Time) error
	SetActive(ctx context.Context, id ID, isActive bool) (Account, error)
}
