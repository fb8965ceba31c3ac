package account

import "context"

// ResetToken is the clear text password reset credential. It only ever
// leaves the process inside the notification sent to the account holder.
type ResetToken string

func (t ResetToken) String() string {
	return "***"
}

type ResetTokenHash string

type ResetTokenGenerator interface {
	GenerateResetToken() (ResetToken, error)
}

type ResetTokenHasher interface {
	HashResetToken(token ResetToken) ResetTokenHash
}

// Notifier delivers a password reset link to the account holder.
type Notifier interface {
	SendPasswordResetLink(ctx context.Context, a Account, token ResetToken) error
}
