package account

import (
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"fmt"
	"time"
)

type ID string

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgency Role = "agency"
	RoleClient Role = "client"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgency, RoleClient:
		return true
	}
	return false
}

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

// PendingReset is the hashed password reset credential together with its expiry.
// Keeping both in one value makes it impossible to store one without the other.
type PendingReset struct {
	TokenHash ResetTokenHash
	ExpiresAt time.Time
}

// IsValidAt reports whether the reset can still be redeemed at the given instant.
// The expiry itself is already too late.
func (r PendingReset) IsValidAt(at time.Time) bool {
	return r.ExpiresAt.After(at)
}

type Account struct {
	ID           ID
	Email        c.Email
	Name         string
	Role         Role
	PasswordHash PasswordHash
	IsActive     bool
	PendingReset c.Optional[PendingReset]
	CreatedAt    time.Time
	LastLoginAt  c.Optional[time.Time]
}

func (a *Account) Validate() error {
	if a.ID == "" {
		return e.NewInvalidStateError("account id is not set")
	}
	if a.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for account %s", a.ID))
	}
	if a.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for account %s", a.ID))
	}
	if !a.Role.IsValid() {
		return e.NewInvalidStateError(fmt.Sprintf("invalid role %q for account %s", a.Role, a.ID))
	}
	if a.PendingReset.IsPresent && a.PendingReset.Value.TokenHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("empty reset token hash for account %s", a.ID))
	}
	return nil
}

// HasPendingReset reports whether a reset token issued for the account can still be redeemed.
// An expired pair stays on the record until it is overwritten or redeemed.
func (a Account) HasPendingReset(at time.Time) bool {
	return a.PendingReset.IsPresent && a.PendingReset.Value.IsValidAt(at)
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
