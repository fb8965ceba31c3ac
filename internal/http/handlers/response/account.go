package response

import (
	"adbridge/internal/core/domain/account"
	"time"
)

type Account struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (a *Account) FromDomainAccount(da account.Account) {
	a.ID = string(da.ID)
	a.Email = string(da.Email)
	a.Name = da.Name
	a.Role = string(da.Role)
	a.IsActive = da.IsActive
	a.CreatedAt = da.CreatedAt
	if da.LastLoginAt.IsPresent {
		lastLoginAt := da.LastLoginAt.Value
		a.LastLoginAt = &lastLoginAt
	}
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) FromDomainSession(ds account.Session) {
	s.Token = string(ds.Token)
	s.ExpiresAt = ds.ExpiresAt
}
