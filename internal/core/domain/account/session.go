package account

import "time"

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type Session struct {
	Token     SessionToken
	ExpiresAt time.Time
}

type SessionClaims struct {
	AccountID ID
	Role      Role
	ExpiresAt time.Time
}

type SessionIssuer interface {
	Issue(a Account) (Session, error)
	Verify(token SessionToken) (SessionClaims, error)
}

type IdentityGenerator interface {
	GenerateID() ID
}
