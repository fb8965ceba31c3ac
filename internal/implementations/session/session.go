package session

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	jwt.RegisteredClaims
	Role account.Role `json:"role"`
}

// JWT issues HS256 signed session credentials scoped to an account id and role.
type JWT struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

func NewJWT(secretKey string, issuer string, ttl time.Duration, now func() time.Time) *JWT {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWT{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		now:       now,
	}
}

func (j *JWT) Issue(a account.Account) (session account.Session, err error) {
	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   string(a.ID),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: a.Role,
	})
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return session, fmt.Errorf("could not sign session token: %w", err)
	}
	// NumericDate has second precision.
	return account.Session{
		Token:     account.SessionToken(signed),
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

func (j *JWT) Verify(token account.SessionToken) (result account.SessionClaims, err error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(
		string(token),
		c,
		func(t *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		return result, account.ErrInvalidSession
	}
	if c.Subject == "" || !c.Role.IsValid() {
		return result, account.ErrInvalidSession
	}
	return account.SessionClaims{
		AccountID: account.ID(c.Subject),
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
