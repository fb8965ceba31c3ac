package account

import (
	c "adbridge/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeIdentityGenerator struct {
	Prefix string
	count  int
	lock   sync.Mutex
}

func NewFakeIdentityGenerator(prefix string) *FakeIdentityGenerator {
	return &FakeIdentityGenerator{Prefix: prefix}
}

func (g *FakeIdentityGenerator) GenerateID() ID {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.count++
	return ID(fmt.Sprintf("%s-%d", g.Prefix, g.count))
}

// FakeResetTokenGenerator returns Tokens in order, then numbered tokens.
type FakeResetTokenGenerator struct {
	Tokens      []ResetToken
	ReturnError bool
	generated   int
	lock        sync.Mutex
}

func NewFakeResetTokenGenerator(tokens ...string) *FakeResetTokenGenerator {
	g := &FakeResetTokenGenerator{}
	for _, t := range tokens {
		g.Tokens = append(g.Tokens, ResetToken(t))
	}
	return g
}

func (g *FakeResetTokenGenerator) GenerateResetToken() (ResetToken, error) {
	if g.ReturnError {
		return "", fmt.Errorf("could not generate reset token")
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	g.generated++
	if g.generated <= len(g.Tokens) {
		return g.Tokens[g.generated-1], nil
	}
	return ResetToken(fmt.Sprintf("reset-token-%d", g.generated)), nil
}

func (g *FakeResetTokenGenerator) GeneratedCount() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.generated
}

type FakeResetTokenHasher struct{}

func NewFakeResetTokenHasher() *FakeResetTokenHasher {
	return &FakeResetTokenHasher{}
}

func (h *FakeResetTokenHasher) HashResetToken(token ResetToken) ResetTokenHash {
	hash := md5.New()
	io.WriteString(hash, "reset::"+string(token))
	return ResetTokenHash(fmt.Sprintf("%x", hash.Sum(nil)))
}

type FakeNotifier struct {
	Sent        []ResetToken
	SentTo      []Account
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) SendPasswordResetLink(ctx context.Context, a Account, token ResetToken) error {
	if n.ReturnError {
		return fmt.Errorf("could not send password reset link to %s", a.Email)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.Sent = append(n.Sent, token)
	n.SentTo = append(n.SentTo, a)
	return nil
}

func (n *FakeNotifier) SentCount() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.Sent)
}

func (n *FakeNotifier) LastSent() ResetToken {
	n.lock.Lock()
	defer n.lock.Unlock()
	l := len(n.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return n.Sent[l-1]
}

type FakeSessionIssuer struct {
	TTL         time.Duration
	Now         func() time.Time
	ReturnError bool
	issued      map[SessionToken]SessionClaims
	lock        sync.Mutex
}

func NewFakeSessionIssuer(ttl time.Duration, now func() time.Time) *FakeSessionIssuer {
	return &FakeSessionIssuer{TTL: ttl, Now: now, issued: make(map[SessionToken]SessionClaims)}
}

func (i *FakeSessionIssuer) Issue(a Account) (s Session, err error) {
	if i.ReturnError {
		return s, fmt.Errorf("could not issue session for account %s", a.ID)
	}
	i.lock.Lock()
	defer i.lock.Unlock()
	token := SessionToken(fmt.Sprintf("session::%s::%d", a.ID, len(i.issued)+1))
	expiresAt := i.Now().Add(i.TTL)
	i.issued[token] = SessionClaims{AccountID: a.ID, Role: a.Role, ExpiresAt: expiresAt}
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

func (i *FakeSessionIssuer) Verify(token SessionToken) (claims SessionClaims, err error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	claims, ok := i.issued[token]
	if !ok || !claims.ExpiresAt.After(i.Now()) {
		return claims, ErrInvalidSession
	}
	return claims, nil
}

func (i *FakeSessionIssuer) IssuedCount() int {
	i.lock.Lock()
	defer i.lock.Unlock()
	return len(i.issued)
}

// FakeAccountRepository applies each mutation under one lock, mirroring the
// single-statement updates of the database repositories.
type FakeAccountRepository struct {
	Accounts    []Account
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{Accounts: make([]Account, 0, 10)}
}

func (r *FakeAccountRepository) storageError(op string) error {
	return NewStorageError(fmt.Errorf("fake repository: %s failed", op))
}

func (r *FakeAccountRepository) Create(ctx context.Context, input CreateAccountInput) (a Account, err error) {
	if r.ReturnError {
		return a, r.storageError("create")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Accounts {
		if existing.Email == input.Email {
			return a, ErrEmailAlreadyExists
		}
	}
	a = Account{
		ID:           input.ID,
		Email:        input.Email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: input.PasswordHash,
		IsActive:     input.IsActive,
		CreatedAt:    input.CreatedAt,
	}
	r.Accounts = append(r.Accounts, a)
	return a, nil
}

func (r *FakeAccountRepository) GetByID(ctx context.Context, id ID) (a Account, err error) {
	if r.ReturnError {
		return a, r.storageError("get by id")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, a := range r.Accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return a, ErrAccountDoesNotExist
}

func (r *FakeAccountRepository) GetByEmail(ctx context.Context, email c.Email) (a Account, err error) {
	if r.ReturnError {
		return a, r.storageError("get by email")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, a := range r.Accounts {
		if strings.EqualFold(string(a.Email), string(email)) {
			return a, nil
		}
	}
	return a, ErrAccountDoesNotExist
}

func (r *FakeAccountRepository) GetByResetTokenHash(
	ctx context.Context,
	hash ResetTokenHash,
	now time.Time,
) (a Account, err error) {
	if r.ReturnError {
		return a, r.storageError("get by reset token hash")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix := r.findByResetTokenHash(hash, now)
	if ix < 0 {
		return a, ErrInvalidOrExpiredToken
	}
	return r.Accounts[ix], nil
}

func (r *FakeAccountRepository) SetResetToken(ctx context.Context, id ID, reset PendingReset) error {
	if r.ReturnError {
		return r.storageError("set reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, a := range r.Accounts {
		if a.ID == id {
			r.Accounts[ix].PendingReset = c.NewOptional(reset, true)
			return nil
		}
	}
	return ErrAccountDoesNotExist
}

func (r *FakeAccountRepository) RedeemResetToken(ctx context.Context, input RedeemResetTokenInput) (a Account, err error) {
	if r.ReturnError {
		return a, r.storageError("redeem reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix := r.findByResetTokenHash(input.TokenHash, input.Now)
	if ix < 0 {
		return a, ErrInvalidOrExpiredToken
	}
	r.Accounts[ix].PasswordHash = input.PasswordHash
	r.Accounts[ix].PendingReset = c.None[PendingReset]()
	return r.Accounts[ix], nil
}

func (r *FakeAccountRepository) SetPassword(ctx context.Context, id ID, hash PasswordHash) error {
	if r.ReturnError {
		return r.storageError("set password")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, a := range r.Accounts {
		if a.ID == id {
			r.Accounts[ix].PasswordHash = hash
			r.Accounts[ix].PendingReset = c.None[PendingReset]()
			return nil
		}
	}
	return ErrAccountDoesNotExist
}

func (r *FakeAccountRepository) SetLastLoginAt(ctx context.Context, id ID, at time.Time) error {
	if r.ReturnError {
		return r.storageError("set last login at")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, a := range r.Accounts {
		if a.ID == id {
			r.Accounts[ix].LastLoginAt = c.NewOptional(at, true)
			return nil
		}
	}
	return ErrAccountDoesNotExist
}

func (r *FakeAccountRepository) SetActive(ctx context.Context, id ID, isActive bool) (a Account, err error) {
	if r.ReturnError {
		return a, r.storageError("set active")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, a := range r.Accounts {
		if a.ID == id {
			r.Accounts[ix].IsActive = isActive
			return r.Accounts[ix], nil
		}
	}
	return a, ErrAccountDoesNotExist
}

func (r *FakeAccountRepository) findByResetTokenHash(hash ResetTokenHash, now time.Time) int {
	for ix, a := range r.Accounts {
		if a.PendingReset.IsPresent && a.PendingReset.Value.TokenHash == hash && a.PendingReset.Value.IsValidAt(now) {
			return ix
		}
	}
	return -1
}
