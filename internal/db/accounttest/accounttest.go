// Package accounttest is the behaviour every account store has to share.
package accounttest

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

// RepositorySuite must be embedded with Repo set in SetupSuite. Stores have
// to be empty before every test.
type RepositorySuite struct {
	suite.Suite
	Repo account.AccountRepository
}

func (s *RepositorySuite) create(id account.ID, email c.Email) account.Account {
	a, err := s.Repo.Create(context.Background(), account.CreateAccountInput{
		ID:           id,
		Email:        email,
		Name:         "Agency " + string(id),
		Role:         account.RoleAgency,
		PasswordHash: "old-hash",
		IsActive:     true,
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)
	return a
}

func (s *RepositorySuite) get(id account.ID) account.Account {
	a, err := s.Repo.GetByID(context.Background(), id)
	s.Require().NoError(err)
	return a
}

func (s *RepositorySuite) setReset(id account.ID, hash account.ResetTokenHash, expiresAt time.Time) {
	err := s.Repo.SetResetToken(context.Background(), id, account.PendingReset{TokenHash: hash, ExpiresAt: expiresAt})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestCreateAndGet() {
	created := s.create("acc-1", "a@x.com")

	s.Equal(account.ID("acc-1"), created.ID)
	s.Equal(c.Email("a@x.com"), created.Email)
	s.Equal("Agency acc-1", created.Name)
	s.Equal(account.RoleAgency, created.Role)
	s.Equal(account.PasswordHash("old-hash"), created.PasswordHash)
	s.True(created.IsActive)
	s.True(created.CreatedAt.Equal(NOW))
	s.False(created.PendingReset.IsPresent)
	s.False(created.LastLoginAt.IsPresent)

	byID := s.get("acc-1")
	s.Equal(created, byID)

	byEmail, err := s.Repo.GetByEmail(context.Background(), "a@x.com")
	s.Require().NoError(err)
	s.Equal(created, byEmail)
}

func (s *RepositorySuite) TestGetByEmailIsCaseInsensitive() {
	s.create("acc-1", "a@x.com")

	a, err := s.Repo.GetByEmail(context.Background(), "  A@X.com")

	s.Require().NoError(err)
	s.Equal(account.ID("acc-1"), a.ID)
}

func (s *RepositorySuite) TestCreateDuplicateEmail() {
	s.create("acc-1", "a@x.com")

	_, err := s.Repo.Create(context.Background(), account.CreateAccountInput{
		ID:           "acc-2",
		Email:        "a@x.com",
		Role:         account.RoleClient,
		PasswordHash: "hash",
		CreatedAt:    NOW,
	})

	s.ErrorIs(err, account.ErrEmailAlreadyExists)
	s.Equal(e.Conflict, e.KindOf(err))
}

func (s *RepositorySuite) TestNotFound() {
	_, err := s.Repo.GetByID(context.Background(), "nobody")
	s.ErrorIs(err, account.ErrAccountDoesNotExist)

	_, err = s.Repo.GetByEmail(context.Background(), "nobody@x.com")
	s.ErrorIs(err, account.ErrAccountDoesNotExist)

	err = s.Repo.SetResetToken(context.Background(), "nobody", account.PendingReset{TokenHash: "h", ExpiresAt: NOW})
	s.ErrorIs(err, account.ErrAccountDoesNotExist)

	err = s.Repo.SetPassword(context.Background(), "nobody", "hash")
	s.ErrorIs(err, account.ErrAccountDoesNotExist)

	err = s.Repo.SetLastLoginAt(context.Background(), "nobody", NOW)
	s.ErrorIs(err, account.ErrAccountDoesNotExist)

	_, err = s.Repo.SetActive(context.Background(), "nobody", false)
	s.ErrorIs(err, account.ErrAccountDoesNotExist)
}

func (s *RepositorySuite) TestSetResetTokenOverwrites() {
	s.create("acc-1", "a@x.com")
	s.setReset("acc-1", "hash-1", NOW.Add(time.Minute))
	s.setReset("acc-1", "hash-2", NOW.Add(2*time.Minute))

	a := s.get("acc-1")
	s.True(a.PendingReset.IsPresent)
	s.Equal(account.ResetTokenHash("hash-2"), a.PendingReset.Value.TokenHash)
	s.True(a.PendingReset.Value.ExpiresAt.Equal(NOW.Add(2 * time.Minute)))

	_, err := s.Repo.GetByResetTokenHash(context.Background(), "hash-1", NOW)
	s.ErrorIs(err, account.ErrInvalidOrExpiredToken)
}

func (s *RepositorySuite) TestGetByResetTokenHashExpiryIsExclusive() {
	expiresAt := NOW.Add(10 * time.Minute)
	s.create("acc-1", "a@x.com")
	s.setReset("acc-1", "hash", expiresAt)

	a, err := s.Repo.GetByResetTokenHash(context.Background(), "hash", expiresAt.Add(-time.Millisecond))
	s.Require().NoError(err)
	s.Equal(account.ID("acc-1"), a.ID)

	_, err = s.Repo.GetByResetTokenHash(context.Background(), "hash", expiresAt)
	s.ErrorIs(err, account.ErrInvalidOrExpiredToken)

	_, err = s.Repo.GetByResetTokenHash(context.Background(), "hash", expiresAt.Add(time.Millisecond))
	s.ErrorIs(err, account.ErrInvalidOrExpiredToken)
}

func (s *RepositorySuite) TestRedeemResetToken() {
	expiresAt := NOW.Add(10 * time.Minute)
	s.create("acc-1", "a@x.com")
	s.create("acc-2", "b@x.com")
	s.setReset("acc-1", "hash-1", expiresAt)
	s.setReset("acc-2", "hash-2", expiresAt)

	a, err := s.Repo.RedeemResetToken(context.Background(), account.RedeemResetTokenInput{
		TokenHash:    "hash-1",
		PasswordHash: "new-hash",
		Now:          expiresAt.Add(-time.Millisecond),
	})

	s.Require().NoError(err)
	s.Equal(account.ID("acc-1"), a.ID)
	s.Equal(account.PasswordHash("new-hash"), a.PasswordHash)
	s.False(a.PendingReset.IsPresent)
	s.Equal(a, s.get("acc-1"))

	other := s.get("acc-2")
	s.Equal(account.PasswordHash("old-hash"), other.PasswordHash)
	s.True(other.PendingReset.IsPresent)
}

func (s *RepositorySuite) TestRedeemResetTokenFailures() {
	expiresAt := NOW.Add(10 * time.Minute)
	s.create("acc-1", "a@x.com")
	s.setReset("acc-1", "hash", expiresAt)
	before := s.get("acc-1")

	cases := []struct {
		id   string
		hash account.ResetTokenHash
		now  time.Time
	}{
		{id: "unknown hash", hash: "garbage", now: NOW},
		{id: "empty hash", hash: "", now: NOW},
		{id: "at expiry", hash: "hash", now: expiresAt},
		{id: "after expiry", hash: "hash", now: expiresAt.Add(time.Millisecond)},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.Repo.RedeemResetToken(context.Background(), account.RedeemResetTokenInput{
				TokenHash:    testcase.hash,
				PasswordHash: "new-hash",
				Now:          testcase.now,
			})
			s.ErrorIs(err, account.ErrInvalidOrExpiredToken)
			s.Equal(before, s.get("acc-1"))
		})
	}
}

func (s *RepositorySuite) TestRedeemResetTokenOnlyOnce() {
	s.create("acc-1", "a@x.com")
	s.setReset("acc-1", "hash", NOW.Add(time.Hour))

	var wg sync.WaitGroup
	var lock sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Repo.RedeemResetToken(context.Background(), account.RedeemResetTokenInput{
				TokenHash:    "hash",
				PasswordHash: account.PasswordHash(fmt.Sprintf("new-hash-%d", i)),
				Now:          NOW,
			})
			if err == nil {
				lock.Lock()
				succeeded++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, succeeded)
	s.False(s.get("acc-1").PendingReset.IsPresent)
}

func (s *RepositorySuite) TestConcurrentSetResetTokenKeepsPairs() {
	s.create("acc-1", "a@x.com")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Repo.SetResetToken(context.Background(), "acc-1", account.PendingReset{
				TokenHash: account.ResetTokenHash(fmt.Sprintf("hash-%d", i)),
				ExpiresAt: NOW.Add(time.Duration(i) * time.Minute),
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	reset := s.get("acc-1").PendingReset
	s.Require().True(reset.IsPresent)
	var i int
	_, err := fmt.Sscanf(string(reset.Value.TokenHash), "hash-%d", &i)
	s.Require().NoError(err)
	s.True(reset.Value.ExpiresAt.Equal(NOW.Add(time.Duration(i) * time.Minute)))
}

func (s *RepositorySuite) TestSetPasswordClearsReset() {
	s.create("acc-1", "a@x.com")
	s.setReset("acc-1", "hash", NOW.Add(time.Hour))

	err := s.Repo.SetPassword(context.Background(), "acc-1", "new-hash")

	s.Require().NoError(err)
	a := s.get("acc-1")
	s.Equal(account.PasswordHash("new-hash"), a.PasswordHash)
	s.False(a.PendingReset.IsPresent)
}

func (s *RepositorySuite) TestExpiredResetStaysOnRecord() {
	s.create("acc-1", "a@x.com")
	s.setReset("acc-1", "hash", NOW)

	a, err := s.Repo.GetByEmail(context.Background(), "a@x.com")

	s.Require().NoError(err)
	s.True(a.PendingReset.IsPresent)
	s.False(a.HasPendingReset(NOW.Add(time.Second)))
}

func (s *RepositorySuite) TestSetLastLoginAt() {
	s.create("acc-1", "a@x.com")

	err := s.Repo.SetLastLoginAt(context.Background(), "acc-1", NOW.Add(time.Hour))

	s.Require().NoError(err)
	a := s.get("acc-1")
	s.True(a.LastLoginAt.IsPresent)
	s.True(a.LastLoginAt.Value.Equal(NOW.Add(time.Hour)))
}

func (s *RepositorySuite) TestSetActive() {
	s.create("acc-1", "a@x.com")

	a, err := s.Repo.SetActive(context.Background(), "acc-1", false)
	s.Require().NoError(err)
	s.False(a.IsActive)
	s.False(s.get("acc-1").IsActive)

	a, err = s.Repo.SetActive(context.Background(), "acc-1", true)
	s.Require().NoError(err)
	s.True(a.IsActive)
}
