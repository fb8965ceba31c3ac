package sendpasswordresettoken

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	ACCOUNT_ID = account.ID("acc-1")
	EMAIL      = c.Email("a@x.com")
	TOKEN_1    = "token-1"
	TOKEN_2    = "token-2"
	TTL        = 10 * time.Minute
)

var NOW = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	AccountRepository *account.FakeAccountRepository
	TokenGenerator    *account.FakeResetTokenGenerator
	TokenHasher       *account.FakeResetTokenHasher
	Notifier          *account.FakeNotifier
	Service           services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.AccountRepository = account.NewFakeAccountRepository()
	suite.TokenGenerator = account.NewFakeResetTokenGenerator(TOKEN_1, TOKEN_2)
	suite.TokenHasher = account.NewFakeResetTokenHasher()
	suite.Notifier = account.NewFakeNotifier()
	suite.Service = New(
		suite.Logger,
		suite.AccountRepository,
		suite.TokenGenerator,
		suite.TokenHasher,
		suite.Notifier,
		TTL,
		func() time.Time { return NOW },
	)

	_, err := suite.AccountRepository.Create(context.Background(), account.CreateAccountInput{
		ID:           ACCOUNT_ID,
		Email:        EMAIL,
		Role:         account.RoleAdmin,
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    NOW.Add(-24 * time.Hour),
	})
	suite.Require().NoError(err)
}

func TestSendPasswordResetTokenService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) getAccount() account.Account {
	a, err := s.AccountRepository.GetByID(context.Background(), ACCOUNT_ID)
	s.Require().NoError(err)
	return a
}

func (s *testSuite) TestSuccess() {
	result, err := s.Service.Run(context.Background(), Input{Email: EMAIL})

	s.Require().NoError(err)
	s.Equal(Result{}, result)

	s.Equal(1, s.Notifier.SentCount())
	s.Equal(account.ResetToken(TOKEN_1), s.Notifier.LastSent())
	s.Equal(EMAIL, s.Notifier.SentTo[0].Email)

	a := s.getAccount()
	s.True(a.PendingReset.IsPresent)
	s.Equal(s.TokenHasher.HashResetToken(TOKEN_1), a.PendingReset.Value.TokenHash)
	s.Equal(NOW.Add(TTL), a.PendingReset.Value.ExpiresAt)
}

func (s *testSuite) TestStoredHashIsNotTheClearToken() {
	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL})
	s.Require().NoError(err)

	a := s.getAccount()
	sent := s.Notifier.LastSent()
	s.NotEqual(string(sent), string(a.PendingReset.Value.TokenHash))
	s.NotContains(string(a.PendingReset.Value.TokenHash), string(sent))
}

func (s *testSuite) TestClearTokenIsNeverLogged() {
	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL})
	s.Require().NoError(err)

	for _, value := range s.Logger.Values() {
		s.NotEqual(TOKEN_1, value)
		s.NotEqual(account.ResetToken(TOKEN_1), value)
	}
}

func (s *testSuite) TestEmailIsNormalized() {
	_, err := s.Service.Run(context.Background(), Input{Email: c.Email("  A@X.Com ")})

	s.Require().NoError(err)
	s.Equal(1, s.Notifier.SentCount())
}

func (s *testSuite) TestUnknownEmailLooksLikeSuccess() {
	knownResult, knownErr := s.Service.Run(context.Background(), Input{Email: EMAIL})
	unknownResult, unknownErr := s.Service.Run(context.Background(), Input{Email: c.Email("nobody@x.com")})

	s.Require().NoError(knownErr)
	s.Require().NoError(unknownErr)
	s.Equal(knownResult, unknownResult)
	s.Equal(1, s.Notifier.SentCount())
	// A token is generated for unknown emails as well.
	s.Equal(2, s.TokenGenerator.GeneratedCount())
}

func (s *testSuite) TestSecondRequestOverwritesFirstToken() {
	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL})
	s.Require().NoError(err)
	_, err = s.Service.Run(context.Background(), Input{Email: EMAIL})
	s.Require().NoError(err)

	a := s.getAccount()
	s.Equal(s.TokenHasher.HashResetToken(TOKEN_2), a.PendingReset.Value.TokenHash)

	_, err = s.AccountRepository.GetByResetTokenHash(context.Background(), s.TokenHasher.HashResetToken(TOKEN_1), NOW)
	s.ErrorIs(err, account.ErrInvalidOrExpiredToken)
}

func (s *testSuite) TestDeliveryFailureKeepsTokenValid() {
	s.Notifier.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL})

	s.ErrorIs(err, account.ErrDeliveryFailure)
	s.Equal(e.DeliveryFailure, e.KindOf(err))

	a := s.getAccount()
	s.True(a.HasPendingReset(NOW))
	s.Equal(s.TokenHasher.HashResetToken(TOKEN_1), a.PendingReset.Value.TokenHash)
}

func (s *testSuite) TestStorageFailure() {
	s.AccountRepository.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL})

	s.Equal(e.StorageUnavailable, e.KindOf(err))
	s.Equal(0, s.Notifier.SentCount())
}

type removedAccountRepository struct {
	*account.FakeAccountRepository
}

func (r removedAccountRepository) SetResetToken(ctx context.Context, id account.ID, reset account.PendingReset) error {
	return account.ErrAccountDoesNotExist
}

func (s *testSuite) TestAccountRemovedBeforeTokenIsStored() {
	service := New(
		s.Logger,
		removedAccountRepository{s.AccountRepository},
		s.TokenGenerator,
		s.TokenHasher,
		s.Notifier,
		TTL,
		func() time.Time { return NOW },
	)

	removedResult, removedErr := service.Run(context.Background(), Input{Email: EMAIL})
	unknownResult, unknownErr := s.Service.Run(context.Background(), Input{Email: c.Email("nobody@x.com")})

	s.Require().NoError(removedErr)
	s.Require().NoError(unknownErr)
	s.Equal(unknownResult, removedResult)
	s.Equal(0, s.Notifier.SentCount())
}

func (s *testSuite) TestTokenGenerationFailure() {
	s.TokenGenerator.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL})

	s.Error(err)
	s.False(s.getAccount().PendingReset.IsPresent)
	s.Equal(0, s.Notifier.SentCount())
}

func (s *testSuite) TestConcurrentRequestsKeepHashAndExpiryPaired() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Service.Run(context.Background(), Input{Email: EMAIL})
			s.NoError(err)
		}()
	}
	wg.Wait()

	a := s.getAccount()
	s.True(a.PendingReset.IsPresent)
	s.Equal(NOW.Add(TTL), a.PendingReset.Value.ExpiresAt)

	matched := 0
	for _, token := range s.Notifier.Sent {
		if s.TokenHasher.HashResetToken(token) == a.PendingReset.Value.TokenHash {
			matched++
		}
	}
	s.Equal(1, matched)
}

func (s *testSuite) TestInputRateLimitKey() {
	s.Equal("send-password-reset-token::a@x.com", Input{Email: EMAIL}.GetRateLimitKey())
}
