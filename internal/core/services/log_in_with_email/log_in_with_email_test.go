package loginwithemail

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	resetpassword "adbridge/internal/core/services/reset_password"
	sendpasswordresettoken "adbridge/internal/core/services/send_password_reset_token"
	startsession "adbridge/internal/core/services/start_session"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	ACCOUNT_ID   = account.ID("acc-1")
	EMAIL        = c.Email("a@x.com")
	OLD_PASSWORD = account.RawPassword("OldPass123!")
	NEW_PASSWORD = account.RawPassword("NewPass123!")
	SESSION_TTL  = 7 * 24 * time.Hour
)

var NOW = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	AccountRepository *account.FakeAccountRepository
	PasswordHasher    *account.FakePasswordHasher
	SessionIssuer     *account.FakeSessionIssuer
	Starter           *startsession.Starter
	Service           services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	now := func() time.Time { return NOW }
	suite.Logger = logging.NewFakeLogger()
	suite.AccountRepository = account.NewFakeAccountRepository()
	suite.PasswordHasher = account.NewFakePasswordHasher()
	suite.SessionIssuer = account.NewFakeSessionIssuer(SESSION_TTL, now)
	suite.Starter = startsession.New(suite.Logger, suite.AccountRepository, suite.SessionIssuer, now)
	suite.Service = New(
		suite.Logger,
		suite.AccountRepository,
		suite.PasswordHasher,
		suite.Starter,
	)
}

func TestLogInWithEmailService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createAccount(isActive bool) account.Account {
	hash, err := s.PasswordHasher.HashPassword(OLD_PASSWORD)
	s.Require().NoError(err)
	a, err := s.AccountRepository.Create(context.Background(), account.CreateAccountInput{
		ID:           ACCOUNT_ID,
		Email:        EMAIL,
		Role:         account.RoleAgency,
		PasswordHash: hash,
		IsActive:     isActive,
		CreatedAt:    NOW.Add(-24 * time.Hour),
	})
	s.Require().NoError(err)
	return a
}

func (s *testSuite) TestSuccess() {
	s.createAccount(true)

	result, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: OLD_PASSWORD})

	s.Require().NoError(err)
	s.Equal(ACCOUNT_ID, result.Account.ID)
	s.Equal(NOW.Add(SESSION_TTL), result.Session.ExpiresAt)

	claims, err := s.SessionIssuer.Verify(result.Session.Token)
	s.Require().NoError(err)
	s.Equal(ACCOUNT_ID, claims.AccountID)
	s.Equal(account.RoleAgency, claims.Role)

	a, err := s.AccountRepository.GetByID(context.Background(), ACCOUNT_ID)
	s.Require().NoError(err)
	s.Equal(c.NewOptional(NOW, true), a.LastLoginAt)
}

func (s *testSuite) TestEmailIsNormalized() {
	s.createAccount(true)

	_, err := s.Service.Run(context.Background(), Input{Email: " A@X.COM", Password: OLD_PASSWORD})

	s.Require().NoError(err)
}

func (s *testSuite) TestWrongPassword() {
	s.createAccount(true)

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: "Wrong123!"})

	s.ErrorIs(err, account.ErrInvalidCredentials)
	s.Equal(0, s.SessionIssuer.IssuedCount())
}

func (s *testSuite) TestUnknownEmailIsIndistinguishableFromWrongPassword() {
	s.createAccount(true)

	_, wrongPasswordErr := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: "Wrong123!"})
	_, unknownEmailErr := s.Service.Run(context.Background(), Input{Email: "nobody@x.com", Password: "Wrong123!"})

	s.Equal(wrongPasswordErr, unknownEmailErr)
	s.Equal(e.InvalidCredentials, e.KindOf(unknownEmailErr))
}

func (s *testSuite) TestDeactivatedAccount() {
	s.createAccount(false)

	for _, password := range []account.RawPassword{OLD_PASSWORD, "Wrong123!"} {
		_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: password})
		s.ErrorIs(err, account.ErrAccountDeactivated)
	}
	s.Equal(0, s.SessionIssuer.IssuedCount())

	a, err := s.AccountRepository.GetByID(context.Background(), ACCOUNT_ID)
	s.Require().NoError(err)
	s.False(a.LastLoginAt.IsPresent)
}

func (s *testSuite) TestStorageFailure() {
	s.createAccount(true)
	s.AccountRepository.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: OLD_PASSWORD})

	s.Equal(e.StorageUnavailable, e.KindOf(err))
}

func (s *testSuite) TestSessionIssuerFailure() {
	s.createAccount(true)
	s.SessionIssuer.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: OLD_PASSWORD})

	s.Error(err)
}

func (s *testSuite) TestPasswordResetScenario() {
	s.createAccount(true)
	now := func() time.Time { return NOW }
	notifier := account.NewFakeNotifier()
	tokenHasher := account.NewFakeResetTokenHasher()
	requestReset := sendpasswordresettoken.New(
		s.Logger,
		s.AccountRepository,
		account.NewFakeResetTokenGenerator(),
		tokenHasher,
		notifier,
		10*time.Minute,
		now,
	)
	redeemReset := resetpassword.New(
		s.Logger,
		s.AccountRepository,
		tokenHasher,
		s.PasswordHasher,
		s.Starter,
		now,
	)

	_, err := requestReset.Run(context.Background(), sendpasswordresettoken.Input{Email: EMAIL})
	s.Require().NoError(err)
	token := notifier.LastSent()

	redeemed, err := redeemReset.Run(context.Background(), resetpassword.Input{Token: token, NewPassword: NEW_PASSWORD})
	s.Require().NoError(err)
	s.NotEmpty(redeemed.Session.Token)

	_, err = s.Service.Run(context.Background(), Input{Email: EMAIL, Password: NEW_PASSWORD})
	s.Require().NoError(err)

	_, err = s.Service.Run(context.Background(), Input{Email: EMAIL, Password: OLD_PASSWORD})
	s.ErrorIs(err, account.ErrInvalidCredentials)
}

func (s *testSuite) TestInputRateLimitKey() {
	s.Equal("log-in-with-email::a@x.com", Input{Email: " A@x.com"}.GetRateLimitKey())
}
