package loginwithemail

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	startsession "adbridge/internal/core/services/start_session"
	"context"
	"errors"
)

type Input struct {
	Email    c.Email
	Password account.RawPassword
}

func (i Input) GetRateLimitKey() string {
	return "log-in-with-email::" + string(c.NewEmail(string(i.Email)))
}

type Result struct {
	Account account.Account
	Session account.Session
}

type service struct {
	log               logging.Logger
	accountRepository account.AccountRepository
	passwordHasher    account.PasswordHasher
	sessionStarter    *startsession.Starter
}

func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
	passwordHasher account.PasswordHasher,
	sessionStarter *startsession.Starter,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if sessionStarter == nil {
		panic(e.NewNilArgumentError("sessionStarter"))
	}
	return &service{
		log:               log,
		accountRepository: accountRepository,
		passwordHasher:    passwordHasher,
		sessionStarter:    sessionStarter,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	email := c.NewEmail(string(input.Email))

	a, err := s.accountRepository.GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrAccountDoesNotExist) {
		// Minimize risk for timing attacks
		s.passwordHasher.HashPassword(input.Password)
		return result, account.ErrInvalidCredentials
	}
	if err != nil {
		s.log.Error(ctx, "Could not get account by email.", logging.Entry("err", err))
		return result, err
	}

	isPasswordValid := s.passwordHasher.ValidatePassword(input.Password, a.PasswordHash)
	if !a.IsActive {
		s.log.Info(ctx, "Deactivated account tried to log in.", logging.Entry("accountId", a.ID))
		return result, account.ErrAccountDeactivated
	}
	if !isPasswordValid {
		return result, account.ErrInvalidCredentials
	}

	session, err := s.sessionStarter.Start(ctx, a)
	if err != nil {
		return result, err
	}

	s.log.Info(
		ctx,
		"Account successfully authenticated, session issued.",
		logging.Entry("accountId", a.ID),
	)
	return Result{Account: a, Session: session}, nil
}
