package signupwithemail

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	startsession "adbridge/internal/core/services/start_session"
	"context"
	"errors"
	"time"
)

type Input struct {
	Email    c.Email
	Password account.RawPassword
	Name     string
	Role     account.Role
}

func (i Input) GetRateLimitKey() string {
	return "sign-up-with-email::" + string(c.NewEmail(string(i.Email)))
}

type Result struct {
	Account account.Account
	Session account.Session
}

type service struct {
	log               logging.Logger
	accountRepository account.AccountRepository
	identityGenerator account.IdentityGenerator
	passwordHasher    account.PasswordHasher
	sessionStarter    *startsession.Starter
	now               func() time.Time
}

func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
	identityGenerator account.IdentityGenerator,
	passwordHasher account.PasswordHasher,
	sessionStarter *startsession.Starter,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if identityGenerator == nil {
		panic(e.NewNilArgumentError("identityGenerator"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if sessionStarter == nil {
		panic(e.NewNilArgumentError("sessionStarter"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:               log,
		accountRepository: accountRepository,
		identityGenerator: identityGenerator,
		passwordHasher:    passwordHasher,
		sessionStarter:    sessionStarter,
		now:               now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Role != account.RoleAgency && input.Role != account.RoleClient {
		return result, account.NewValidationError("role must be either agency or client")
	}
	email := c.NewEmail(string(input.Email))
	if email == "" {
		return result, account.NewValidationError("email must not be empty")
	}
	if err := account.ValidateNewPassword(input.Password); err != nil {
		return result, err
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	a, err := s.accountRepository.Create(ctx, account.CreateAccountInput{
		ID:           s.identityGenerator.GenerateID(),
		Email:        email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrEmailAlreadyExists) {
		s.log.Info(ctx, "Account with the email already exists.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not create new account.", logging.Entry("err", err))
		return result, err
	}

	s.log.Info(
		ctx,
		"New account has been created.",
		logging.Entry("accountId", a.ID),
		logging.Entry("role", a.Role),
	)

	session, err := s.sessionStarter.Start(ctx, a)
	if err != nil {
		return result, err
	}
	return Result{Account: a, Session: session}, nil
}
