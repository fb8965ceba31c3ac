package changepassword

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	"adbridge/internal/core/services/auth"
	"context"
)

type Input struct {
	CurrentPassword account.RawPassword
	NewPassword     account.RawPassword
	Account         account.Account
}

func (i Input) WithAuthenticatedAccount(a account.Account) auth.Input {
	i.Account = a
	return i
}

type Result struct{}

type service struct {
	log               logging.Logger
	accountRepository account.AccountRepository
	passwordHasher    account.PasswordHasher
}

func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
	passwordHasher account.PasswordHasher,
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
	return &service{
		log:               log,
		passwordHasher:    passwordHasher,
		accountRepository: accountRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	isCurrentPasswordValid := s.passwordHasher.ValidatePassword(
		input.CurrentPassword,
		input.Account.PasswordHash,
	)
	if !isCurrentPasswordValid {
		return result, account.ErrInvalidCredentials
	}
	if err := account.ValidateNewPassword(input.NewPassword); err != nil {
		return result, err
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash new password.", logging.Entry("err", err))
		return result, err
	}
	if err := s.accountRepository.SetPassword(ctx, input.Account.ID, newPasswordHash); err != nil {
		s.log.Error(
			ctx,
			"Could not set new password.",
			logging.Entry("accountId", input.Account.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "Password has been changed.", logging.Entry("accountId", input.Account.ID))
	return Result{}, nil
}
