package setaccountactive

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	"adbridge/internal/core/services/auth"
	"context"
	"errors"
)

type Input struct {
	AccountID account.ID
	IsActive  bool
	Admin     account.Account
}

func (i Input) WithAuthenticatedAccount(a account.Account) auth.Input {
	i.Admin = a
	return i
}

type Result struct {
	Account account.Account
}

type service struct {
	log               logging.Logger
	accountRepository account.AccountRepository
}

func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	return &service{
		log:               log,
		accountRepository: accountRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.Admin.IsAdmin() {
		s.log.Warning(
			ctx,
			"Non-admin account tried to change account activity.",
			logging.Entry("accountId", input.Admin.ID),
		)
		return result, account.ErrNotAllowed
	}
	if input.AccountID == input.Admin.ID && !input.IsActive {
		return result, account.NewValidationError("admin can not deactivate own account")
	}

	a, err := s.accountRepository.SetActive(ctx, input.AccountID, input.IsActive)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrAccountDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not set account activity.",
			logging.Entry("accountId", input.AccountID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Account activity has been changed.",
		logging.Entry("accountId", a.ID),
		logging.Entry("isActive", a.IsActive),
		logging.Entry("adminId", input.Admin.ID),
	)
	return Result{Account: a}, nil
}
