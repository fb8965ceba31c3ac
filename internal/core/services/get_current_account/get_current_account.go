package getcurrentaccount

import (
	"adbridge/internal/core/domain/account"
	"adbridge/internal/core/services"
	"adbridge/internal/core/services/auth"
	"context"
)

type Input struct {
	Account account.Account
}

func (i Input) WithAuthenticatedAccount(a account.Account) auth.Input {
	i.Account = a
	return i
}

type Result struct {
	Account account.Account
}

type service struct{}

// New must be wrapped with auth.WithAuthentication, which resolves the account.
func New() services.Service[Input, Result] {
	return &service{}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	return Result{Account: input.Account}, nil
}
