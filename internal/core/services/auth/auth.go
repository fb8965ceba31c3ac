package auth

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	"context"
	"errors"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

type Input interface {
	WithAuthenticatedAccount(a account.Account) Input
}

type service[T Input, S any] struct {
	log               logging.Logger
	sessionIssuer     account.SessionIssuer
	accountRepository account.AccountRepository
	inner             services.Service[T, S]
}

// WithAuthentication resolves the session token stored in the context under
// CONTEXT_AUTH_TOKEN_KEY into an active account and passes it to inner.
func WithAuthentication[T Input, S any](
	log logging.Logger,
	sessionIssuer account.SessionIssuer,
	accountRepository account.AccountRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sessionIssuer == nil {
		panic(e.NewNilArgumentError("sessionIssuer"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		log:               log,
		sessionIssuer:     sessionIssuer,
		accountRepository: accountRepository,
		inner:             inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	token, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(account.SessionToken)
	if !ok || token == "" {
		return result, account.ErrInvalidSession
	}
	claims, err := s.sessionIssuer.Verify(token)
	if err != nil {
		return result, account.ErrInvalidSession
	}

	a, err := s.accountRepository.GetByID(ctx, claims.AccountID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrAccountDoesNotExist) {
		s.log.Warning(
			ctx,
			"Session refers to an account that does not exist.",
			logging.Entry("accountId", claims.AccountID),
		)
		return result, account.ErrInvalidSession
	}
	if err != nil {
		s.log.Error(ctx, "Could not get account by id.", logging.Entry("err", err))
		return result, err
	}
	if !a.IsActive {
		return result, account.ErrAccountDeactivated
	}
	return s.inner.Run(ctx, input.WithAuthenticatedAccount(a).(T))
}
