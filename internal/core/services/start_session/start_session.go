package startsession

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"context"
	"errors"
	"time"
)

// Starter issues a session credential for an account whose identity has
// already been proven, either by password or by a redeemed reset token.
type Starter struct {
	log               logging.Logger
	accountRepository account.AccountRepository
	sessionIssuer     account.SessionIssuer
	now               func() time.Time
}

func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
	sessionIssuer account.SessionIssuer,
	now func() time.Time,
) *Starter {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if sessionIssuer == nil {
		panic(e.NewNilArgumentError("sessionIssuer"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Starter{
		log:               log,
		accountRepository: accountRepository,
		sessionIssuer:     sessionIssuer,
		now:               now,
	}
}

func (s *Starter) Start(ctx context.Context, a account.Account) (session account.Session, err error) {
	if !a.IsActive {
		return session, account.ErrAccountDeactivated
	}

	err = s.accountRepository.SetLastLoginAt(ctx, a.ID, s.now())
	if errors.Is(err, context.Canceled) {
		return session, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update last login time of account.",
			logging.Entry("accountId", a.ID),
			logging.Entry("err", err),
		)
		return session, err
	}

	session, err = s.sessionIssuer.Issue(a)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue session for account.",
			logging.Entry("accountId", a.ID),
			logging.Entry("err", err),
		)
		return session, err
	}
	return session, nil
}
