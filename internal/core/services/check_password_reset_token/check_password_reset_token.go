package checkpasswordresettoken

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	Token account.ResetToken
}

type Result struct {
	ExpiresAt time.Time
}

type service struct {
	log               logging.Logger
	accountRepository account.AccountRepository
	resetTokenHasher  account.ResetTokenHasher
	now               func() time.Time
}

// New returns a read-only check used by clients to decide whether to show
// the new-password form. The token is not consumed.
func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
	resetTokenHasher account.ResetTokenHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if resetTokenHasher == nil {
		panic(e.NewNilArgumentError("resetTokenHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:               log,
		accountRepository: accountRepository,
		resetTokenHasher:  resetTokenHasher,
		now:               now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, account.ErrInvalidOrExpiredToken
	}
	a, err := s.accountRepository.GetByResetTokenHash(
		ctx,
		s.resetTokenHasher.HashResetToken(input.Token),
		s.now(),
	)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrInvalidOrExpiredToken) {
		return result, account.ErrInvalidOrExpiredToken
	}
	if err != nil {
		s.log.Error(ctx, "Could not get account by reset token.", logging.Entry("err", err))
		return result, err
	}
	return Result{ExpiresAt: a.PendingReset.Value.ExpiresAt}, nil
}
