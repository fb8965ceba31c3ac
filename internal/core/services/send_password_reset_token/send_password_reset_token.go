package sendpasswordresettoken

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(c.NewEmail(string(i.Email)))
}

// Result is identical whether or not an account exists for the email.
type Result struct{}

type service struct {
	log                 logging.Logger
	accountRepository   account.AccountRepository
	resetTokenGenerator account.ResetTokenGenerator
	resetTokenHasher    account.ResetTokenHasher
	notifier            account.Notifier
	resetTokenTTL       time.Duration
	now                 func() time.Time
}

func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
	resetTokenGenerator account.ResetTokenGenerator,
	resetTokenHasher account.ResetTokenHasher,
	notifier account.Notifier,
	resetTokenTTL time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if resetTokenGenerator == nil {
		panic(e.NewNilArgumentError("resetTokenGenerator"))
	}
	if resetTokenHasher == nil {
		panic(e.NewNilArgumentError("resetTokenHasher"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if resetTokenTTL <= 0 {
		panic("resetTokenTTL must be positive")
	}
	return &service{
		log:                 log,
		accountRepository:   accountRepository,
		resetTokenGenerator: resetTokenGenerator,
		resetTokenHasher:    resetTokenHasher,
		notifier:            notifier,
		resetTokenTTL:       resetTokenTTL,
		now:                 now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	email := c.NewEmail(string(input.Email))

	a, err := s.accountRepository.GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrAccountDoesNotExist) {
		// Token generation and hashing are repeated here. The store write and the
		// notifier call are not, so latency still differs from the found path.
		if token, err := s.resetTokenGenerator.GenerateResetToken(); err == nil {
			s.resetTokenHasher.HashResetToken(token)
		}
		s.log.Info(ctx, "Password reset requested for unknown email.")
		return Result{}, nil
	}
	if err != nil {
		s.log.Error(ctx, "Could not get account for password reset.", logging.Entry("err", err))
		return result, err
	}

	token, err := s.resetTokenGenerator.GenerateResetToken()
	if err != nil {
		s.log.Error(
			ctx,
			"Could not generate password reset token.",
			logging.Entry("accountId", a.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	reset := account.PendingReset{
		TokenHash: s.resetTokenHasher.HashResetToken(token),
		ExpiresAt: s.now().Add(s.resetTokenTTL),
	}
	err = s.accountRepository.SetResetToken(ctx, a.ID, reset)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrAccountDoesNotExist) {
		s.log.Info(ctx, "Account removed before password reset token was stored.", logging.Entry("accountId", a.ID))
		return Result{}, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not store password reset token.",
			logging.Entry("accountId", a.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	a.PendingReset = c.NewOptional(reset, true)

	// The stored token stays valid even if delivery fails, the caller may retry.
	if err := s.notifier.SendPasswordResetLink(ctx, a, token); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset link.",
			logging.Entry("accountId", a.ID),
			logging.Entry("err", err),
		)
		return result, account.NewDeliveryError(err)
	}

	s.log.Info(
		ctx,
		"Password reset link has been sent.",
		logging.Entry("accountId", a.ID),
		logging.Entry("expiresAt", reset.ExpiresAt),
	)
	return Result{}, nil
}
