package resetpassword

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	"adbridge/internal/core/services"
	startsession "adbridge/internal/core/services/start_session"
	"context"
	"errors"
	"time"
)

type Input struct {
	Token       account.ResetToken
	NewPassword account.RawPassword
}

type Result struct {
	Account account.Account
	Session account.Session
}

type service struct {
	log               logging.Logger
	accountRepository account.AccountRepository
	resetTokenHasher  account.ResetTokenHasher
	passwordHasher    account.PasswordHasher
	sessionStarter    *startsession.Starter
	now               func() time.Time
}

func New(
	log logging.Logger,
	accountRepository account.AccountRepository,
	resetTokenHasher account.ResetTokenHasher,
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
	if resetTokenHasher == nil {
		panic(e.NewNilArgumentError("resetTokenHasher"))
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
		resetTokenHasher:  resetTokenHasher,
		passwordHasher:    passwordHasher,
		sessionStarter:    sessionStarter,
		now:               now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := account.ValidateNewPassword(input.NewPassword); err != nil {
		return result, err
	}
	if input.Token == "" {
		return result, account.ErrInvalidOrExpiredToken
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash new password.", logging.Entry("err", err))
		return result, err
	}

	a, err := s.accountRepository.RedeemResetToken(ctx, account.RedeemResetTokenInput{
		TokenHash:    s.resetTokenHasher.HashResetToken(input.Token),
		PasswordHash: newPasswordHash,
		Now:          s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, account.ErrInvalidOrExpiredToken) {
		s.log.Info(ctx, "Invalid or expired password reset token.")
		return result, account.ErrInvalidOrExpiredToken
	}
	if err != nil {
		s.log.Error(ctx, "Could not redeem password reset token.", logging.Entry("err", err))
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("accountId", a.ID),
	)

	session, err := s.sessionStarter.Start(ctx, a)
	if err != nil {
		return result, err
	}
	return Result{Account: a, Session: session}, nil
}
