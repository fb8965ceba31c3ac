package services

import (
	"adbridge/internal/app/deps"
	drl "adbridge/internal/core/domain/rate_limiter"
	"adbridge/internal/core/services"
	"adbridge/internal/core/services/auth"
	changepassword "adbridge/internal/core/services/change_password"
	checkpasswordresettoken "adbridge/internal/core/services/check_password_reset_token"
	getcurrentaccount "adbridge/internal/core/services/get_current_account"
	loginwithemail "adbridge/internal/core/services/log_in_with_email"
	ratelimiting "adbridge/internal/core/services/rate_limiting"
	resetpassword "adbridge/internal/core/services/reset_password"
	sendpasswordresettoken "adbridge/internal/core/services/send_password_reset_token"
	setaccountactive "adbridge/internal/core/services/set_account_active"
	signupwithemail "adbridge/internal/core/services/sign_up_with_email"
	startsession "adbridge/internal/core/services/start_session"
)

type Services struct {
	SignUpWithEmail         services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail          services.Service[loginwithemail.Input, loginwithemail.Result]
	SendPasswordResetToken  services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	CheckPasswordResetToken services.Service[checkpasswordresettoken.Input, checkpasswordresettoken.Result]
	ResetPassword           services.Service[resetpassword.Input, resetpassword.Result]
	ChangePassword          services.Service[changepassword.Input, changepassword.Result]
	GetCurrentAccount       services.Service[getcurrentaccount.Input, getcurrentaccount.Result]
	SetAccountActive        services.Service[setaccountactive.Input, setaccountactive.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	sessionStarter := startsession.New(
		deps.Logger,
		deps.AccountRepository,
		deps.SessionIssuer,
		deps.Now,
	)

	s.SignUpWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerHour(deps.Config.SignUpRateLimit),
		signupwithemail.New(
			deps.Logger,
			deps.AccountRepository,
			deps.IdentityGenerator,
			deps.PasswordHasher,
			sessionStarter,
			deps.Now,
		),
	)
	s.LogInWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerHour(deps.Config.LogInRateLimit),
		loginwithemail.New(
			deps.Logger,
			deps.AccountRepository,
			deps.PasswordHasher,
			sessionStarter,
		),
	)
	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerHour(deps.Config.PasswordResetRateLimit),
		sendpasswordresettoken.New(
			deps.Logger,
			deps.AccountRepository,
			deps.ResetTokenGenerator,
			deps.ResetTokenHasher,
			deps.Notifier,
			deps.Config.PasswordResetTTL,
			deps.Now,
		),
	)
	s.CheckPasswordResetToken = checkpasswordresettoken.New(
		deps.Logger,
		deps.AccountRepository,
		deps.ResetTokenHasher,
		deps.Now,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.AccountRepository,
		deps.ResetTokenHasher,
		deps.PasswordHasher,
		sessionStarter,
		deps.Now,
	)
	s.ChangePassword = auth.WithAuthentication(
		deps.Logger,
		deps.SessionIssuer,
		deps.AccountRepository,
		changepassword.New(
			deps.Logger,
			deps.AccountRepository,
			deps.PasswordHasher,
		),
	)
	s.GetCurrentAccount = auth.WithAuthentication(
		deps.Logger,
		deps.SessionIssuer,
		deps.AccountRepository,
		getcurrentaccount.New(),
	)
	s.SetAccountActive = auth.WithAuthentication(
		deps.Logger,
		deps.SessionIssuer,
		deps.AccountRepository,
		setaccountactive.New(
			deps.Logger,
			deps.AccountRepository,
		),
	)

	return s
}
