package app

import (
	"adbridge/internal/app/deps"
	"adbridge/internal/app/services"
	setaccountactive "adbridge/internal/http/handlers/accounts/set_account_active"
	"adbridge/internal/http/handlers/auth"
	checkpasswordresettoken "adbridge/internal/http/handlers/auth/check_password_reset_token"
	loginwithemail "adbridge/internal/http/handlers/auth/log_in_with_email"
	resetpassword "adbridge/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "adbridge/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "adbridge/internal/http/handlers/auth/sign_up_with_email"
	changepassword "adbridge/internal/http/handlers/user/change_password"
	me "adbridge/internal/http/handlers/user/me"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           NewRouter(deps.Config.AllowedOrigins, s),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(allowedOrigins []string, s *services.Services) http.Handler {
	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/signup", signupwithemail.New(s.SignUpWithEmail))
	authRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail))
	authRouter.Method(
		http.MethodPost,
		"/password_reset/token",
		sendpasswordresettoken.New(s.SendPasswordResetToken),
	)
	authRouter.Method(
		http.MethodGet,
		"/password_reset/{token}",
		checkpasswordresettoken.New(s.CheckPasswordResetToken),
	)
	authRouter.Method(http.MethodPut, "/password_reset", resetpassword.New(s.ResetPassword))

	profileRouter := chi.NewRouter()
	profileRouter.Use(auth.SetAuthTokenToContext)
	profileRouter.Method(http.MethodGet, "/me", me.New(s.GetCurrentAccount))
	profileRouter.Method(http.MethodPut, "/password", changepassword.New(s.ChangePassword))

	accountsRouter := chi.NewRouter()
	accountsRouter.Use(auth.SetAuthTokenToContext)
	accountsRouter.Method(http.MethodPut, "/{accountID}/active", setaccountactive.New(s.SetAccountActive))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/profile", profileRouter)
	router.Mount("/accounts", accountsRouter)

	return router
}
