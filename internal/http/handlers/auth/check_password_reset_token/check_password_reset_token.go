package checkpasswordresettoken

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/services"
	service "adbridge/internal/core/services/check_password_reset_token"
	"adbridge/internal/http/handlers/response"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	response.Envelope
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := validation.Validate(token, validation.Required, validation.Length(0, 1024)); err != nil {
		response.RenderError(rw, response.MessageInvalidOrExpiredToken, http.StatusUnauthorized)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{Token: account.ResetToken(token)})
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	response.Render(
		rw,
		Result{Envelope: response.OK("password reset token is valid"), ExpiresAt: result.ExpiresAt},
		http.StatusOK,
	)
}
