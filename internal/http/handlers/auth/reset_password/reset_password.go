package resetpassword

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/services"
	resetpassword "adbridge/internal/core/services/reset_password"
	"adbridge/internal/http/handlers/response"
	"encoding/json"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type Result struct {
	response.Envelope
	Account response.Account `json:"account"`
	Session response.Session `json:"session"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 512)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequestData(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderValidationError(rw, err)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		resetpassword.Input{
			Token:       account.ResetToken(input.Token),
			NewPassword: account.RawPassword(input.Password),
		},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	res := Result{Envelope: response.OK("password has been reset")}
	res.Account.FromDomainAccount(result.Account)
	res.Session.FromDomainSession(result.Session)
	response.Render(rw, res, http.StatusOK)
}
