package loginwithemail

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/services"
	loginwithemail "adbridge/internal/core/services/log_in_with_email"
	"adbridge/internal/http/handlers/response"
	"encoding/json"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[loginwithemail.Input, loginwithemail.Result]
}

func New(
	service services.Service[loginwithemail.Input, loginwithemail.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Email    string `json:"email"`
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
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
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
		loginwithemail.Input{Email: c.NewEmail(input.Email), Password: account.RawPassword(input.Password)},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	res := Result{Envelope: response.OK("logged in")}
	res.Account.FromDomainAccount(result.Account)
	res.Session.FromDomainSession(result.Session)
	response.Render(rw, res, http.StatusOK)
}
