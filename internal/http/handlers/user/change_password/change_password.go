package changepassword

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/services"
	changepassword "adbridge/internal/core/services/change_password"
	"adbridge/internal/http/handlers/response"
	"encoding/json"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[changepassword.Input, changepassword.Result]
}

func New(
	service services.Service[changepassword.Input, changepassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CurrentPassword, validation.Required, validation.Length(0, 512)),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(0, 512)),
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

	_, err := h.service.Run(
		r.Context(),
		changepassword.Input{
			CurrentPassword: account.RawPassword(input.CurrentPassword),
			NewPassword:     account.RawPassword(input.NewPassword),
		},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	response.Render(rw, response.OK("password has been changed"), http.StatusOK)
}
