package setaccountactive

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/services"
	service "adbridge/internal/core/services/set_account_active"
	"adbridge/internal/http/handlers/response"
	"encoding/json"
	"io"
	"net/http"

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

type Input struct {
	IsActive *bool `json:"is_active"`
}

type Result struct {
	response.Envelope
	Account response.Account `json:"account"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.IsActive, validation.NotNil),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if err := validation.Validate(accountID, validation.Required, validation.Length(0, 64)); err != nil {
		response.RenderError(rw, response.MessageNotFound, http.StatusNotFound)
		return
	}

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
		service.Input{AccountID: account.ID(accountID), IsActive: *input.IsActive},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	res := Result{Envelope: response.OK("account has been updated")}
	res.Account.FromDomainAccount(result.Account)
	response.Render(rw, res, http.StatusOK)
}
