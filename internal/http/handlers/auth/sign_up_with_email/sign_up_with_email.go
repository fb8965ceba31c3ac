package signupwithemail

import (
	"adbridge/internal/core/domain/account"
	c "adbridge/internal/core/domain/common"
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/services"
	signupwithemail "adbridge/internal/core/services/sign_up_with_email"
	"adbridge/internal/http/handlers/response"
	"encoding/json"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[signupwithemail.Input, signupwithemail.Result]
}

func New(
	service services.Service[signupwithemail.Input, signupwithemail.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
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
		validation.Field(&i.Name, validation.Length(0, 256)),
		validation.Field(
			&i.Role,
			validation.Required,
			validation.In(string(account.RoleAgency), string(account.RoleClient)),
		),
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
		signupwithemail.Input{
			Email:    c.NewEmail(input.Email),
			Password: account.RawPassword(input.Password),
			Name:     input.Name,
			Role:     account.Role(input.Role),
		},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	res := Result{Envelope: response.OK("account has been created")}
	res.Account.FromDomainAccount(result.Account)
	res.Session.FromDomainSession(result.Session)
	response.Render(rw, res, http.StatusCreated)
}
