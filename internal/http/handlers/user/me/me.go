package me

import (
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/services"
	service "adbridge/internal/core/services/get_current_account"
	"adbridge/internal/http/handlers/response"
	"net/http"
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
	Account response.Account `json:"account"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(
		r.Context(),
		service.Input{},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	res := Result{Envelope: response.OK("")}
	res.Account.FromDomainAccount(result.Account)
	response.Render(rw, res, http.StatusOK)
}
