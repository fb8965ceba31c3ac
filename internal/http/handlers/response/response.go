package response

import (
	e "adbridge/internal/core/domain/errors"
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope is embedded into every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

type validationErrorResponse struct {
	Envelope
	Errors error `json:"errors,omitempty"`
}

const (
	MessageInvalidRequestData    = "invalid request data"
	MessageInvalidCredentials    = "invalid credentials"
	MessageInvalidOrExpiredToken = "invalid or expired password reset token"
	MessageUnauthorized          = "invalid authentication token"
	MessageAccountDeactivated    = "account is deactivated"
	MessageForbidden             = "operation is not allowed"
	MessageNotFound              = "not found"
	MessageConflict              = "email already exists"
	MessageRateLimitExceeded     = "rate limit exceeded"
	MessageDeliveryFailure       = "could not deliver password reset link, try again later"
	MessageStorageUnavailable    = "service temporarily unavailable"
	MessageInternalError         = "internal error"
)

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, MessageUnauthorized, http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, MessageInternalError, http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter) {
	RenderError(rw, MessageRateLimitExceeded, http.StatusTooManyRequests)
}

func RenderInvalidRequestData(rw http.ResponseWriter) {
	RenderError(rw, MessageInvalidRequestData, http.StatusBadRequest)
}

// RenderValidationError renders field errors produced by ozzo-validation.
func RenderValidationError(rw http.ResponseWriter, err error) {
	Render(
		rw,
		validationErrorResponse{
			Envelope: Envelope{Success: false, Message: MessageInvalidRequestData},
			Errors:   err,
		},
		http.StatusBadRequest,
	)
}

// RenderServiceError maps an error returned by a service to a status code.
// Every kind except Validation is rendered with a constant message, so the
// response never depends on the underlying cause.
func RenderServiceError(rw http.ResponseWriter, err error) {
	switch e.KindOf(err) {
	case e.Validation:
		var domainErr *e.Error
		errors.As(err, &domainErr)
		RenderError(rw, domainErr.Message(), http.StatusBadRequest)
	case e.InvalidCredentials:
		RenderError(rw, MessageInvalidCredentials, http.StatusUnauthorized)
	case e.InvalidOrExpiredToken:
		RenderError(rw, MessageInvalidOrExpiredToken, http.StatusUnauthorized)
	case e.Unauthorized:
		RenderUnauthorized(rw)
	case e.AccountDeactivated:
		RenderError(rw, MessageAccountDeactivated, http.StatusForbidden)
	case e.Forbidden:
		RenderError(rw, MessageForbidden, http.StatusForbidden)
	case e.NotFound:
		RenderError(rw, MessageNotFound, http.StatusNotFound)
	case e.Conflict:
		RenderError(rw, MessageConflict, http.StatusConflict)
	case e.RateLimited:
		RenderRateLimitExceeded(rw)
	case e.DeliveryFailure:
		RenderError(rw, MessageDeliveryFailure, http.StatusBadGateway)
	case e.StorageUnavailable:
		RenderError(rw, MessageStorageUnavailable, http.StatusServiceUnavailable)
	default:
		RenderInternalError(rw)
	}
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, Envelope{Success: false, Message: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
