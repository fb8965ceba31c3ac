package response

import (
	"adbridge/internal/core/domain/account"
	e "adbridge/internal/core/domain/errors"
	ratelimiter "adbridge/internal/core/domain/rate_limiter"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderServiceError(t *testing.T) {
	cases := []struct {
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			err:            account.NewValidationError("password is too short"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success": false, "message": "password is too short"}`,
		},
		{
			err:            account.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "message": "invalid credentials"}`,
		},
		{
			err:            account.ErrInvalidOrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "message": "invalid or expired password reset token"}`,
		},
		{
			err:            account.ErrInvalidSession,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "message": "invalid authentication token"}`,
		},
		{
			err:            account.ErrAccountDeactivated,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"success": false, "message": "account is deactivated"}`,
		},
		{
			err:            account.ErrNotAllowed,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"success": false, "message": "operation is not allowed"}`,
		},
		{
			err:            account.ErrAccountDoesNotExist,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"success": false, "message": "not found"}`,
		},
		{
			err:            account.ErrEmailAlreadyExists,
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"success": false, "message": "email already exists"}`,
		},
		{
			err:            ratelimiter.ErrRateLimitExceeded,
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `{"success": false, "message": "rate limit exceeded"}`,
		},
		{
			err:            account.NewDeliveryError(errors.New("smtp: 421")),
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"success": false, "message": "could not deliver password reset link, try again later"}`,
		},
		{
			err:            fmt.Errorf("get account: %w", account.NewStorageError(context.DeadlineExceeded)),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"success": false, "message": "service temporarily unavailable"}`,
		},
		{
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success": false, "message": "internal error"}`,
		},
	}

	for _, testcase := range cases {
		t.Run(e.KindOf(testcase.err).String(), func(t *testing.T) {
			rr := httptest.NewRecorder()

			RenderServiceError(rr, testcase.err)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, testcase.expectedBody, rr.Body.String())
		})
	}
}

func TestCauseIsNeverRendered(t *testing.T) {
	rr := httptest.NewRecorder()

	RenderServiceError(rr, account.NewStorageError(errors.New("dial tcp 10.0.0.1:5432: connection refused")))

	assert.NotContains(t, rr.Body.String(), "10.0.0.1")
}
