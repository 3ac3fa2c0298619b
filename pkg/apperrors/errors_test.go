package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Parallel()

	plain := New(CodeNotFound, "resume", "Resume not found", http.StatusNotFound)
	assert.Equal(t, "[resume:NOT_FOUND] Resume not found", plain.Error())

	wrapped := Wrap(errors.New("sql: no rows"), CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
	assert.Contains(t, wrapped.Error(), "sql: no rows")
}

func TestWrap_PreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := Wrap(cause, CodeExternalServiceError, "ai", "External service error", http.StatusBadGateway)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestAsAppError(t *testing.T) {
	t.Parallel()

	appErr, ok := AsAppError(NewNotFoundError("team", "Team not found"))
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, "team", appErr.Domain)

	// Работает и через цепочку fmt.Errorf
	chained := fmt.Errorf("handler: %w", NewUnauthorizedError("Invalid token"))
	appErr, ok = AsAppError(chained)
	require.True(t, ok)
	assert.Equal(t, CodeUnauthorized, appErr.Code)

	_, ok = AsAppError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestConstructors_HTTPCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      *AppError
		code     ErrorCode
		httpCode int
	}{
		{NewBadRequestError("bad"), CodeValidationFailed, http.StatusBadRequest},
		{NewUnauthorizedError("no"), CodeUnauthorized, http.StatusUnauthorized},
		{NewForbiddenError("no"), CodeForbidden, http.StatusForbidden},
		{NewNotFoundError("d", "m"), CodeNotFound, http.StatusNotFound},
		{NewConflictError("d", "m"), CodeConflict, http.StatusConflict},
		{NewRateLimitedError("d", "m"), CodeRateLimited, http.StatusTooManyRequests},
		{InternalError(errors.New("x")), CodeInternalError, http.StatusInternalServerError},
		{ExternalServiceError("ai", errors.New("x")), CodeExternalServiceError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.httpCode, tt.err.HTTPCode)
	}
}

func TestMarshalJSON_HidesInternals(t *testing.T) {
	t.Parallel()

	err := Wrap(errors.New("secret cause"), CodeInternalError, "system", "Internal server error", http.StatusInternalServerError).
		WithDetails(map[string]string{"field": "email"})

	data, jerr := json.Marshal(err)
	require.NoError(t, jerr)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "INTERNAL_ERROR", decoded["code"])
	assert.NotContains(t, string(data), "secret cause")
	assert.NotContains(t, string(data), "http")
}

func TestHandleError_WritesAppErrorResponse(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, NewNotFoundError("resume", "Resume not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resume not found", resp.Error.Message)
}

func TestHandleError_UnknownErrorBecomes500(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
