package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealth - liveness и readiness без авторизации
func TestHealth(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"ok"`)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/health/ready", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, `"database":"up"`)
}
