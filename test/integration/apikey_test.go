package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehub/internal/models"
	"resumehub/test/helpers"
)

// sendWithAPIKey отправляет запрос на программный API с заголовком X-API-Key
func sendWithAPIKey(t *testing.T, ts *helpers.TestServer, method, path, apiKey string) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.Server.URL+path, nil)
	require.NoError(t, err)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

// TestAPIKey_CreateAndUse - выпуск ключа и доступ к программному API
func TestAPIKey_CreateAndUse(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("apikey")
	token, _ := helpers.CreateAndLoginUser(t, ts, "API User", email, "password123", models.UserRoleUser)

	// Выпуск ключа
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/api-keys", token, map[string]interface{}{
		"name": "ci-pipeline",
		"type": "development",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var created struct {
		ID        string `json:"id"`
		Key       string `json:"key"`
		KeyPrefix string `json:"key_prefix"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.Key)
	assert.Contains(t, created.Key, "rh_")

	// Открытый ключ показывается только при создании
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/api-keys", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, created.KeyPrefix)
	assert.NotContains(t, bodyStr, created.Key)

	// Переименование
	res, bodyStr = ts.SendRequest(t, http.MethodPut, "/api/v1/api-keys/"+created.ID, token, map[string]interface{}{
		"name": "ci-pipeline-v2",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "ci-pipeline-v2")

	// Ключ открывает программный API
	res, bodyStr = sendWithAPIKey(t, ts, http.MethodGet, "/api/public/v1/resumes", created.Key)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, `"resumes"`)

	// Без заголовка - отказ
	res, _ = sendWithAPIKey(t, ts, http.MethodGet, "/api/public/v1/resumes", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Отозванный ключ перестает работать
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/api-keys/"+created.ID+"/revoke", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = sendWithAPIKey(t, ts, http.MethodGet, "/api/public/v1/resumes", created.Key)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestAPIKey_OwnershipIsolation - чужой ключ нельзя отозвать или удалить
func TestAPIKey_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "Key Owner", helpers.UniqueEmail("keyowner"), "password123", models.UserRoleUser)
	otherToken, _ := helpers.CreateAndLoginUser(t, ts, "Key Other", helpers.UniqueEmail("keyother"), "password123", models.UserRoleUser)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/api-keys", ownerToken, map[string]interface{}{
		"name": "secret",
		"type": "development",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/api-keys/"+created.ID+"/revoke", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/api-keys/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Владелец удаляет свой ключ
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/api-keys/"+created.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
