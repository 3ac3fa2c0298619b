package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehub/internal/models"
	"resumehub/test/helpers"
)

// TestAuth_RegisterAndLogin - полный флоу регистрации и входа
func TestAuth_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("register")

	// Регистрация
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"full_name": "New User",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "Registration successful")

	// Повторная отправка письма подтверждения не раскрывает базу
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/resend-verification", "", map[string]interface{}{
		"email": email,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/resend-verification", "", map[string]interface{}{
		"email": helpers.UniqueEmail("ghost"),
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Повторная регистрация на тот же email
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"full_name": "New User",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Вход
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	var authResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			Email string `json:"email"`
			Tier  string `json:"tier"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &authResp))
	assert.NotEmpty(t, authResp.AccessToken)
	assert.NotEmpty(t, authResp.RefreshToken)
	assert.Equal(t, email, authResp.User.Email)

	// Защищенный маршрут доступен с токеном
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", authResp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, email)
}

// TestAuth_LoginWrongPassword - неверный пароль дает 401
func TestAuth_LoginWrongPassword(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("wrongpass")
	helpers.CreateAndLoginUser(t, ts, "Wrong Pass", email, "password123", models.UserRoleUser)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "Ответ: "+bodyStr)
}

// TestAuth_RefreshRotation - refresh-токен одноразовый
func TestAuth_RefreshRotation(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("refresh")
	helpers.CreateAndLoginUser(t, ts, "Refresh User", email, "password123", models.UserRoleUser)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var login struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &login))

	// Обмен refresh-токена
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": login.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	var refreshed struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Старый токен больше не работает
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestAuth_ChangePassword - смена пароля и вход с новым
func TestAuth_ChangePassword(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("changepass")
	token, _ := helpers.CreateAndLoginUser(t, ts, "Change Pass", email, "password123", models.UserRoleUser)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", token, map[string]interface{}{
		"current_password": "password123",
		"new_password":     "newpassword456",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	// Старый пароль не работает, новый работает
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "newpassword456",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestAuth_ProtectedRouteWithoutToken - без токена доступа нет
func TestAuth_ProtectedRouteWithoutToken(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
