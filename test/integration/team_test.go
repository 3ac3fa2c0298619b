package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehub/internal/models"
	"resumehub/test/helpers"
)

func uniqueDomain(prefix string) string {
	return fmt.Sprintf("%s-%d.example.com", prefix, time.Now().UnixNano())
}

func createTeam(t *testing.T, ts *helpers.TestServer, token, name, domain string) string {
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/teams", token, map[string]interface{}{
		"name":   name,
		"domain": domain,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var team struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &team))
	require.NotEmpty(t, team.ID)
	return team.ID
}

// TestTeam_CreateAndMembers - создание команды и управление участниками
func TestTeam_CreateAndMembers(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "Team Owner", helpers.UniqueEmail("teamowner"), "password123", models.UserRoleUser)
	memberEmail := helpers.UniqueEmail("teammember")
	memberToken, member := helpers.CreateAndLoginUser(t, ts, "Team Member", memberEmail, "password123", models.UserRoleUser)

	teamID := createTeam(t, ts, ownerToken, "Hiring Squad", uniqueDomain("squad"))

	// Создатель - единственный участник
	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID+"/members", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"role":"owner"`)

	// Не-участник команду не видит
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Приглашение по email
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/teams/"+teamID+"/members", ownerToken, map[string]interface{}{
		"email": memberEmail,
		"role":  "member",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	// Повторное приглашение - конфликт
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/teams/"+teamID+"/members", ownerToken, map[string]interface{}{
		"email": memberEmail,
		"role":  "member",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Теперь участник видит команду
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID, memberToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Повышение до admin
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/teams/"+teamID+"/members/"+member.ID, ownerToken, map[string]interface{}{
		"role": "admin",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Owner удалить нельзя
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID+"/members", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var membersResp struct {
		Members []struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		} `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &membersResp))
	require.Len(t, membersResp.Members, 2)

	var ownerID string
	for _, m := range membersResp.Members {
		if m.Role == "owner" {
			ownerID = m.UserID
		}
	}
	require.NotEmpty(t, ownerID)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/teams/"+teamID+"/members/"+ownerID, ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Обычного участника - можно
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/teams/"+teamID+"/members/"+member.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestTeam_FreeTierMemberLimit - free-команда ограничена тремя участниками
func TestTeam_FreeTierMemberLimit(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "Limit Owner", helpers.UniqueEmail("limitowner"), "password123", models.UserRoleUser)
	teamID := createTeam(t, ts, ownerToken, "Full House", uniqueDomain("full"))

	// Owner + 2 участника = лимит free-тарифа
	for i := 0; i < 2; i++ {
		email := helpers.UniqueEmail(fmt.Sprintf("filler%d", i))
		helpers.CreateAndLoginUser(t, ts, "Filler", email, "password123", models.UserRoleUser)

		res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/teams/"+teamID+"/members", ownerToken, map[string]interface{}{
			"email": email,
			"role":  "member",
		})
		require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)
	}

	extraEmail := helpers.UniqueEmail("extra")
	helpers.CreateAndLoginUser(t, ts, "Extra", extraEmail, "password123", models.UserRoleUser)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/teams/"+teamID+"/members", ownerToken, map[string]interface{}{
		"email": extraEmail,
		"role":  "member",
	})
	assert.Equal(t, http.StatusPaymentRequired, res.StatusCode, "Ответ: "+bodyStr)
}

// TestTeam_Projects - жизненный цикл проекта внутри команды
func TestTeam_Projects(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "Project Owner", helpers.UniqueEmail("projowner"), "password123", models.UserRoleUser)
	teamID := createTeam(t, ts, ownerToken, "Project Team", uniqueDomain("proj"))

	// Создание проекта
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/teams/"+teamID+"/projects", ownerToken, map[string]interface{}{
		"name":        "Q3 Hiring",
		"description": "Backend engineer openings",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var project struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &project))

	// Обновление
	res, bodyStr = ts.SendRequest(t, http.MethodPut, "/api/v1/teams/"+teamID+"/projects/"+project.ID, ownerToken, map[string]interface{}{
		"name": "Q4 Hiring",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "Q4 Hiring")

	// Метрики и выгрузка
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID+"/metrics", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, `"member_count":1`)
	assert.Contains(t, bodyStr, `"project_count":1`)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID+"/export", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "Project Team")
	assert.Contains(t, bodyStr, project.ID)

	// Архивация убирает проект из списка по умолчанию
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/teams/"+teamID+"/projects/"+project.ID+"/archive", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID+"/projects", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, bodyStr, project.ID)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/teams/"+teamID+"/projects?include_archived=true", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, project.ID)

	// Удаление
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/teams/"+teamID+"/projects/"+project.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
