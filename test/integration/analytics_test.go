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

// TestAnalytics_TrackEventAndDashboard - события попадают в сводку пользователя
func TestAnalytics_TrackEventAndDashboard(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	token, _ := helpers.CreateAndLoginUser(t, ts, "Analytics User", helpers.UniqueEmail("analytics"), "password123", models.UserRoleUser)

	for i := 0; i < 2; i++ {
		res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/analytics/events", token, map[string]interface{}{
			"event_type": "resume_viewed",
			"resource":   "resume",
			"metadata":   map[string]interface{}{"source": "web"},
		})
		require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/analytics/events", token, map[string]interface{}{
		"event_type": "page_view",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	// Событие без типа отклоняется
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/analytics/events", token, map[string]interface{}{
		"resource": "resume",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	var dashboard struct {
		UserID      string           `json:"user_id"`
		EventCounts map[string]int64 `json:"event_counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &dashboard))
	assert.Equal(t, int64(2), dashboard.EventCounts["resume_viewed"])
	assert.Equal(t, int64(1), dashboard.EventCounts["page_view"])
	assert.Contains(t, bodyStr, `"daily"`)
	assert.Contains(t, bodyStr, `"resume_count":0`)
}

// TestAnalytics_ActivityTrail - действия пользователя пишутся в журнал
func TestAnalytics_ActivityTrail(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	token, _ := helpers.CreateAndLoginUser(t, ts, "Trail User", helpers.UniqueEmail("trail"), "password123", models.UserRoleUser)

	uploadRes, uploadBody := helpers.UploadResume(t, ts, token, "Trail Resume", "trail.txt", sampleResumeText)
	require.Equal(t, http.StatusCreated, uploadRes.StatusCode, "Ответ: "+uploadBody)

	var resume struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(uploadBody), &resume))

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/analytics/activity", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "resume.uploaded")
	assert.Contains(t, bodyStr, resume.ID)
}

// TestAnalytics_TeamActivity - журнал команды и контроль доступа
func TestAnalytics_TeamActivity(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "Audit Owner", helpers.UniqueEmail("auditowner"), "password123", models.UserRoleUser)
	outsiderToken, _ := helpers.CreateAndLoginUser(t, ts, "Outsider", helpers.UniqueEmail("outsider"), "password123", models.UserRoleUser)

	teamID := createTeam(t, ts, ownerToken, "Audit Team", uniqueDomain("audit"))

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/teams/"+teamID+"/projects", ownerToken, map[string]interface{}{
		"name": "Audit Project",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/analytics/teams/"+teamID+"/activity", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "team.created")
	assert.Contains(t, bodyStr, "project.created")

	// Журнал команды закрыт для посторонних
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/analytics/teams/"+teamID+"/activity", outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestAnalytics_AdminDashboard - платформенная сводка только для админа
func TestAnalytics_AdminDashboard(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	userToken, _ := helpers.CreateAndLoginUser(t, ts, "Plain User", helpers.UniqueEmail("plain"), "password123", models.UserRoleUser)
	adminToken, _ := helpers.CreateAndLoginUser(t, ts, "Admin User", helpers.UniqueEmail("admin"), "password123", models.UserRoleAdmin)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/analytics/dashboard", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/analytics/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "event_counts")
}
