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

const sampleResumeText = `John Doe
john.doe@example.com
(555) 123-4567

Summary
Senior software engineer with 7 years of experience building backend services.

Experience
Lead Developer at Acme Corp. Designed microservices in go with docker and kubernetes.
Developed REST apis backed by postgresql and redis.

Education
Bachelor of Computer Science, State University

Skills
go, python, docker, kubernetes, aws, sql, git, linux
`

// TestResume_UploadAndAnalyze - загрузка txt-резюме и локальный анализ
func TestResume_UploadAndAnalyze(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("resume")
	token, _ := helpers.CreateAndLoginUser(t, ts, "Resume User", email, "password123", models.UserRoleUser)

	// Загрузка
	res, bodyStr := helpers.UploadResume(t, ts, token, "My Resume", "resume.txt", sampleResumeText)
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var uploaded struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		ATSScore float64 `json:"ats_score"`
		Industry string  `json:"industry"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &uploaded))
	assert.NotEmpty(t, uploaded.ID)
	assert.Equal(t, "My Resume", uploaded.Title)
	assert.Equal(t, "technology", uploaded.Industry)
	assert.Greater(t, uploaded.ATSScore, 0.0)

	// Список
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/resumes", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, uploaded.ID)

	// Анализ без обращения к AI-провайдерам
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/resumes/"+uploaded.ID+"/analyze", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	var analysis struct {
		ResumeID        string   `json:"resume_id"`
		ATSScore        float64  `json:"ats_score"`
		ExperienceLevel string   `json:"experience_level"`
		FoundKeywords   []string `json:"found_keywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &analysis))
	assert.Equal(t, uploaded.ID, analysis.ResumeID)
	assert.Equal(t, "senior", analysis.ExperienceLevel)
	assert.Contains(t, analysis.FoundKeywords, "docker")
}

// TestResume_JobMatch - сопоставление резюме с вакансией
func TestResume_JobMatch(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("match")
	token, _ := helpers.CreateAndLoginUser(t, ts, "Match User", email, "password123", models.UserRoleUser)

	res, bodyStr := helpers.UploadResume(t, ts, token, "Match Resume", "resume.txt", sampleResumeText)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var uploaded struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &uploaded))

	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/resumes/"+uploaded.ID+"/match", token, map[string]interface{}{
		"job_description": "We are hiring a backend engineer. Required skills: go, docker and sql. 3+ years of experience.",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	var match struct {
		OverallScore  float64  `json:"overall_score"`
		MatchedSkills []string `json:"matched_skills"`
		MissingSkills []string `json:"missing_skills"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &match))
	assert.Greater(t, match.OverallScore, 50.0)
	assert.Contains(t, match.MatchedSkills, "go")
	assert.Empty(t, match.MissingSkills)
}

// TestResume_OwnershipIsolation - чужое резюме недоступно
func TestResume_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "Owner", helpers.UniqueEmail("owner"), "password123", models.UserRoleUser)
	otherToken, _ := helpers.CreateAndLoginUser(t, ts, "Other", helpers.UniqueEmail("other"), "password123", models.UserRoleUser)

	res, bodyStr := helpers.UploadResume(t, ts, ownerToken, "Private Resume", "resume.txt", sampleResumeText)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var uploaded struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &uploaded))

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/resumes/"+uploaded.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/resumes/"+uploaded.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

// TestResume_FreeTierLimit - free-тариф ограничен тремя резюме
func TestResume_FreeTierLimit(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("limit")
	token, _ := helpers.CreateAndLoginUser(t, ts, "Limit User", email, "password123", models.UserRoleUser)

	for i := 0; i < 3; i++ {
		res, bodyStr := helpers.UploadResume(t, ts, token, "Resume", "resume.txt", sampleResumeText)
		require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)
	}

	res, bodyStr := helpers.UploadResume(t, ts, token, "One Too Many", "resume.txt", sampleResumeText)
	assert.Equal(t, http.StatusPaymentRequired, res.StatusCode, "Ответ: "+bodyStr)
}

// TestResume_UpdateAndDelete - обновление метаданных и удаление
func TestResume_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	email := helpers.UniqueEmail("update")
	token, _ := helpers.CreateAndLoginUser(t, ts, "Update User", email, "password123", models.UserRoleUser)

	res, bodyStr := helpers.UploadResume(t, ts, token, "Old Title", "resume.txt", sampleResumeText)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var uploaded struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &uploaded))

	res, bodyStr = ts.SendRequest(t, http.MethodPut, "/api/v1/resumes/"+uploaded.ID, token, map[string]interface{}{
		"title": "New Title",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "New Title")

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/resumes/"+uploaded.ID, token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/resumes/"+uploaded.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
