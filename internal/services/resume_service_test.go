package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehub/internal/ai"
	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

type fakeOptimizeRepo struct {
	repositories.ResumeRepository
	resume        *models.Resume
	optimization  *models.Optimization
	usedThisMonth int64
	countedFrom   time.Time
	statusSet     models.OptimizationStatus
	scoreSet      float64
}

func (f *fakeOptimizeRepo) FindByID(id string) (*models.Resume, error) {
	if f.resume == nil {
		return nil, assert.AnError
	}
	return f.resume, nil
}

func (f *fakeOptimizeRepo) CountOptimizationsSince(userID string, since time.Time) (int64, error) {
	f.countedFrom = since
	return f.usedThisMonth, nil
}

func (f *fakeOptimizeRepo) FindOptimizationByID(id string) (*models.Optimization, error) {
	if f.optimization == nil {
		return nil, repositories.ErrOptimizationNotFound
	}
	return f.optimization, nil
}

func (f *fakeOptimizeRepo) UpdateOptimizationStatus(id string, status models.OptimizationStatus) error {
	f.statusSet = status
	return nil
}

func (f *fakeOptimizeRepo) UpdateOptimizationScore(id string, scoreAfter float64) error {
	f.scoreSet = scoreAfter
	return nil
}

func TestResumeOptimize_MonthlyLimit(t *testing.T) {
	t.Parallel()

	resume := &models.Resume{UserID: "user-1", ContentText: "experienced engineer"}
	resume.ID = "resume-1"
	resumeRepo := &fakeOptimizeRepo{resume: resume, usedThisMonth: 5}
	userRepo := &fakeUserRepo{user: &models.User{Tier: models.TierFree}}

	svc := NewResumeService(resumeRepo, userRepo, nil, &ai.Router{}, 0, nil)

	_, err := svc.Optimize(context.Background(), "user-1", "resume-1", &dto.OptimizeRequest{})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodePaymentRequired, appErr.Code)

	// Окно лимита - календарный месяц, отсчет с первого числа
	now := time.Now()
	wantStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	assert.Equal(t, wantStart, resumeRepo.countedFrom)
}

func TestResumeOptimize_NoProvider(t *testing.T) {
	t.Parallel()

	resume := &models.Resume{UserID: "user-1"}
	resume.ID = "resume-1"
	resumeRepo := &fakeOptimizeRepo{resume: resume}

	svc := NewResumeService(resumeRepo, &fakeUserRepo{}, nil, nil, 0, nil)

	_, err := svc.Optimize(context.Background(), "user-1", "resume-1", &dto.OptimizeRequest{})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNoProviderConfigured.Code, appErr.Code)
	assert.Zero(t, resumeRepo.countedFrom, "лимит не проверяется без провайдера")
}

func TestSetOptimizationStatus_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	resume := &models.Resume{UserID: "owner"}
	resume.ID = "resume-1"
	opt := &models.Optimization{ResumeID: "resume-1"}
	opt.ID = "opt-1"
	resumeRepo := &fakeOptimizeRepo{resume: resume, optimization: opt}

	svc := NewResumeService(resumeRepo, &fakeUserRepo{}, nil, nil, 0, nil)

	err := svc.SetOptimizationStatus(context.Background(), "intruder", "opt-1", models.OptimizationStatusApplied)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Empty(t, resumeRepo.statusSet)

	require.NoError(t, svc.SetOptimizationStatus(context.Background(), "owner", "opt-1", models.OptimizationStatusRejected))
	assert.Equal(t, models.OptimizationStatusRejected, resumeRepo.statusSet)
	// Переоценка запрашивается только при принятии и только с провайдером
	assert.Zero(t, resumeRepo.scoreSet)
}

func TestParseATSScore(t *testing.T) {
	t.Parallel()

	score, err := parseATSScore(`{"ats_score": 72.5, "issues": ["missing summary"]}`)
	require.NoError(t, err)
	assert.Equal(t, 72.5, score)

	_, err = parseATSScore(`{"ats_score": 140}`)
	assert.Error(t, err)

	_, err = parseATSScore(`not json`)
	assert.Error(t, err)
}

func TestMergeKeywords(t *testing.T) {
	t.Parallel()

	merged := mergeKeywords(
		[]string{"Go", "PostgreSQL"},
		[]string{"go", " Redis ", "", "Kubernetes"},
	)

	assert.Equal(t, []string{"Go", "PostgreSQL", "Redis", "Kubernetes"}, merged)
}
