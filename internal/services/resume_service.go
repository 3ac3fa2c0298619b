package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"resumehub/internal/ai"
	"resumehub/internal/algorithms"
	"resumehub/internal/logger"
	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/internal/storage"
	"resumehub/pkg/apperrors"
)

// resumeLimits - максимум резюме на пользователя по тарифу.
// -1 означает отсутствие лимита.
var resumeLimits = map[models.SubscriptionTier]int{
	models.TierFree:       3,
	models.TierPro:        50,
	models.TierEnterprise: -1,
}

// optimizationLimits - оптимизаций в месяц по тарифу.
var optimizationLimits = map[models.SubscriptionTier]int{
	models.TierFree:       5,
	models.TierPro:        50,
	models.TierEnterprise: -1,
}

var allowedResumeTypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/plain": ".txt",
}

type ResumeService interface {
	Upload(ctx context.Context, userID, fileName, contentType string, data []byte, req *dto.UploadResumeRequest) (*dto.ResumeResponse, error)
	List(userID string, page, perPage int) (*dto.ResumeListResponse, error)
	Get(userID, resumeID string) (*dto.ResumeResponse, error)
	Update(userID, resumeID string, req *dto.UpdateResumeRequest) (*dto.ResumeResponse, error)
	Delete(ctx context.Context, userID, resumeID string) error
	GetDownloadURL(ctx context.Context, userID, resumeID string) (string, error)

	Analyze(ctx context.Context, userID, resumeID string, withAI bool) (*dto.AnalysisResponse, error)
	Optimize(ctx context.Context, userID, resumeID string, req *dto.OptimizeRequest) (*dto.OptimizationResponse, error)
	ListOptimizations(userID, resumeID string) ([]dto.OptimizationResponse, error)
	SetOptimizationStatus(ctx context.Context, userID, optimizationID string, status models.OptimizationStatus) error
	JobMatch(userID, resumeID string, req *dto.JobMatchRequest) (*dto.JobMatchResponse, error)
}

type ResumeServiceImpl struct {
	resumeRepo repositories.ResumeRepository
	userRepo   repositories.UserRepository
	store      storage.Storage
	router     *ai.Router
	maxSize    int64
	analytics  AnalyticsService
}

func NewResumeService(
	resumeRepo repositories.ResumeRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	router *ai.Router,
	maxSize int64,
	analytics AnalyticsService,
) ResumeService {
	return &ResumeServiceImpl{
		resumeRepo: resumeRepo,
		userRepo:   userRepo,
		store:      store,
		router:     router,
		maxSize:    maxSize,
		analytics:  analytics,
	}
}

// Upload - прием файла резюме: проверка лимита тарифа, извлечение
// текста, локальный анализ и сохранение файла в хранилище.
func (s *ResumeServiceImpl) Upload(ctx context.Context, userID, fileName, contentType string, data []byte, req *dto.UploadResumeRequest) (*dto.ResumeResponse, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	ct := normalizeType(contentType)
	ext, ok := allowedResumeTypes[ct]
	if !ok {
		return nil, apperrors.ErrInvalidFileType
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	if limit := resumeLimits[user.Tier]; limit >= 0 {
		count, err := s.resumeRepo.CountByUserID(userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if count >= int64(limit) {
			return nil, apperrors.ErrPlanLimitExceeded
		}
	}

	text, err := algorithms.ExtractText(data, ct, fileName)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Could not extract text from file: " + err.Error())
	}

	analysis := algorithms.AnalyzeResume(text)
	sectionsJSON, err := json.Marshal(analysis.Sections)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	filePath := fmt.Sprintf("resumes/%s/%s%s", userID, uuid.NewString(), ext)
	if err := s.store.Save(ctx, filePath, bytes.NewReader(data), ct); err != nil {
		return nil, apperrors.InternalError(err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	}

	resume := &models.Resume{
		UserID:          userID,
		Title:           title,
		FilePath:        filePath,
		ContentType:     ct,
		FileSize:        int64(len(data)),
		ContentText:     text,
		Sections:        datatypes.JSON(sectionsJSON),
		ATSScore:        analysis.ATSScore,
		Industry:        analysis.Industry,
		ExperienceLevel: analysis.ExperienceLevel,
		Skills:          analysis.Keywords.FoundKeywords,
		Keywords:        analysis.Keywords.FoundKeywords,
	}
	if err := s.resumeRepo.Create(resume); err != nil {
		// Файл без записи в базе не нужен
		if derr := s.store.Delete(ctx, filePath); derr != nil {
			logger.WithError(derr).Warn("Failed to clean up orphan file", "path", filePath)
		}
		return nil, apperrors.InternalError(err)
	}

	s.analytics.LogActivity(userID, nil, "resume.uploaded", "resume", resume.ID)

	result := dto.ResumeToResponse(resume)
	return &result, nil
}

func normalizeType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

func (s *ResumeServiceImpl) List(userID string, page, perPage int) (*dto.ResumeListResponse, error) {
	offset := (page - 1) * perPage
	resumes, total, err := s.resumeRepo.FindByUserID(userID, perPage, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.ResumeResponse, 0, len(resumes))
	for i := range resumes {
		items = append(items, dto.ResumeToResponse(&resumes[i]))
	}
	return &dto.ResumeListResponse{
		Resumes: items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// getOwned возвращает резюме только если оно принадлежит пользователю.
func (s *ResumeServiceImpl) getOwned(userID, resumeID string) (*models.Resume, error) {
	resume, err := s.resumeRepo.FindByID(resumeID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("resume", "Resume not found")
	}
	if resume.UserID != userID {
		return nil, apperrors.NewNotFoundError("resume", "Resume not found")
	}
	return resume, nil
}

func (s *ResumeServiceImpl) Get(userID, resumeID string) (*dto.ResumeResponse, error) {
	resume, err := s.getOwned(userID, resumeID)
	if err != nil {
		return nil, err
	}
	result := dto.ResumeToResponse(resume)
	return &result, nil
}

func (s *ResumeServiceImpl) Update(userID, resumeID string, req *dto.UpdateResumeRequest) (*dto.ResumeResponse, error) {
	resume, err := s.getOwned(userID, resumeID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		resume.Title = *req.Title
	}
	if req.Industry != nil {
		resume.Industry = *req.Industry
	}
	if err := s.resumeRepo.Update(resume); err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := dto.ResumeToResponse(resume)
	return &result, nil
}

func (s *ResumeServiceImpl) Delete(ctx context.Context, userID, resumeID string) error {
	resume, err := s.getOwned(userID, resumeID)
	if err != nil {
		return err
	}

	if err := s.resumeRepo.Delete(resumeID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.store.Delete(ctx, resume.FilePath); err != nil {
		logger.WithError(err).Warn("Failed to delete resume file", "path", resume.FilePath)
	}
	s.analytics.LogActivity(userID, nil, "resume.deleted", "resume", resumeID)
	return nil
}

func (s *ResumeServiceImpl) GetDownloadURL(ctx context.Context, userID, resumeID string) (string, error) {
	resume, err := s.getOwned(userID, resumeID)
	if err != nil {
		return "", err
	}
	url, err := s.store.GetSignedURL(ctx, resume.FilePath, 15*time.Minute)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return url, nil
}

// Analyze - повторный анализ резюме. При withAI к локальным метрикам
// добавляются инсайты LLM.
func (s *ResumeServiceImpl) Analyze(ctx context.Context, userID, resumeID string, withAI bool) (*dto.AnalysisResponse, error) {
	resume, err := s.getOwned(userID, resumeID)
	if err != nil {
		return nil, err
	}

	analysis := algorithms.AnalyzeResume(resume.ContentText)
	sectionsJSON, err := json.Marshal(analysis.Sections)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	foundKeywords := analysis.Keywords.FoundKeywords
	var aiInsights string
	if withAI && s.router != nil {
		completion, err := s.router.Complete(ctx, &ai.Request{
			TaskType:    ai.TaskResumeAnalysis,
			Messages:    ai.BuildAnalysisMessages(resume.ContentText, analysis.Industry),
			MaxTokens:   2000,
			Temperature: 0.3,
			JSONMode:    true,
		})
		if err != nil {
			// Локальный анализ остается полезным и без LLM
			logger.WithError(err).Warn("AI analysis unavailable", "resume_id", resumeID)
		} else {
			aiInsights = completion.Content
		}

		// Словарное извлечение дополняется ключевыми словами от LLM
		if extracted, err := s.extractKeywordsAI(ctx, resume.ContentText); err != nil {
			logger.WithError(err).Warn("AI keyword extraction unavailable", "resume_id", resumeID)
		} else {
			foundKeywords = mergeKeywords(foundKeywords, extracted)
		}
	}

	if err := s.resumeRepo.UpdateAnalysis(resumeID, sectionsJSON, analysis.ATSScore,
		analysis.Industry, analysis.ExperienceLevel,
		foundKeywords, foundKeywords); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AnalysisResponse{
		ResumeID:        resumeID,
		ATSScore:        analysis.ATSScore,
		Industry:        analysis.Industry,
		ExperienceLevel: analysis.ExperienceLevel,
		Sections:        analysis.Sections,
		FoundKeywords:   foundKeywords,
		MissingKeywords: analysis.Keywords.MissingKeywords,
		Strengths:       analysis.Strengths,
		Weaknesses:      analysis.Weaknesses,
		Recommendations: analysis.Recommendations,
		AIInsights:      aiInsights,
	}, nil
}

// extractKeywordsAI извлекает ключевые слова из текста через LLM.
func (s *ResumeServiceImpl) extractKeywordsAI(ctx context.Context, text string) ([]string, error) {
	completion, err := s.router.Complete(ctx, &ai.Request{
		TaskType:    ai.TaskKeywordExtract,
		Messages:    ai.BuildKeywordMessages(text),
		MaxTokens:   500,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(completion.Content), &parsed); err != nil {
		return nil, fmt.Errorf("parse keyword response: %w", err)
	}
	return parsed.Keywords, nil
}

// mergeKeywords объединяет списки без дублей, регистр не учитывается.
func mergeKeywords(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	merged := make([]string, 0, len(base)+len(extra))
	for _, k := range base {
		seen[strings.ToLower(k)] = struct{}{}
		merged = append(merged, k)
	}
	for _, k := range extra {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(k)]; ok {
			continue
		}
		seen[strings.ToLower(k)] = struct{}{}
		merged = append(merged, k)
	}
	return merged
}

// Optimize - генерация предложений по улучшению через LLM, с сохранением
// результата как Optimization.
func (s *ResumeServiceImpl) Optimize(ctx context.Context, userID, resumeID string, req *dto.OptimizeRequest) (*dto.OptimizationResponse, error) {
	resume, err := s.getOwned(userID, resumeID)
	if err != nil {
		return nil, err
	}
	if s.router == nil {
		return nil, apperrors.ErrNoProviderConfigured
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	if limit := optimizationLimits[user.Tier]; limit >= 0 {
		// Лимит считается за календарный месяц и сбрасывается первого числа
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		count, err := s.resumeRepo.CountOptimizationsSince(userID, monthStart)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if count >= int64(limit) {
			return nil, apperrors.ErrPlanLimitExceeded
		}
	}

	completion, err := s.router.Complete(ctx, &ai.Request{
		TaskType:    ai.TaskOptimization,
		Messages:    ai.BuildOptimizationMessages(resume.ContentText, req.JobDescription),
		MaxTokens:   3000,
		Temperature: 0.5,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	optType := "general"
	if strings.TrimSpace(req.JobDescription) != "" {
		optType = "job_targeted"
	}

	opt := &models.Optimization{
		ResumeID:       resumeID,
		Type:           optType,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Suggestions:    completion.Content,
		ScoreBefore:    resume.ATSScore,
		Status:         models.OptimizationStatusPending,
	}
	if err := s.resumeRepo.CreateOptimization(opt); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return optimizationToResponse(opt), nil
}

func optimizationToResponse(opt *models.Optimization) *dto.OptimizationResponse {
	return &dto.OptimizationResponse{
		ID:          opt.ID,
		ResumeID:    opt.ResumeID,
		Type:        opt.Type,
		JobTitle:    opt.JobTitle,
		Suggestions: opt.Suggestions,
		ScoreBefore: opt.ScoreBefore,
		ScoreAfter:  opt.ScoreAfter,
		Status:      opt.Status,
		CreatedAt:   opt.CreatedAt,
	}
}

func (s *ResumeServiceImpl) ListOptimizations(userID, resumeID string) ([]dto.OptimizationResponse, error) {
	if _, err := s.getOwned(userID, resumeID); err != nil {
		return nil, err
	}

	opts, err := s.resumeRepo.FindOptimizationsByResumeID(resumeID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.OptimizationResponse, 0, len(opts))
	for i := range opts {
		result = append(result, *optimizationToResponse(&opts[i]))
	}
	return result, nil
}

func (s *ResumeServiceImpl) SetOptimizationStatus(ctx context.Context, userID, optimizationID string, status models.OptimizationStatus) error {
	opt, err := s.resumeRepo.FindOptimizationByID(optimizationID)
	if err != nil {
		return apperrors.NewNotFoundError("resume", "Optimization not found")
	}
	resume, err := s.getOwned(userID, opt.ResumeID)
	if err != nil {
		return err
	}
	if err := s.resumeRepo.UpdateOptimizationStatus(optimizationID, status); err != nil {
		return apperrors.InternalError(err)
	}

	// Принятая оптимизация получает оценку "после" от LLM
	if status == models.OptimizationStatusApplied && s.router != nil {
		score, err := s.scoreResumeAI(ctx, resume.ContentText)
		if err != nil {
			logger.WithError(err).Warn("AI rescoring unavailable", "optimization_id", optimizationID)
			return nil
		}
		if err := s.resumeRepo.UpdateOptimizationScore(optimizationID, score); err != nil {
			return apperrors.InternalError(err)
		}
	}
	return nil
}

// scoreResumeAI запрашивает у LLM оценку прохождения ATS-фильтров.
func (s *ResumeServiceImpl) scoreResumeAI(ctx context.Context, text string) (float64, error) {
	completion, err := s.router.Complete(ctx, &ai.Request{
		TaskType:    ai.TaskATSScoring,
		Messages:    ai.BuildATSMessages(text),
		MaxTokens:   400,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return 0, err
	}
	return parseATSScore(completion.Content)
}

func parseATSScore(content string) (float64, error) {
	var parsed struct {
		ATSScore float64 `json:"ats_score"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return 0, fmt.Errorf("parse ats score response: %w", err)
	}
	if parsed.ATSScore < 0 || parsed.ATSScore > 100 {
		return 0, fmt.Errorf("ats score out of range: %v", parsed.ATSScore)
	}
	return parsed.ATSScore, nil
}

// JobMatch - локальное сопоставление резюме с вакансией без LLM.
func (s *ResumeServiceImpl) JobMatch(userID, resumeID string, req *dto.JobMatchRequest) (*dto.JobMatchResponse, error) {
	resume, err := s.getOwned(userID, resumeID)
	if err != nil {
		return nil, err
	}

	analysis := algorithms.AnalyzeResume(resume.ContentText)
	job := algorithms.ParseJobDescription(req.JobDescription)
	match := algorithms.CalculateMatchScore(analysis, job)

	return &dto.JobMatchResponse{
		ResumeID:       resumeID,
		OverallScore:   match.OverallScore,
		CategoryScores: match.CategoryScores,
		MatchedSkills:  match.MatchedSkills,
		MissingSkills:  match.MissingSkills,
		Insights:       match.Insights,
	}, nil
}
