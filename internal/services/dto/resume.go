package dto

import (
	"time"

	"resumehub/internal/models"
)

// UploadResumeRequest - метаданные загрузки резюме (сам файл идет
// multipart-полем "file")
type UploadResumeRequest struct {
	Title string `form:"title" binding:"omitempty,max=200"`
}

// UpdateResumeRequest - обновление метаданных резюме
type UpdateResumeRequest struct {
	Title    *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Industry *string `json:"industry,omitempty" binding:"omitempty,max=50"`
}

// ResumeResponse - резюме в ответах API
type ResumeResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ContentType     string    `json:"content_type"`
	FileSize        int64     `json:"file_size"`
	ATSScore        float64   `json:"ats_score"`
	Industry        string    `json:"industry"`
	ExperienceLevel string    `json:"experience_level"`
	Skills          []string  `json:"skills"`
	Keywords        []string  `json:"keywords"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ResumeToResponse конвертирует модель в ответ API.
func ResumeToResponse(resume *models.Resume) ResumeResponse {
	return ResumeResponse{
		ID:              resume.ID,
		Title:           resume.Title,
		ContentType:     resume.ContentType,
		FileSize:        resume.FileSize,
		ATSScore:        resume.ATSScore,
		Industry:        resume.Industry,
		ExperienceLevel: resume.ExperienceLevel,
		Skills:          resume.Skills,
		Keywords:        resume.Keywords,
		CreatedAt:       resume.CreatedAt,
		UpdatedAt:       resume.UpdatedAt,
	}
}

// ResumeListResponse - страница списка резюме
type ResumeListResponse struct {
	Resumes []ResumeResponse `json:"resumes"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// AnalysisResponse - результат анализа резюме
type AnalysisResponse struct {
	ResumeID        string            `json:"resume_id"`
	ATSScore        float64           `json:"ats_score"`
	Industry        string            `json:"industry"`
	ExperienceLevel string            `json:"experience_level"`
	Sections        map[string]string `json:"sections"`
	FoundKeywords   []string          `json:"found_keywords"`
	MissingKeywords []string          `json:"missing_keywords"`
	Strengths       []string          `json:"strengths"`
	Weaknesses      []string          `json:"weaknesses"`
	Recommendations []string          `json:"recommendations"`
	AIInsights      string            `json:"ai_insights,omitempty"`
}

// OptimizeRequest - запрос оптимизации резюме под вакансию
type OptimizeRequest struct {
	JobTitle       string `json:"job_title" binding:"omitempty,max=200"`
	JobDescription string `json:"job_description" binding:"omitempty,max=20000"`
}

// OptimizationResponse - сохраненный набор предложений
type OptimizationResponse struct {
	ID          string                    `json:"id"`
	ResumeID    string                    `json:"resume_id"`
	Type        string                    `json:"type"`
	JobTitle    string                    `json:"job_title,omitempty"`
	Suggestions string                    `json:"suggestions"`
	ScoreBefore float64                   `json:"score_before"`
	ScoreAfter  float64                   `json:"score_after"`
	Status      models.OptimizationStatus `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// JobMatchRequest - запрос сопоставления резюме с вакансией
type JobMatchRequest struct {
	JobDescription string `json:"job_description" binding:"required,max=20000"`
}

// JobMatchResponse - результат сопоставления
type JobMatchResponse struct {
	ResumeID       string             `json:"resume_id"`
	OverallScore   float64            `json:"overall_score"`
	CategoryScores map[string]float64 `json:"category_scores"`
	MatchedSkills  []string           `json:"matched_skills"`
	MissingSkills  []string           `json:"missing_skills"`
	Insights       []string           `json:"insights"`
}
