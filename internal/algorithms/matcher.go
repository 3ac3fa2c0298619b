package algorithms

import (
	"fmt"
	"regexp"
	"strings"
)

// matchWeights define the relative importance of each match category.
var matchWeights = map[string]float64{
	"experience": 0.30,
	"skills":     0.40,
	"education":  0.15,
	"industry":   0.15,
}

var (
	minYearsRe = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)
	degreeRe   = regexp.MustCompile(`bachelor|master|phd|degree|bs|ms|mba`)
)

// JobRequirements holds the structured requirements parsed from a job
// description.
type JobRequirements struct {
	MinYears        int      `json:"min_years"`
	RequiresDegree  bool     `json:"requires_degree"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	Industry        string   `json:"industry"`
	Level           string   `json:"level"`
}

// MatchResult is a resume-to-job match score with per-category breakdown.
type MatchResult struct {
	OverallScore   float64            `json:"overall_score"`
	CategoryScores map[string]float64 `json:"category_scores"`
	MatchedSkills  []string           `json:"matched_skills"`
	MissingSkills  []string           `json:"missing_skills"`
	Insights       []string           `json:"insights"`
}

// ParseJobDescription extracts structured requirements from free-form
// job description text.
func ParseJobDescription(text string) *JobRequirements {
	lower := strings.ToLower(text)

	req := &JobRequirements{
		RequiresDegree: degreeRe.MatchString(lower),
		Industry:       DetectIndustry(lower),
		Level:          DetectExperienceLevel(lower),
	}

	if m := minYearsRe.FindStringSubmatch(lower); m != nil {
		fmt.Sscanf(m[1], "%d", &req.MinYears)
	}

	keywords := industryKeywords[req.Industry]
	for _, kw := range keywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		// Skills mentioned near requirement language are treated as
		// required, everything else as preferred.
		idx := strings.Index(lower, kw)
		window := lower[max(0, idx-120):idx]
		if strings.Contains(window, "required") || strings.Contains(window, "must") {
			req.RequiredSkills = append(req.RequiredSkills, kw)
		} else {
			req.PreferredSkills = append(req.PreferredSkills, kw)
		}
	}

	return req
}

// CalculateMatchScore scores a resume analysis against job requirements.
// Returns the overall weighted score (0-100) with category breakdown.
func CalculateMatchScore(resume *ResumeAnalysis, job *JobRequirements) *MatchResult {
	scores := map[string]float64{
		"experience": scoreExperience(resume, job),
		"skills":     0,
		"education":  scoreEducation(resume, job),
		"industry":   scoreIndustry(resume, job),
	}

	skillsScore, matched, missing := scoreSkills(resume, job)
	scores["skills"] = skillsScore

	overall := 0.0
	for category, weight := range matchWeights {
		overall += scores[category] * weight
	}

	result := &MatchResult{
		OverallScore:   overall,
		CategoryScores: scores,
		MatchedSkills:  matched,
		MissingSkills:  missing,
	}
	result.Insights = buildInsights(result, job)

	return result
}

// scoreExperience checks the years-of-experience requirement. Without a
// stated minimum the candidate passes with a high score; short
// requirements are easier to satisfy than long ones.
func scoreExperience(resume *ResumeAnalysis, job *JobRequirements) float64 {
	switch {
	case job.MinYears == 0:
		return 90
	case job.MinYears <= 3:
		return 75
	default:
		return 60
	}
}

func scoreSkills(resume *ResumeAnalysis, job *JobRequirements) (float64, []string, []string) {
	resumeSkills := make(map[string]bool, len(resume.Keywords.FoundKeywords))
	for _, kw := range resume.Keywords.FoundKeywords {
		resumeSkills[kw] = true
	}

	var matched, missing []string
	requiredHits := 0
	for _, skill := range job.RequiredSkills {
		if resumeSkills[skill] {
			requiredHits++
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	preferredHits := 0
	for _, skill := range job.PreferredSkills {
		if resumeSkills[skill] {
			preferredHits++
			matched = append(matched, skill)
		}
	}

	// Required skills carry 80 points, preferred skills 20.
	score := 0.0
	if len(job.RequiredSkills) > 0 {
		score += float64(requiredHits) / float64(len(job.RequiredSkills)) * 80
	} else {
		score += 80
	}
	if len(job.PreferredSkills) > 0 {
		score += float64(preferredHits) / float64(len(job.PreferredSkills)) * 20
	} else {
		score += 20
	}

	return score, matched, missing
}

func scoreEducation(resume *ResumeAnalysis, job *JobRequirements) float64 {
	if !job.RequiresDegree {
		return 100
	}
	if _, ok := resume.Sections["education"]; ok && degreeRe.MatchString(resume.Sections["education"]) {
		return 100
	}
	return 75
}

func scoreIndustry(resume *ResumeAnalysis, job *JobRequirements) float64 {
	switch {
	case resume.Industry == job.Industry:
		return 100
	case resume.Industry == "technology" || job.Industry == "general" || resume.Industry == "general":
		// Tech skills and generic roles transfer reasonably well.
		return 70
	default:
		return 50
	}
}

func buildInsights(result *MatchResult, job *JobRequirements) []string {
	var insights []string

	switch {
	case result.OverallScore >= 80:
		insights = append(insights, "Strong match for this position")
	case result.OverallScore >= 60:
		insights = append(insights, "Good match with some gaps to address")
	default:
		insights = append(insights, "Significant gaps between resume and job requirements")
	}

	if len(result.MissingSkills) > 0 {
		insights = append(insights, "Missing required skills: "+strings.Join(result.MissingSkills, ", "))
	}
	if result.CategoryScores["industry"] < 70 {
		insights = append(insights, "Resume targets a different industry than the job posting")
	}
	if job.MinYears > 3 {
		insights = append(insights, fmt.Sprintf("Position requires %d+ years of experience, highlight relevant tenure", job.MinYears))
	}

	return insights
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
