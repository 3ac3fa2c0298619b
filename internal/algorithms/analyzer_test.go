package algorithms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const techResume = `John Doe
john.doe@example.com
(555) 123-4567

Summary
Senior software engineer with 8 years of experience building distributed systems.

Experience
Developed microservices in python and java, deployed on kubernetes and aws.
Designed CI/CD pipelines with docker and git, optimized api latency.

Education
BS in Computer Science, State University

Skills
python, java, sql, docker, kubernetes, aws, react, agile
`

func TestExtractSections(t *testing.T) {
	sections := ExtractSections(strings.ToLower(techResume))

	assert.Contains(t, sections, "summary")
	assert.Contains(t, sections, "experience")
	assert.Contains(t, sections, "education")
	assert.Contains(t, sections, "skills")

	assert.Contains(t, sections["experience"], "microservices")
	assert.Contains(t, sections["education"], "computer science")
}

func TestExtractSections_LongLineIsNotHeader(t *testing.T) {
	text := "my experience spans many years of doing various interesting things\n"
	sections := ExtractSections(text)
	assert.Empty(t, sections)
}

func TestExtractContactInfo(t *testing.T) {
	contact := ExtractContactInfo(techResume)

	assert.Equal(t, "john.doe@example.com", contact.Email)
	assert.Equal(t, "(555) 123-4567", contact.Phone)
}

func TestExtractContactInfo_Missing(t *testing.T) {
	contact := ExtractContactInfo("no contact data here")

	assert.Empty(t, contact.Email)
	assert.Empty(t, contact.Phone)
}

func TestDetectIndustry(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"technology", "python docker kubernetes aws microservices", "technology"},
		{"marketing", "seo sem social media campaign google ads", "marketing"},
		{"finance", "budgeting forecasting valuation cfa accounting", "finance"},
		{"no signal", "completely unrelated text about gardening", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIndustry(tt.text))
		})
	}
}

func TestDetectExperienceLevel(t *testing.T) {
	assert.Equal(t, "executive", DetectExperienceLevel("vice president of engineering"))
	assert.Equal(t, "senior", DetectExperienceLevel("senior software engineer"))
	assert.Equal(t, "entry", DetectExperienceLevel("recent graduate, intern at acme"))
	assert.Equal(t, "mid", DetectExperienceLevel("software engineer"))
}

func TestAnalyzeKeywords(t *testing.T) {
	result := AnalyzeKeywords("python java docker kubernetes", "technology")

	assert.Greater(t, result.Score, 0.0)
	assert.Contains(t, result.FoundKeywords, "python")
	assert.Contains(t, result.MissingKeywords, "react", "missing list holds keywords absent from the text")
	assert.NotContains(t, result.FoundKeywords, "react")
	assert.LessOrEqual(t, len(result.MissingKeywords), 10)
}

func TestAnalyzeKeywords_UnknownIndustry(t *testing.T) {
	result := AnalyzeKeywords("anything", "general")

	assert.Equal(t, 50.0, result.Score)
	assert.Empty(t, result.FoundKeywords)
}

func TestCalculateATSScore(t *testing.T) {
	lower := strings.ToLower(techResume)
	sections := ExtractSections(lower)
	contact := ExtractContactInfo(techResume)
	keywords := AnalyzeKeywords(lower, "technology")

	score := CalculateATSScore(lower, sections, contact, keywords)

	// All required sections present (40), email+phone (20),
	// plus keyword and format contributions.
	assert.GreaterOrEqual(t, score, 60.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestCalculateATSScore_ShortResumePenalty(t *testing.T) {
	short := "experience\nnothing"
	sections := ExtractSections(short)
	contact := ContactInfo{}
	keywords := KeywordAnalysis{}

	score := CalculateATSScore(short, sections, contact, keywords)

	// One of three required sections (13.33) plus format 10 minus 3 for length.
	assert.InDelta(t, 40.0/3+7, score, 0.01)
}

func TestAnalyzeResume(t *testing.T) {
	analysis := AnalyzeResume(techResume)
	require.NotNil(t, analysis)

	assert.Equal(t, "technology", analysis.Industry)
	assert.Equal(t, "senior", analysis.ExperienceLevel)
	assert.Equal(t, "john.doe@example.com", analysis.Contact.Email)
	assert.Greater(t, analysis.ATSScore, 0.0)
	assert.NotEmpty(t, analysis.Strengths)
}

func TestAnalyzeResume_WeakResume(t *testing.T) {
	analysis := AnalyzeResume("just a few words with nothing useful")

	assert.Contains(t, analysis.Weaknesses, "Missing required section: experience")
	assert.Contains(t, analysis.Weaknesses, "No email address found")
	assert.NotEmpty(t, analysis.Recommendations)
}
