package algorithms

import (
	"regexp"
	"sort"
	"strings"
)

// industryKeywords is the keyword database used for industry detection
// and keyword relevance scoring.
var industryKeywords = map[string][]string{
	"technology": {
		"python", "java", "javascript", "react", "angular", "nodejs", "sql",
		"mongodb", "docker", "kubernetes", "aws", "azure", "git", "agile",
		"scrum", "ci/cd", "machine learning", "data science", "api",
		"microservices", "devops", "developed", "implemented", "designed",
		"architected", "optimized", "automated", "scaled", "deployed",
	},
	"marketing": {
		"digital marketing", "seo", "sem", "social media", "content marketing",
		"email marketing", "analytics", "google ads", "conversion optimization",
		"a/b testing", "crm", "google analytics", "hubspot", "brand",
		"launched", "increased", "generated", "campaign",
	},
	"finance": {
		"financial analysis", "budgeting", "forecasting", "risk management",
		"investment", "portfolio", "financial modeling", "valuation",
		"accounting", "auditing", "compliance", "excel", "bloomberg",
		"cfa", "cpa", "analyzed", "evaluated", "forecasted",
	},
	"healthcare": {
		"patient care", "clinical", "medical records", "hipaa",
		"electronic health records", "medical terminology", "quality assurance",
		"care coordination", "epic", "cerner", "rn", "administered",
		"assessed", "documented",
	},
	"sales": {
		"crm", "salesforce", "lead generation", "negotiation",
		"quota", "pipeline", "revenue growth", "client acquisition",
		"closed", "prospected", "upsell",
	},
}

var requiredSections = []string{"experience", "education", "skills"}

var knownSections = []string{
	"summary", "objective", "experience", "education", "skills",
	"projects", "certifications", "awards", "publications", "contact",
}

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(\(\d{3}\)\s?\d{3}-\d{4})|(\d{3}[-.]\d{3}[-.]\d{4})|(\+\d{1,3}[\s-]?\d{6,12})`)
)

// ContactInfo is the contact data extracted from resume text.
type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// KeywordAnalysis summarizes keyword relevance for the detected industry.
type KeywordAnalysis struct {
	Score           float64  `json:"score"` // 0-100
	FoundKeywords   []string `json:"found_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	TotalFound      int      `json:"total_found"`
	TotalPossible   int      `json:"total_possible"`
}

// ResumeAnalysis is the full result of analyzing resume text.
type ResumeAnalysis struct {
	Sections        map[string]string `json:"sections"`
	Contact         ContactInfo       `json:"contact"`
	Industry        string            `json:"industry"`
	ExperienceLevel string            `json:"experience_level"`
	Keywords        KeywordAnalysis   `json:"keywords"`
	ATSScore        float64           `json:"ats_score"`
	Strengths       []string          `json:"strengths"`
	Weaknesses      []string          `json:"weaknesses"`
	Recommendations []string          `json:"recommendations"`
}

// AnalyzeResume runs the full pipeline: sections, contact info, industry
// detection, keyword analysis and ATS scoring.
func AnalyzeResume(text string) *ResumeAnalysis {
	lower := strings.ToLower(text)

	sections := ExtractSections(lower)
	contact := ExtractContactInfo(text)
	industry := DetectIndustry(lower)
	keywords := AnalyzeKeywords(lower, industry)

	analysis := &ResumeAnalysis{
		Sections:        sections,
		Contact:         contact,
		Industry:        industry,
		ExperienceLevel: DetectExperienceLevel(lower),
		Keywords:        keywords,
		ATSScore:        CalculateATSScore(lower, sections, contact, keywords),
	}

	analysis.Strengths = identifyStrengths(sections, keywords)
	analysis.Weaknesses = identifyWeaknesses(sections, contact, keywords)
	analysis.Recommendations = buildRecommendations(analysis)

	return analysis
}

// ExtractSections splits resume text into known section blocks keyed by
// section name. Lines that look like section headers start a new block.
func ExtractSections(lower string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var buf strings.Builder

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(buf.String())
		}
		buf.Reset()
	}

	for _, line := range strings.Split(lower, "\n") {
		trimmed := strings.TrimSpace(line)
		matched := ""
		for _, name := range knownSections {
			// Headers are short lines containing the section name
			if strings.Contains(trimmed, name) && len(trimmed) < len(name)+20 {
				matched = name
				break
			}
		}
		if matched != "" {
			flush()
			current = matched
			continue
		}
		if current != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	flush()

	return sections
}

// ExtractContactInfo pulls email and phone out of the raw text.
func ExtractContactInfo(text string) ContactInfo {
	return ContactInfo{
		Email: emailRe.FindString(text),
		Phone: phoneRe.FindString(text),
	}
}

// DetectIndustry returns the industry whose keywords occur most often.
func DetectIndustry(lower string) string {
	best := "general"
	bestScore := 0

	// Sort industries for deterministic ties
	names := make([]string, 0, len(industryKeywords))
	for name := range industryKeywords {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		score := 0
		for _, kw := range industryKeywords[name] {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			bestScore = score
			best = name
		}
	}

	return best
}

// DetectExperienceLevel classifies seniority from signal words.
func DetectExperienceLevel(lower string) string {
	switch {
	case strings.Contains(lower, "chief") || strings.Contains(lower, "vp ") ||
		strings.Contains(lower, "vice president") || strings.Contains(lower, "director"):
		return "executive"
	case strings.Contains(lower, "senior") || strings.Contains(lower, "lead ") ||
		strings.Contains(lower, "principal"):
		return "senior"
	case strings.Contains(lower, "junior") || strings.Contains(lower, "intern") ||
		strings.Contains(lower, "graduate"):
		return "entry"
	default:
		return "mid"
	}
}

// AnalyzeKeywords scores keyword coverage for an industry.
func AnalyzeKeywords(lower, industry string) KeywordAnalysis {
	keywords, ok := industryKeywords[industry]
	if !ok {
		return KeywordAnalysis{Score: 50}
	}

	var found, missing []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	score := 0.0
	if len(keywords) > 0 {
		score = float64(len(found)) / float64(len(keywords)) * 100
	}

	if len(found) > 20 {
		found = found[:20]
	}
	if len(missing) > 10 {
		missing = missing[:10]
	}

	return KeywordAnalysis{
		Score:           score,
		FoundKeywords:   found,
		MissingKeywords: missing,
		TotalFound:      len(found),
		TotalPossible:   len(keywords),
	}
}

// CalculateATSScore computes ATS compatibility (0-100).
// Weights: sections 40, contact info 20, keyword relevance 30, format 10.
func CalculateATSScore(lower string, sections map[string]string, contact ContactInfo, keywords KeywordAnalysis) float64 {
	score := 0.0

	// Section presence (40 points)
	present := 0
	for _, s := range requiredSections {
		if _, ok := sections[s]; ok {
			present++
		}
	}
	score += float64(present) / float64(len(requiredSections)) * 40

	// Contact information (20 points)
	if contact.Email != "" {
		score += 10
	}
	if contact.Phone != "" {
		score += 10
	}

	// Keyword relevance (30 points)
	score += keywords.Score / 100 * 30

	// Format and readability (10 points)
	formatScore := 10.0
	words := len(strings.Fields(lower))
	if words < 200 {
		formatScore -= 3 // too short
	}
	if words > 800 {
		formatScore -= 2 // too long
	}
	score += formatScore

	if score > 100 {
		score = 100
	}
	return score
}

func identifyStrengths(sections map[string]string, keywords KeywordAnalysis) []string {
	var strengths []string

	if keywords.Score > 70 {
		strengths = append(strengths, "Strong industry keyword optimization")
	}
	if _, ok := sections["summary"]; ok {
		strengths = append(strengths, "Includes a professional summary")
	}
	if _, ok := sections["certifications"]; ok {
		strengths = append(strengths, "Lists relevant certifications")
	}
	if len(sections) >= 4 {
		strengths = append(strengths, "Well structured with clear sections")
	}

	return strengths
}

func identifyWeaknesses(sections map[string]string, contact ContactInfo, keywords KeywordAnalysis) []string {
	var weaknesses []string

	for _, s := range requiredSections {
		if _, ok := sections[s]; !ok {
			weaknesses = append(weaknesses, "Missing required section: "+s)
		}
	}
	if contact.Email == "" {
		weaknesses = append(weaknesses, "No email address found")
	}
	if contact.Phone == "" {
		weaknesses = append(weaknesses, "No phone number found")
	}
	if keywords.Score < 40 {
		weaknesses = append(weaknesses, "Low industry keyword coverage")
	}

	return weaknesses
}

func buildRecommendations(a *ResumeAnalysis) []string {
	var recs []string

	if len(a.Keywords.MissingKeywords) > 0 {
		recs = append(recs, "Add missing industry keywords: "+strings.Join(a.Keywords.MissingKeywords, ", "))
	}
	for _, w := range a.Weaknesses {
		if strings.HasPrefix(w, "Missing required section") {
			recs = append(recs, "Add the missing sections that ATS parsers expect")
			break
		}
	}
	if a.ATSScore < 70 {
		recs = append(recs, "Use standard section headers and a single-column layout for better ATS parsing")
	}
	if a.Contact.Email == "" || a.Contact.Phone == "" {
		recs = append(recs, "Include complete contact information at the top of the resume")
	}

	return recs
}
