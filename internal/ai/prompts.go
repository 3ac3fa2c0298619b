package ai

import (
	"fmt"
	"strings"
)

// industryContext supplies extra guidance for industry-specific advice.
var industryContext = map[string]string{
	"technology": "Focus on technical skills, projects, measurable engineering impact and modern tooling.",
	"marketing":  "Focus on campaign results, growth metrics, channel expertise and conversion numbers.",
	"finance":    "Focus on analytical rigor, certifications, regulatory awareness and portfolio results.",
	"healthcare": "Focus on patient outcomes, certifications, compliance and clinical systems experience.",
	"sales":      "Focus on quota attainment, revenue figures, pipeline growth and client relationships.",
}

const analysisSystemPrompt = `You are an expert resume reviewer and career coach. ` +
	`Analyze resumes for content quality, ATS compatibility and impact. ` +
	`Respond with a JSON object containing "strengths", "weaknesses", "recommendations" (arrays of strings) and "summary" (string).`

const optimizationSystemPrompt = `You are an expert resume writer. ` +
	`Suggest concrete, specific improvements to resume content. ` +
	`Respond with a JSON object containing "suggestions": an array of objects with "section", "original", "improved" and "reason" fields.`

const chatSystemPrompt = `You are a helpful career assistant for a resume optimization platform. ` +
	`Help users improve their resumes, prepare for interviews and navigate job searches. ` +
	`Keep answers practical and concise. When a resume is attached to the conversation, ground your advice in its content.`

// BuildAnalysisMessages builds the prompt for full resume analysis.
func BuildAnalysisMessages(resumeText, industry string) []Message {
	system := analysisSystemPrompt
	if ctx, ok := industryContext[industry]; ok {
		system += " " + ctx
	}
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: "Analyze this resume:\n\n" + truncate(resumeText, 12000)},
	}
}

// BuildOptimizationMessages builds the prompt for optimization
// suggestions, optionally targeting a job description.
func BuildOptimizationMessages(resumeText, jobDescription string) []Message {
	user := "Improve this resume:\n\n" + truncate(resumeText, 10000)
	if strings.TrimSpace(jobDescription) != "" {
		user += "\n\nTarget job description:\n\n" + truncate(jobDescription, 4000)
	}
	return []Message{
		{Role: "system", Content: optimizationSystemPrompt},
		{Role: "user", Content: user},
	}
}

const atsScoringSystemPrompt = `You are an ATS compatibility expert. ` +
	`Estimate how well the resume will pass automated applicant tracking screens. ` +
	`Respond with a JSON object: {"ats_score": <number 0-100>, "issues": ["..."]}.`

// BuildATSMessages builds the prompt for ATS score estimation.
func BuildATSMessages(resumeText string) []Message {
	return []Message{
		{Role: "system", Content: atsScoringSystemPrompt},
		{Role: "user", Content: truncate(resumeText, 10000)},
	}
}

// BuildKeywordMessages builds the prompt for keyword extraction.
func BuildKeywordMessages(text string) []Message {
	return []Message{
		{Role: "system", Content: `Extract the most important skills and keywords from the text. Respond with a JSON object: {"keywords": ["..."]}.`},
		{Role: "user", Content: truncate(text, 8000)},
	}
}

// BuildChatMessages assembles the conversation for the chat assistant.
// History must already be trimmed by the caller.
func BuildChatMessages(history []Message, resumeText string) []Message {
	system := chatSystemPrompt
	if strings.TrimSpace(resumeText) != "" {
		system += fmt.Sprintf("\n\nThe user's resume:\n\n%s", truncate(resumeText, 8000))
	}
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: "system", Content: system})
	messages = append(messages, history...)
	return messages
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "\n[truncated]"
}
