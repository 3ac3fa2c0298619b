package ai

import "context"

// Task types understood by the routing table.
const (
	TaskResumeAnalysis = "resume_analysis"
	TaskOptimization   = "optimization_suggestions"
	TaskATSScoring     = "ats_scoring"
	TaskKeywordExtract = "keyword_extraction"
	TaskChatResponse   = "chat_response"
)

// Message is a single chat turn sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-agnostic completion request.
type Request struct {
	TaskType    string
	Messages    []Message
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

// TokenUsage reports token consumption for a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the provider response.
type Completion struct {
	Content  string
	Model    string
	Provider string
	Usage    *TokenUsage
}

// Provider abstracts an LLM backend. All implementations must be safe
// for concurrent use.
type Provider interface {
	Complete(ctx context.Context, req *Request) (*Completion, error)
	Name() string
}
