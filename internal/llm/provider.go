package llm

import "context"

// Provider turns a prompt into generated text.
type Provider interface {
	GetModel() string
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3.1"
	DefaultOpenAIModel   = "gpt-4o-mini"
)

// SystemPrompt frames every documentation request.
const SystemPrompt = "You are a technical writer who keeps repository documentation in sync with code changes. " +
	"Respond with Markdown only."
