package assistant

import "context"

// Provider is the contract for the AI backend. The production implementation
// is OpenAIProvider; tests substitute fakes.
type Provider interface {
	// EnsureAssistant returns the configured assistant ID, creating the
	// "Task Helper" assistant when none is configured.
	EnsureAssistant(ctx context.Context) (string, error)

	// Stateful conversation (thread + run).
	CreateThread(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, threadID, text string) error
	StartRun(ctx context.Context, threadID, assistantID, instructions string) (string, error)
	RunState(ctx context.Context, threadID, runID string) (RunState, error)
	SubmitEmptyToolOutputs(ctx context.Context, threadID, runID string, toolCallIDs []string) error
	LatestMessage(ctx context.Context, threadID string) (string, error)

	// Stateless single-shot completion.
	Complete(ctx context.Context, system, user string) (string, error)

	// Media generation.
	Speech(ctx context.Context, text string) (string, error) // base64-encoded mp3
	Image(ctx context.Context, prompt string) (string, error) // hosted image URL
}
