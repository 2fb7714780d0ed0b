package assistant

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider over the OpenAI SDK: assistants
// (threads + runs) for the stateful variant, chat completions for the
// stateless one, tts-1 for audio summaries and dall-e-3 for cartoon slides.
type OpenAIProvider struct {
	client      openai.Client
	assistantID string // pre-provisioned assistant, may be empty
}

// OpenAIOptions configures an OpenAIProvider.
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string // optional override, e.g. a proxy
	AssistantID string // optional pre-provisioned assistant
}

// NewOpenAIProvider validates credentials and builds the provider. A missing
// API key fails fast with a *ConfigError before any network call.
func NewOpenAIProvider(opts OpenAIOptions) (*OpenAIProvider, error) {
	if opts.APIKey == "" {
		return nil, &ConfigError{Missing: "OPENAI_API_KEY"}
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &OpenAIProvider{
		client:      openai.NewClient(reqOpts...),
		assistantID: opts.AssistantID,
	}, nil
}

// EnsureAssistant retrieves the configured assistant, or creates the
// "Task Helper" assistant when no ID was configured.
func (p *OpenAIProvider) EnsureAssistant(ctx context.Context) (string, error) {
	if p.assistantID != "" {
		a, err := p.client.Beta.Assistants.Get(ctx, p.assistantID)
		if err != nil {
			return "", &ProviderError{Op: "retrieve assistant", Err: err}
		}
		return a.ID, nil
	}

	a, err := p.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Name:         openai.String("Task Helper"),
		Instructions: openai.String(assistantInstructions),
		Model:        openai.ChatModelGPT4_1106Preview,
		Tools: []openai.AssistantToolUnionParam{
			{OfCodeInterpreter: &openai.CodeInterpreterToolParam{}},
		},
	})
	if err != nil {
		return "", &ProviderError{Op: "create assistant", Err: err}
	}
	p.assistantID = a.ID
	return a.ID, nil
}

func (p *OpenAIProvider) CreateThread(ctx context.Context) (string, error) {
	t, err := p.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", &ProviderError{Op: "create thread", Err: err}
	}
	return t.ID, nil
}

func (p *OpenAIProvider) AddMessage(ctx context.Context, threadID, text string) error {
	_, err := p.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return &ProviderError{Op: "add message", Err: err}
	}
	return nil
}

func (p *OpenAIProvider) StartRun(ctx context.Context, threadID, assistantID, instructions string) (string, error) {
	params := openai.BetaThreadRunNewParams{AssistantID: assistantID}
	if instructions != "" {
		params.Instructions = openai.String(instructions)
	}
	run, err := p.client.Beta.Threads.Runs.New(ctx, threadID, params)
	if err != nil {
		return "", &ProviderError{Op: "start run", Err: err}
	}
	return run.ID, nil
}

func (p *OpenAIProvider) RunState(ctx context.Context, threadID, runID string) (RunState, error) {
	run, err := p.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return RunState{}, err
	}

	state := RunState{Status: mapRunStatus(run.Status)}
	if state.Status == StatusRequiresAction {
		for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
			state.PendingToolCall = append(state.PendingToolCall, tc.ID)
		}
	}
	return state, nil
}

// SubmitEmptyToolOutputs acknowledges pending tool calls with empty JSON
// objects so the run can proceed. The assistant's tools produce nothing the
// server consumes.
func (p *OpenAIProvider) SubmitEmptyToolOutputs(ctx context.Context, threadID, runID string, toolCallIDs []string) error {
	outputs := make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, 0, len(toolCallIDs))
	for _, id := range toolCallIDs {
		outputs = append(outputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(id),
			Output:     openai.String("{}"),
		})
	}
	_, err := p.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: outputs,
	})
	if err != nil {
		return &ProviderError{Op: "submit tool outputs", Err: err}
	}
	return nil
}

// LatestMessage returns the text of the newest message on the thread.
func (p *OpenAIProvider) LatestMessage(ctx context.Context, threadID string) (string, error) {
	page, err := p.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
		Limit: openai.Int(1),
	})
	if err != nil {
		return "", &ProviderError{Op: "list messages", Err: err}
	}
	if len(page.Data) == 0 {
		return "", &ProviderError{Op: "list messages", Err: fmt.Errorf("thread %s has no messages", threadID)}
	}
	for _, block := range page.Data[0].Content {
		if block.Type == "text" {
			return block.Text.Value, nil
		}
	}
	return "", &ProviderError{Op: "list messages", Err: fmt.Errorf("newest message on thread %s has no text content", threadID)}
}

func (p *OpenAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT3_5Turbo,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(150),
		Temperature: openai.Float(0.7),
		N:           openai.Int(1),
	})
	if err != nil {
		return "", &ProviderError{Op: "chat completion", Err: err}
	}
	if len(completion.Choices) == 0 {
		return "", &ProviderError{Op: "chat completion", Err: fmt.Errorf("no choices returned")}
	}
	return completion.Choices[0].Message.Content, nil
}

// Speech synthesizes text with tts-1 and returns the mp3 base64-encoded, the
// form the tasks table stores it in.
func (p *OpenAIProvider) Speech(ctx context.Context, text string) (string, error) {
	resp, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Voice: openai.AudioSpeechNewParamsVoiceAlloy,
		Input: text,
	})
	if err != nil {
		return "", &ProviderError{Op: "speech", Err: err}
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Op: "speech", Err: err}
	}
	return base64.StdEncoding.EncodeToString(audio), nil
}

// Image generates one dall-e-3 image and returns its hosted URL.
func (p *OpenAIProvider) Image(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModelDallE3,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", &ProviderError{Op: "image", Err: err}
	}
	if len(resp.Data) == 0 {
		return "", &ProviderError{Op: "image", Err: fmt.Errorf("no image returned")}
	}
	return resp.Data[0].URL, nil
}

func mapRunStatus(s openai.RunStatus) RunStatus {
	switch s {
	case openai.RunStatusQueued:
		return StatusQueued
	case openai.RunStatusInProgress, openai.RunStatusCancelling:
		return StatusInProgress
	case openai.RunStatusRequiresAction:
		return StatusRequiresAction
	case openai.RunStatusCompleted:
		return StatusCompleted
	case openai.RunStatusFailed, openai.RunStatusIncomplete:
		return StatusFailed
	case openai.RunStatusCancelled:
		return StatusCancelled
	case openai.RunStatusExpired:
		return StatusExpired
	}
	return StatusInProgress
}
