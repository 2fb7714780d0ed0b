package assistant

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Service orchestrates the AI flows: conversational chat over a thread and
// run, and one-shot task generation. All provider access goes through the
// injected Provider so handlers and tests never touch the SDK directly.
type Service struct {
	provider Provider
	poller   Poller
	log      *slog.Logger
}

// NewService creates a Service.
func NewService(provider Provider, poller Poller, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{provider: provider, poller: poller, log: log}
}

// ChatResult is one completed conversational turn.
type ChatResult struct {
	ThreadID string
	Response AIResponse
}

// InitializeAssistant makes sure a usable assistant exists and returns its ID.
func (s *Service) InitializeAssistant(ctx context.Context) (string, error) {
	return s.provider.EnsureAssistant(ctx)
}

// Chat runs one conversational turn. With an empty threadID it opens a new
// thread seeded with the full task analysis; otherwise it appends the user's
// selection to the existing thread. It then starts a run, drives it to
// completion and parses the newest message. Provider, terminal and timeout
// failures propagate typed; malformed output is substituted by the default
// response and only logged.
func (s *Service) Chat(ctx context.Context, threadID string, tc TaskContext, selection string) (*ChatResult, error) {
	assistantID, err := s.provider.EnsureAssistant(ctx)
	if err != nil {
		return nil, err
	}

	if threadID == "" {
		threadID, err = s.provider.CreateThread(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.provider.AddMessage(ctx, threadID, AnalysisPrompt(tc)); err != nil {
			return nil, err
		}
	} else if selection != "" {
		if err := s.provider.AddMessage(ctx, threadID, FollowUpPrompt(selection, tc)); err != nil {
			return nil, err
		}
	}

	runID, err := s.provider.StartRun(ctx, threadID, assistantID, RunInstructions(tc))
	if err != nil {
		return nil, err
	}

	_, err = s.poller.Await(ctx,
		func(ctx context.Context) (RunState, error) {
			return s.provider.RunState(ctx, threadID, runID)
		},
		func(ctx context.Context, state RunState) error {
			return s.provider.SubmitEmptyToolOutputs(ctx, threadID, runID, state.PendingToolCall)
		},
	)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.LatestMessage(ctx, threadID)
	if err != nil {
		return nil, err
	}

	resp, perr := ParseAIResponse(raw)
	if perr != nil {
		s.log.Warn("assistant response replaced by default", "thread_id", threadID, "reason", perr.Reason)
	}
	return &ChatResult{ThreadID: threadID, Response: resp}, nil
}

// GenerateSubtasks produces up to three subtask descriptions for a task via
// the stateless completion variant.
func (s *Service) GenerateSubtasks(ctx context.Context, description string) ([]string, error) {
	raw, err := s.provider.Complete(ctx, subtaskSystemPrompt, SubtasksPrompt(description))
	if err != nil {
		return nil, err
	}
	return ParseSubtasks(raw), nil
}

// GenerateDetails produces the full generated payload for a new task: a
// category and subtasks from a completion, plus an audio summary and a
// cartoon slide generated concurrently. Media failures degrade to empty
// fields; the category/subtask result is what the UI depends on.
func (s *Service) GenerateDetails(ctx context.Context, description string) (*TaskDetails, error) {
	raw, err := s.provider.Complete(ctx, subtaskSystemPrompt, DetailsPrompt(description))
	if err != nil {
		return nil, err
	}

	category, subtasks, perr := ParseTaskDetails(raw)
	if perr != nil {
		s.log.Warn("task details parse fallback", "reason", perr.Reason)
	}
	if category == "" {
		category = "Uncategorized"
	}

	details := &TaskDetails{Category: category, Subtasks: subtasks}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		audio, err := s.provider.Speech(gctx, SummaryPrompt(description, subtasks))
		if err != nil {
			s.log.Warn("audio summary generation failed", "error", err)
			return nil
		}
		details.AudioSummary = audio
		return nil
	})
	g.Go(func() error {
		url, err := s.provider.Image(gctx, CartoonPrompt(description))
		if err != nil {
			s.log.Warn("cartoon slide generation failed", "error", err)
			return nil
		}
		details.CartoonSlides = url
		return nil
	})
	_ = g.Wait()

	return details, nil
}
