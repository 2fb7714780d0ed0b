package assistant

import (
	"context"
	"time"
)

// RunStatus is the provider-side state of an asynchronous run.
type RunStatus string

const (
	StatusQueued         RunStatus = "queued"
	StatusInProgress     RunStatus = "in_progress"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCompleted      RunStatus = "completed"
	StatusFailed         RunStatus = "failed"
	StatusCancelled      RunStatus = "cancelled"
	StatusExpired        RunStatus = "expired"
)

// Terminal reports whether no further transition can occur without a new run.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// RunState is one observation of a run: its status plus, when the status is
// requires_action, the IDs of the tool calls awaiting output.
type RunState struct {
	Status          RunStatus
	PendingToolCall []string
}

const (
	// DefaultPollInterval matches the 1s cadence every handler used.
	DefaultPollInterval = time.Second
	// DefaultMaxAttempts bounds total polling to ~10s at the default interval.
	DefaultMaxAttempts = 10
)

// Poller drives a run to a terminal state. It replaces the poll loops that
// were previously repeated inline in every handler.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
}

// NewPoller returns a Poller with the given bounds, substituting the defaults
// for non-positive values.
func NewPoller(interval time.Duration, maxAttempts int) Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return Poller{Interval: interval, MaxAttempts: maxAttempts}
}

// Await polls until the run reaches a terminal state or the attempt ceiling.
//
// poll fetches the current state. onAction is invoked whenever the run is in
// requires_action and must acknowledge the pending tool calls before polling
// resumes; the attempt counter keeps running across the resume. Await returns
// the completed state, a *TerminalError for failed/cancelled/expired, a
// *TimeoutError when the ceiling is exceeded, or a *ProviderError when a poll
// itself fails. Cancelling ctx stops the loop between attempts.
func (p Poller) Await(ctx context.Context, poll func(context.Context) (RunState, error), onAction func(context.Context, RunState) error) (RunState, error) {
	state, err := poll(ctx)
	if err != nil {
		return RunState{}, &ProviderError{Op: "poll run", Err: err}
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		switch state.Status {
		case StatusCompleted:
			return state, nil
		case StatusFailed, StatusCancelled, StatusExpired:
			return state, &TerminalError{Status: state.Status}
		case StatusRequiresAction:
			if onAction != nil {
				if err := onAction(ctx, state); err != nil {
					return state, &ProviderError{Op: "submit tool outputs", Err: err}
				}
			}
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-time.After(p.Interval):
		}

		state, err = poll(ctx)
		if err != nil {
			return RunState{}, &ProviderError{Op: "poll run", Err: err}
		}
	}

	switch state.Status {
	case StatusCompleted:
		return state, nil
	case StatusFailed, StatusCancelled, StatusExpired:
		return state, &TerminalError{Status: state.Status}
	}
	return state, &TimeoutError{Attempts: p.MaxAttempts}
}
