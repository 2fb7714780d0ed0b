package assistant

// Assessment is the assistant's judgement of where the conversation stands.
type Assessment string

const (
	AssessmentContinuing Assessment = "continuing"
	AssessmentReady      Assessment = "ready"
	AssessmentNotReady   Assessment = "not_ready"
	AssessmentComplete   Assessment = "complete"
)

// AIResponse is the structured contract every chat turn must satisfy.
// The UI renders Question and Options directly, so an AIResponse must always
// carry a non-empty Options list; instances that don't are replaced by
// DefaultResponse.
type AIResponse struct {
	Question        string     `json:"question"`
	Options         []string   `json:"options"`
	Assessment      Assessment `json:"assessment"`
	ConfidenceScore int        `json:"confidence_score"`
}

// DefaultResponse is the fixed fallback returned whenever the provider output
// can't be used. It is always renderable.
func DefaultResponse() AIResponse {
	return AIResponse{
		Question: "How would you like to break down this task?",
		Options: []string{
			"Let's understand the main goal first",
			"Break it into smaller steps",
			"What resources do I need?",
		},
		Assessment:      AssessmentContinuing,
		ConfidenceScore: 0,
	}
}

// SubtaskContext is one subtask as seen by the prompt builders.
type SubtaskContext struct {
	Description string `json:"description"`
	IsComplete  bool   `json:"is_complete"`
}

// TaskContext carries the task details a chat turn is about.
type TaskContext struct {
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Status      string           `json:"status"`
	AssignedTo  string           `json:"assigned_to"`
	CreatedBy   string           `json:"created_by"`
	Subtasks    []SubtaskContext `json:"subtasks"`
}

// CompletedSubtasks counts subtasks already done.
func (tc TaskContext) CompletedSubtasks() int {
	n := 0
	for _, st := range tc.Subtasks {
		if st.IsComplete {
			n++
		}
	}
	return n
}

// TaskDetails is the result of one-shot task generation: a category, up to
// three subtasks and the optional media summaries.
type TaskDetails struct {
	Category      string   `json:"category"`
	Subtasks      []string `json:"subtasks"`
	AudioSummary  string   `json:"audio_summary,omitempty"`  // base64 mp3
	CartoonSlides string   `json:"cartoon_slides,omitempty"` // external image URL
}
