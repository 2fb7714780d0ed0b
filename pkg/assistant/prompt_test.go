package assistant

import (
	"strings"
	"testing"
)

// TestAnalysisPrompt verifies the opening message restates the task, its
// subtasks with status, the progress count and the response shape.
func TestAnalysisPrompt(t *testing.T) {
	tc := TaskContext{
		Description: "Build a bookshelf",
		Category:    "Work",
		Status:      "pending",
		AssignedTo:  "Dana",
		CreatedBy:   "Sam",
		Subtasks: []SubtaskContext{
			{Description: "Buy wood", IsComplete: true},
			{Description: "Cut boards", IsComplete: false},
		},
	}
	got := AnalysisPrompt(tc)

	for _, want := range []string{
		"Build a bookshelf",
		"Category: Work",
		"1. Buy wood (complete)",
		"2. Cut boards (pending)",
		"Completed subtasks: 1 of 2",
		`"confidence_score"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// TestFollowUpPrompt verifies the selection and task framing survive.
func TestFollowUpPrompt(t *testing.T) {
	tc := TaskContext{
		Description: "Build a bookshelf",
		Subtasks:    []SubtaskContext{{Description: "Buy wood"}, {Description: "Cut boards"}},
	}
	got := FollowUpPrompt("Medium", tc)

	for _, want := range []string{`"Medium"`, "Build a bookshelf", "Buy wood, Cut boards"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// TestRunInstructions verifies the per-run anchor lists the subtasks and the
// response shape.
func TestRunInstructions(t *testing.T) {
	tc := TaskContext{
		Description: "Build a bookshelf",
		Subtasks:    []SubtaskContext{{Description: "Buy wood"}},
	}
	got := RunInstructions(tc)

	for _, want := range []string{`"Build a bookshelf"`, "- Buy wood", `"assessment"`} {
		if !strings.Contains(got, want) {
			t.Errorf("instructions missing %q", want)
		}
	}
}

func TestDetailsPrompt(t *testing.T) {
	got := DetailsPrompt("Build a bookshelf")
	for _, want := range []string{`"Build a bookshelf"`, "Category:", "numbered list"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSummaryPrompt(t *testing.T) {
	got := SummaryPrompt("Build a bookshelf", []string{"Buy wood", "Cut boards"})
	for _, want := range []string{"Build a bookshelf", "Buy wood; Cut boards"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
