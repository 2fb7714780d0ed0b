package assistant

import (
	"encoding/json"
	"reflect"
	"testing"
)

// --- ParseAIResponse tests ---

// TestParseAIResponseMalformedFallsBack verifies that every malformed input
// yields exactly the default response, never an error upward.
func TestParseAIResponseMalformedFallsBack(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"gibberish", "I'm sorry, I can't help with that."},
		{"truncated JSON", `{"question": "What`},
		{"missing question", `{"options": ["a", "b"], "assessment": "continuing", "confidence_score": 5}`},
		{"blank question", `{"question": "   ", "options": ["a"], "assessment": "continuing"}`},
		{"empty options", `{"question": "Budget?", "options": [], "assessment": "continuing"}`},
		{"missing options", `{"question": "Budget?", "assessment": "continuing"}`},
		{"array not object", `["a", "b"]`},
	}
	want := DefaultResponse()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, perr := ParseAIResponse(tc.raw)
			if perr == nil {
				t.Fatalf("ParseAIResponse(%q): expected parse error", tc.raw)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ParseAIResponse(%q) = %+v, want default %+v", tc.raw, got, want)
			}
		})
	}
}

// TestParseAIResponseValidPassesThrough verifies a well-formed response is
// returned unchanged.
func TestParseAIResponseValidPassesThrough(t *testing.T) {
	raw := `{"question":"What's the budget?","options":["Low","Medium","High"],"assessment":"continuing","confidence_score":10}`
	got, perr := ParseAIResponse(raw)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	want := AIResponse{
		Question:        "What's the budget?",
		Options:         []string{"Low", "Medium", "High"},
		Assessment:      AssessmentContinuing,
		ConfidenceScore: 10,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// TestParseAIResponseRoundTrip verifies that encoding a valid AIResponse and
// parsing it back yields an equal object.
func TestParseAIResponseRoundTrip(t *testing.T) {
	orig := AIResponse{
		Question:        "Ready to start?",
		Options:         []string{"Yes", "Not yet"},
		Assessment:      AssessmentReady,
		ConfidenceScore: 85,
	}
	encoded, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, perr := ParseAIResponse(string(encoded))
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Errorf("round trip: got %+v, want %+v", got, orig)
	}
}

// TestParseAIResponseStripsFences verifies that markdown-fenced JSON parses.
func TestParseAIResponseStripsFences(t *testing.T) {
	raw := "```json\n{\"question\":\"Q?\",\"options\":[\"a\"],\"assessment\":\"continuing\",\"confidence_score\":0}\n```"
	got, perr := ParseAIResponse(raw)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if got.Question != "Q?" {
		t.Errorf("question = %q, want Q?", got.Question)
	}
}

// TestParseAIResponseDefaultsAssessment verifies a missing assessment is
// normalized to continuing.
func TestParseAIResponseDefaultsAssessment(t *testing.T) {
	raw := `{"question":"Q?","options":["a","b"]}`
	got, perr := ParseAIResponse(raw)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if got.Assessment != AssessmentContinuing {
		t.Errorf("assessment = %q, want continuing", got.Assessment)
	}
}

// --- ParseTaskDetails tests ---

// TestParseTaskDetailsWellFormed verifies the canonical category + ordinal
// list shape.
func TestParseTaskDetailsWellFormed(t *testing.T) {
	category, subtasks, perr := ParseTaskDetails("Category: Work\n1. Buy wood\n2. Cut boards\n3. Assemble")
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if category != "Work" {
		t.Errorf("category = %q, want Work", category)
	}
	want := []string{"Buy wood", "Cut boards", "Assemble"}
	if !reflect.DeepEqual(subtasks, want) {
		t.Errorf("subtasks = %v, want %v", subtasks, want)
	}
}

// TestParseTaskDetailsIdempotent verifies parsing re-rendered output yields
// the same result.
func TestParseTaskDetailsIdempotent(t *testing.T) {
	input := "Category: Work\n1. Buy wood\n2. Cut boards\n3. Assemble"
	c1, s1, _ := ParseTaskDetails(input)

	rendered := "Category: " + c1
	for i, st := range s1 {
		rendered += "\n" + string(rune('1'+i)) + ". " + st
	}
	c2, s2, _ := ParseTaskDetails(rendered)

	if c1 != c2 || !reflect.DeepEqual(s1, s2) {
		t.Errorf("not idempotent: (%q, %v) vs (%q, %v)", c1, s1, c2, s2)
	}
}

// TestParseTaskDetailsCategoryLast verifies the label is recognized on the
// last line too.
func TestParseTaskDetailsCategoryLast(t *testing.T) {
	category, subtasks, perr := ParseTaskDetails("1. Plan\n2. Execute\nCategory: Planning")
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if category != "Planning" {
		t.Errorf("category = %q, want Planning", category)
	}
	if !reflect.DeepEqual(subtasks, []string{"Plan", "Execute"}) {
		t.Errorf("subtasks = %v", subtasks)
	}
}

// TestParseTaskDetailsTruncatesToThree verifies the subtask cap.
func TestParseTaskDetailsTruncatesToThree(t *testing.T) {
	_, subtasks, _ := ParseTaskDetails("Category: X\n1. a\n2. b\n3. c\n4. d\n5. e")
	if len(subtasks) != 3 {
		t.Errorf("got %d subtasks, want 3", len(subtasks))
	}
}

// TestParseTaskDetailsEmptyInput verifies empty input reports a parse error
// with zero values rather than panicking.
func TestParseTaskDetailsEmptyInput(t *testing.T) {
	category, subtasks, perr := ParseTaskDetails("\n\n  \n")
	if perr == nil {
		t.Error("expected parse error for empty input")
	}
	if category != "" || len(subtasks) != 0 {
		t.Errorf("got (%q, %v), want empty", category, subtasks)
	}
}

// --- ParseSubtasks tests ---

// TestParseSubtasks verifies ordinal stripping and the cap of three.
func TestParseSubtasks(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"ordinals", "1. First\n2. Second\n3. Third", []string{"First", "Second", "Third"}},
		{"blank lines skipped", "1. First\n\n\n2. Second", []string{"First", "Second"}},
		{"no ordinals", "First\nSecond", []string{"First", "Second"}},
		{"capped at three", "1. a\n2. b\n3. c\n4. d", []string{"a", "b", "c"}},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSubtasks(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseSubtasks(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
