package assistant

import (
	"encoding/json"
	"regexp"
	"strings"
)

// maxSubtasks caps the line-oriented parser output.
const maxSubtasks = 3

// ParseAIResponse parses raw provider text as a strict-JSON AIResponse.
//
// It never fails upward: when the text isn't valid JSON, or lacks a question
// or a non-empty options list, the returned response is DefaultResponse and
// the returned *ParseError describes why, for diagnostics only. A nil error
// means the response passed through unchanged.
func ParseAIResponse(raw string) (AIResponse, *ParseError) {
	text := stripFences(raw)

	var resp AIResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return DefaultResponse(), &ParseError{Reason: "invalid JSON: " + err.Error(), Raw: raw}
	}
	if strings.TrimSpace(resp.Question) == "" {
		return DefaultResponse(), &ParseError{Reason: "missing question", Raw: raw}
	}
	if len(resp.Options) == 0 {
		return DefaultResponse(), &ParseError{Reason: "empty options", Raw: raw}
	}
	if resp.Assessment == "" {
		resp.Assessment = AssessmentContinuing
	}
	return resp, nil
}

// ordinalRe matches a leading "N. " ordinal on a subtask line.
var ordinalRe = regexp.MustCompile(`^\d+\.\s*`)

// categoryRe matches the "Category: X" label line, case-insensitively.
var categoryRe = regexp.MustCompile(`(?i)^category:\s*(.+)$`)

// ParseTaskDetails parses line-oriented provider text into a category and an
// ordered subtask list capped at three entries. Lines carrying the Category:
// label (first or last, the provider is inconsistent) set the category;
// remaining non-empty lines are stripped of their ordinals. Like
// ParseAIResponse it never fails upward; the *ParseError is diagnostic only.
func ParseTaskDetails(raw string) (category string, subtasks []string, perr *ParseError) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := categoryRe.FindStringSubmatch(line); m != nil {
			category = strings.TrimSpace(m[1])
			continue
		}
		if len(subtasks) >= maxSubtasks {
			continue
		}
		subtasks = append(subtasks, strings.TrimSpace(ordinalRe.ReplaceAllString(line, "")))
	}

	if category == "" && len(subtasks) == 0 {
		perr = &ParseError{Reason: "no category or subtask lines", Raw: raw}
	}
	return category, subtasks, perr
}

// ParseSubtasks parses the plain subtask-list variant: non-empty lines with
// ordinals stripped, capped at three.
func ParseSubtasks(raw string) []string {
	var subtasks []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		subtasks = append(subtasks, strings.TrimSpace(ordinalRe.ReplaceAllString(line, "")))
		if len(subtasks) == maxSubtasks {
			break
		}
	}
	return subtasks
}

// stripFences removes a surrounding markdown code fence, which some models
// wrap JSON output in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
