package assistant

import (
	"fmt"
	"strings"
)

// responseShapeExample is embedded in every conversational prompt so the
// assistant answers in the exact JSON shape the UI consumes.
const responseShapeExample = `{
  "question": "[Task-specific question here]",
  "options": [
    "[Task-relevant option 1]",
    "[Task-relevant option 2]",
    "[Task-relevant option 3]"
  ],
  "assessment": "continuing",
  "confidence_score": 0
}`

// AnalysisPrompt builds the first message of a new conversation: a full
// restatement of the task, its subtasks and progress, plus the required
// response shape.
func AnalysisPrompt(tc TaskContext) string {
	var b strings.Builder
	b.WriteString("Please analyze this task and provide guidance through questions. Here are the task details:\n\n")
	b.WriteString("MAIN TASK:\n")
	fmt.Fprintf(&b, "- Description: %s\n", tc.Description)
	fmt.Fprintf(&b, "- Category: %s\n", tc.Category)
	fmt.Fprintf(&b, "- Current Status: %s\n", tc.Status)
	fmt.Fprintf(&b, "- Assigned to: %s\n", tc.AssignedTo)
	fmt.Fprintf(&b, "- Created by: %s\n\n", tc.CreatedBy)

	fmt.Fprintf(&b, "SUBTASKS (%d total):\n", len(tc.Subtasks))
	for i, st := range tc.Subtasks {
		status := "pending"
		if st.IsComplete {
			status = "complete"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, st.Description, status)
	}

	b.WriteString("\nPROGRESS:\n")
	fmt.Fprintf(&b, "- Completed subtasks: %d of %d\n", tc.CompletedSubtasks(), len(tc.Subtasks))
	fmt.Fprintf(&b, "- Category: %s\n\n", tc.Category)

	b.WriteString("Please provide responses in JSON format that help understand and break down this specific task.\n")
	b.WriteString("Focus your questions and options on the actual task content and its subtasks.\n\n")
	b.WriteString("Example response format:\n")
	b.WriteString(responseShapeExample)
	return b.String()
}

// FollowUpPrompt builds the message for a continued conversation after the
// user picked an option.
func FollowUpPrompt(selection string, tc TaskContext) string {
	descs := make([]string, 0, len(tc.Subtasks))
	for _, st := range tc.Subtasks {
		descs = append(descs, st.Description)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the user's selection: %q\n\n", selection)
	fmt.Fprintf(&b, "Remember this is about: %s\n", tc.Description)
	fmt.Fprintf(&b, "With subtasks: %s\n\n", strings.Join(descs, ", "))
	b.WriteString("Please provide the next question in JSON format, keeping focus on this specific task.")
	return b.String()
}

// RunInstructions builds the per-run instructions keeping the assistant
// anchored to the current task.
func RunInstructions(tc TaskContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing this specific task: %q\n\n", tc.Description)
	b.WriteString("Keep your responses focused on this task and its subtasks:\n")
	for _, st := range tc.Subtasks {
		fmt.Fprintf(&b, "- %s\n", st.Description)
	}
	b.WriteString(`
Always provide task-specific questions and options that help understand:
1. The requirements and scope of this particular task
2. The approach to completing the subtasks
3. Any potential challenges or considerations specific to this task

Respond in JSON format with:
`)
	b.WriteString(responseShapeExample)
	return b.String()
}

// subtaskSystemPrompt is the system message for the stateless generation
// variant.
const subtaskSystemPrompt = "You are a helpful assistant that generates subtasks for a given task."

// SubtasksPrompt asks for three plain subtasks as an ordinal list.
func SubtasksPrompt(description string) string {
	return fmt.Sprintf("Generate 3 subtasks for the following task: %q", description)
}

// DetailsPrompt asks for a category plus three subtasks in the line-oriented
// shape ParseTaskDetails expects.
func DetailsPrompt(description string) string {
	return fmt.Sprintf(`For the following task, reply with a one-word category on the first line in the form "Category: <name>", followed by exactly 3 subtasks as a numbered list ("1. ...").

Task: %q`, description)
}

// SummaryPrompt asks for the short spoken summary used for audio synthesis.
func SummaryPrompt(description string, subtasks []string) string {
	return fmt.Sprintf("In two sentences, summarize this task and its steps for a spoken briefing.\n\nTask: %s\nSteps: %s",
		description, strings.Join(subtasks, "; "))
}

// CartoonPrompt asks for a single illustrative image of the task.
func CartoonPrompt(description string) string {
	return fmt.Sprintf("A friendly cartoon storyboard illustrating the task: %s. Simple flat style, no text.", description)
}

// assistantInstructions configures the pre-provisioned "Task Helper"
// assistant when no assistant ID is supplied.
const assistantInstructions = `You are a helpful task assistant that helps users understand their tasks and subtasks.
Your goal is to ask targeted questions with multiple choice answers to gauge the user's understanding.

Follow these guidelines:
1. Ask one question at a time
2. Provide 2-4 multiple choice options for each question
3. Base your questions on the task and subtask context provided
4. Adjust your questions based on user responses
5. After 3-5 questions, assess if the user is ready to start
6. If they seem ready, ask if they want to begin the task
7. Keep responses concise and focused

Always format your responses as JSON:
{
  "question": "your question here",
  "options": ["option1", "option2", "option3"],
  "assessment": "ready|not_ready|continuing",
  "confidence_score": 0-100
}`
