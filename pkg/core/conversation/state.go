package conversation

import (
	"regexp"
	"strings"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// Step is the coarse progress of a booking dialogue. It is re-derived
// from the transcript on every turn; nothing is persisted between
// turns.
type Step string

const (
	StepGreeting      Step = "greeting"
	StepName          Step = "name"
	StepEmail         Step = "email"
	StepInterviewType Step = "interview_type"
	StepViewingSlots  Step = "viewing_slots"
	StepConfirming    Step = "confirming"
	StepComplete      Step = "complete"
)

// Message is one role-tagged entry of a dialogue transcript
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// State is the booking context recovered from a transcript. It is a
// best-effort classification over free text, not a parser: nothing
// correctness-critical may depend on it, and a miss only means the
// model keeps asking.
type State struct {
	Step            Step
	MemberName      string
	MemberEmail     string
	MemberPhone     string
	InterviewTypeID string
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	namePattern  = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm|this is)\s+([A-Z][A-Za-z'.-]*(?:\s+[A-Z][A-Za-z'.-]*){0,2})`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3,4}[-.\s]?\d{4}\b`)
)

// ExtractState scans the full transcript and re-derives the dialogue
// state. An email-shaped token in a user message advances past the
// email step; member name, phone and interview type are captured when
// a user message happens to match, so a later booking directive can
// complete.
func ExtractState(messages []Message, types []db.InterviewType) State {
	state := State{Step: StepGreeting}

	for _, msg := range messages {
		if msg.Role != RoleUser {
			continue
		}

		if match := namePattern.FindStringSubmatch(msg.Content); match != nil {
			state.MemberName = match[1]
		}

		if email := emailPattern.FindString(msg.Content); email != "" {
			state.MemberEmail = email
			state.Step = StepInterviewType
		}

		if phone := phonePattern.FindString(msg.Content); phone != "" {
			state.MemberPhone = phone
		}

		for _, it := range types {
			if it.Name == "" {
				continue
			}
			if strings.Contains(strings.ToLower(msg.Content), strings.ToLower(it.Name)) {
				state.InterviewTypeID = it.ID
			}
		}
	}

	if state.InterviewTypeID != "" && state.Step == StepInterviewType {
		state.Step = StepViewingSlots
	}

	return state
}
