package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wardclerk/interview-scheduler/pkg/db"
)

var testTypes = []db.InterviewType{
	{ID: "type-1", Name: "Temple Recommend"},
	{ID: "type-2", Name: "Calling"},
}

func userMsg(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func TestExtractState_EmptyTranscriptIsGreeting(t *testing.T) {
	state := ExtractState(nil, testTypes)
	assert.Equal(t, StepGreeting, state.Step)
	assert.Empty(t, state.MemberEmail)
}

func TestExtractState_EmailAdvancesPastEmailStep(t *testing.T) {
	state := ExtractState([]Message{
		userMsg("Hi, I'd like to schedule an interview"),
		userMsg("Sure, it's emma.wilson@example.com"),
	}, testTypes)

	assert.Equal(t, StepInterviewType, state.Step)
	assert.Equal(t, "emma.wilson@example.com", state.MemberEmail)
}

func TestExtractState_EmailInAssistantMessageIgnored(t *testing.T) {
	state := ExtractState([]Message{
		{Role: RoleAssistant, Content: "You can reach us at office@ward.example.org"},
	}, testTypes)

	assert.Equal(t, StepGreeting, state.Step)
	assert.Empty(t, state.MemberEmail)
}

func TestExtractState_CapturesName(t *testing.T) {
	state := ExtractState([]Message{
		userMsg("Hello! My name is Emma Wilson"),
	}, testTypes)

	assert.Equal(t, "Emma Wilson", state.MemberName)
}

func TestExtractState_CapturesPhone(t *testing.T) {
	state := ExtractState([]Message{
		userMsg("You can call me at 555-014-2233 if needed"),
	}, testTypes)

	assert.Equal(t, "555-014-2233", state.MemberPhone)
}

func TestExtractState_MatchesInterviewTypeCaseInsensitively(t *testing.T) {
	state := ExtractState([]Message{
		userMsg("I'm Emma Wilson, emma@example.com"),
		userMsg("I need a temple recommend interview please"),
	}, testTypes)

	assert.Equal(t, "type-1", state.InterviewTypeID)
	assert.Equal(t, StepViewingSlots, state.Step)
}

func TestExtractState_LaterMentionsWin(t *testing.T) {
	state := ExtractState([]Message{
		userMsg("emma@example.com - maybe a calling interview"),
		userMsg("Actually, make that a temple recommend"),
	}, testTypes)

	assert.Equal(t, "type-1", state.InterviewTypeID)
}

func TestExtractState_NoEmailStaysAtGreeting(t *testing.T) {
	state := ExtractState([]Message{
		userMsg("I need a temple recommend interview"),
	}, testTypes)

	// Type was mentioned but the email gate has not been passed
	assert.Equal(t, StepGreeting, state.Step)
	assert.Equal(t, "type-1", state.InterviewTypeID)
}
