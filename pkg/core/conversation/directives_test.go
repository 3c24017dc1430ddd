package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply_PlainMessage(t *testing.T) {
	message, action := ParseReply("Happy to help! What's your name?")
	assert.Equal(t, "Happy to help! What's your name?", message)
	assert.Nil(t, action)
}

func TestParseReply_ShowSlotsDirective(t *testing.T) {
	message, action := ParseReply("Great choice! [SHOW_SLOTS:type-42] Let me pull up some times.")

	require.NotNil(t, action)
	assert.Equal(t, ActionShowSlots, action.Type)
	assert.Equal(t, "type-42", action.InterviewTypeID)
	assert.Equal(t, "Great choice!  Let me pull up some times.", message)
	assert.NotContains(t, message, "[SHOW_SLOTS")
}

func TestParseReply_BookingDirective(t *testing.T) {
	message, action := ParseReply("Perfect, booking that now. [CREATE_APPOINTMENT:2]")

	require.NotNil(t, action)
	assert.Equal(t, ActionBook, action.Type)
	assert.Equal(t, 2, action.SlotIndex)
	assert.Equal(t, "Perfect, booking that now.", message)
}

func TestParseReply_ZeroIndex(t *testing.T) {
	_, action := ParseReply("[CREATE_APPOINTMENT:0]")
	require.NotNil(t, action)
	assert.Equal(t, 0, action.SlotIndex)
}

func TestParseReply_ShowSlotsWinsWhenBothPresent(t *testing.T) {
	// A confused model emitting both still triggers only one side
	// effect, the slot listing
	_, action := ParseReply("[SHOW_SLOTS:type-1] [CREATE_APPOINTMENT:1]")
	require.NotNil(t, action)
	assert.Equal(t, ActionShowSlots, action.Type)
}

func TestParseReply_MalformedDirectivesAreLeftAlone(t *testing.T) {
	message, action := ParseReply("[SHOW_SLOTS] and [CREATE_APPOINTMENT:abc]")
	assert.Nil(t, action)
	assert.Equal(t, "[SHOW_SLOTS] and [CREATE_APPOINTMENT:abc]", message)
}
