package conversation

import (
	"regexp"
	"strconv"
	"strings"
)

// The two directive tokens are the only wire-level contract between
// the language model and this core: a slot-listing marker carrying an
// interview type id, and a booking marker carrying a zero-based index
// into the most recently presented slot list.
var (
	showSlotsPattern = regexp.MustCompile(`\[SHOW_SLOTS:([^\]]+)\]`)
	bookingPattern   = regexp.MustCompile(`\[CREATE_APPOINTMENT:(\d+)\]`)
)

// ActionType discriminates the side effect a directive requests
type ActionType string

const (
	ActionShowSlots ActionType = "show_slots"
	ActionBook      ActionType = "create_appointment"
)

// Action is a side effect extracted from the model's raw reply
type Action struct {
	Type            ActionType
	InterviewTypeID string
	SlotIndex       int
}

// ParseReply scans the model's raw reply for a directive token. The
// token is stripped from the returned message; action is nil when the
// reply is a plain conversational turn.
func ParseReply(reply string) (message string, action *Action) {
	if match := showSlotsPattern.FindStringSubmatch(reply); match != nil {
		message = strings.TrimSpace(strings.Replace(reply, match[0], "", 1))
		return message, &Action{
			Type:            ActionShowSlots,
			InterviewTypeID: strings.TrimSpace(match[1]),
		}
	}

	if match := bookingPattern.FindStringSubmatch(reply); match != nil {
		message = strings.TrimSpace(strings.Replace(reply, match[0], "", 1))
		index, err := strconv.Atoi(match[1])
		if err != nil {
			// \d+ guarantees digits; overflow is the only failure mode
			return message, nil
		}
		return message, &Action{
			Type:      ActionBook,
			SlotIndex: index,
		}
	}

	return reply, nil
}
