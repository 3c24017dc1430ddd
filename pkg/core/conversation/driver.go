package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/pkg/core/scheduler"
	"github.com/wardclerk/interview-scheduler/pkg/db"
)

// Canned replies appended around the core operations' output
const (
	// ApologeticMessage is returned whenever a turn fails for any
	// reason; internal error detail never reaches the member
	ApologeticMessage = "I apologize, but I encountered an error. Please try again or contact your ward's executive secretary for assistance."

	// slotConflictMessage is returned when the chosen slot was booked
	// by someone else between turns
	slotConflictMessage = "It looks like that time was just booked by someone else. Would you like to see the updated availability?"

	slotsPreamble  = "Here are the best available times:"
	slotsPostamble = "Which time works best for you? You can respond with the number."

	bookedMessage = "Your appointment has been scheduled! You'll receive a confirmation email shortly with calendar details."
)

// ChatModel produces the assistant's raw reply for a transcript
type ChatModel interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// SlotResolver computes candidate slots for an interview type
type SlotResolver interface {
	Resolve(ctx context.Context, wardID, interviewTypeID string, windowStart time.Time, daysAhead int) ([]scheduler.TimeSlot, error)
}

// AppointmentCreator books a chosen slot
type AppointmentCreator interface {
	Create(ctx context.Context, req scheduler.CreateRequest) (string, error)
}

// DriverStore defines the database operations the driver needs
type DriverStore interface {
	GetWard(ctx context.Context, id string) (*db.Ward, error)
	ListActiveInterviewTypes(ctx context.Context, wardID string) ([]db.InterviewType, error)
	ListWardAppointments(ctx context.Context, wardID string, status db.AppointmentStatus, from time.Time) ([]db.Appointment, error)
}

// TurnResult is the outcome of one chat turn
type TurnResult struct {
	Message       string               `json:"message"`
	Slots         []scheduler.TimeSlot `json:"slots,omitempty"`
	AppointmentID string               `json:"appointmentId,omitempty"`
}

// DriverOptions configures a Driver
type DriverOptions struct {
	// Location is the ward's configured timezone for rendering slot
	// times. Defaults to UTC.
	Location *time.Location

	// DaysAhead is the resolution window. Defaults to 14.
	DaysAhead int

	// SlotLimit caps how many ranked slots one turn offers.
	// Defaults to scheduler.DefaultPresentLimit.
	SlotLimit int

	// Now overrides the clock, for tests
	Now func() time.Time
}

// Driver handles one chat turn: it classifies the transcript, asks the
// model for a reply, and executes any directive the reply carries. It
// holds no state between turns.
type Driver struct {
	store     DriverStore
	resolver  SlotResolver
	creator   AppointmentCreator
	model     ChatModel
	logger    *zap.Logger
	location  *time.Location
	daysAhead int
	slotLimit int
	now       func() time.Time
}

// NewDriver creates a Driver
func NewDriver(store DriverStore, resolver SlotResolver, creator AppointmentCreator, model ChatModel, logger *zap.Logger, opts DriverOptions) *Driver {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DaysAhead <= 0 {
		opts.DaysAhead = 14
	}
	if opts.SlotLimit <= 0 {
		opts.SlotLimit = scheduler.DefaultPresentLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{
		store:     store,
		resolver:  resolver,
		creator:   creator,
		model:     model,
		logger:    logger,
		location:  opts.Location,
		daysAhead: opts.DaysAhead,
		slotLimit: opts.SlotLimit,
		now:       opts.Now,
	}
}

// HandleTurn processes one turn of the booking dialogue. It never
// returns an error: any failure degrades to the apologetic message.
func (d *Driver) HandleTurn(ctx context.Context, wardID string, messages []Message) *TurnResult {
	result, err := d.handleTurn(ctx, wardID, messages)
	if err != nil {
		d.logger.Error("Chat turn failed", zap.String("ward_id", wardID), zap.Error(err))
		return &TurnResult{Message: ApologeticMessage}
	}
	return result
}

func (d *Driver) handleTurn(ctx context.Context, wardID string, messages []Message) (*TurnResult, error) {
	ward, err := d.store.GetWard(ctx, wardID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ward %s: %w", wardID, err)
	}

	types, err := d.store.ListActiveInterviewTypes(ctx, wardID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interview types: %w", err)
	}

	state := ExtractState(messages, types)
	system := BuildSystemPrompt(ward, types, state)

	reply, err := d.model.Complete(ctx, system, messages)
	if err != nil {
		return nil, fmt.Errorf("model completion failed: %w", err)
	}

	message, action := ParseReply(reply)
	if action == nil {
		return &TurnResult{Message: message}, nil
	}

	switch action.Type {
	case ActionShowSlots:
		return d.showSlots(ctx, wardID, action.InterviewTypeID, message)
	case ActionBook:
		return d.bookSlot(ctx, wardID, state, action.SlotIndex, message)
	default:
		return &TurnResult{Message: message}, nil
	}
}

// showSlots resolves, ranks and renders the current availability for
// the requested interview type
func (d *Driver) showSlots(ctx context.Context, wardID, interviewTypeID, message string) (*TurnResult, error) {
	ranked, err := d.rankedSlots(ctx, wardID, interviewTypeID)
	if err != nil {
		return nil, err
	}

	formatted := scheduler.Present(ranked, d.slotLimit, d.location)
	offered := ranked
	if len(offered) > d.slotLimit {
		offered = offered[:d.slotLimit]
	}

	return &TurnResult{
		Message: fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", message, slotsPreamble, formatted, slotsPostamble),
		Slots:   offered,
	}, nil
}

// bookSlot re-resolves the ranked list (the driver is stateless, so the
// index refers to a freshly computed ordering) and books the slot at
// the confirmed index
func (d *Driver) bookSlot(ctx context.Context, wardID string, state State, slotIndex int, message string) (*TurnResult, error) {
	if state.InterviewTypeID == "" {
		return nil, db.NewValidationError("booking confirmed but no interview type was identified in the transcript")
	}

	ranked, err := d.rankedSlots(ctx, wardID, state.InterviewTypeID)
	if err != nil {
		return nil, err
	}
	if slotIndex < 0 || slotIndex >= len(ranked) {
		return nil, fmt.Errorf("slot index %d out of range (%d slots available)", slotIndex, len(ranked))
	}

	appointmentID, err := d.creator.Create(ctx, scheduler.CreateRequest{
		WardID:          wardID,
		InterviewTypeID: state.InterviewTypeID,
		MemberName:      state.MemberName,
		MemberEmail:     state.MemberEmail,
		MemberPhone:     state.MemberPhone,
		Slot:            ranked[slotIndex],
	})
	if errors.Is(err, db.ErrSlotTaken) {
		// Fatal to this booking attempt, not to the turn
		d.logger.Info("Booking lost a slot race",
			zap.String("ward_id", wardID),
			zap.Int("slot_index", slotIndex))
		return &TurnResult{Message: slotConflictMessage}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	return &TurnResult{
		Message:       fmt.Sprintf("%s\n\n%s", message, bookedMessage),
		AppointmentID: appointmentID,
	}, nil
}

func (d *Driver) rankedSlots(ctx context.Context, wardID, interviewTypeID string) ([]scheduler.TimeSlot, error) {
	now := d.now()

	slots, err := d.resolver.Resolve(ctx, wardID, interviewTypeID, now, d.daysAhead)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slots: %w", err)
	}

	existing, err := d.store.ListWardAppointments(ctx, wardID, db.StatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing appointments: %w", err)
	}

	return scheduler.Optimize(slots, existing, now), nil
}
