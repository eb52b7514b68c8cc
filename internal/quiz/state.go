package quiz

import (
	"context"
	"errors"
	"strings"

	"github.com/looplab/fsm"

	"github.com/abhisek/gainbrain/internal/store"
)

// Session states. AwaitingFirstQuestion is transient: a topic is active
// but no question is outstanding, so the next free text asks for one.
const (
	StateNoTopic               = "no_topic"
	StateAwaitingFirstQuestion = "awaiting_first_question"
	StateAwaitingAnswer        = "awaiting_answer"
	StateAwaitingConfirmation  = "awaiting_topic_confirmation"
)

// Transitions.
const (
	evSetTopic           = "set_topic"
	evRequestQuestion    = "request_question"
	evAnswer             = "answer"
	evAnswerLast         = "answer_without_followup"
	evRequestTopicChange = "request_topic_change"
	evConfirmTopic       = "confirm_topic"
	evKeepTopic          = "keep_topic"
	evCancelTopic        = "cancel_topic"
	evClearStats         = "clear_stats"
)

var transitions = fsm.Events{
	{Name: evSetTopic, Src: []string{StateNoTopic}, Dst: StateAwaitingAnswer},
	{Name: evRequestQuestion, Src: []string{StateAwaitingFirstQuestion, StateAwaitingAnswer}, Dst: StateAwaitingAnswer},
	{Name: evAnswer, Src: []string{StateAwaitingAnswer}, Dst: StateAwaitingAnswer},
	{Name: evAnswerLast, Src: []string{StateAwaitingAnswer}, Dst: StateAwaitingFirstQuestion},
	{Name: evRequestTopicChange, Src: []string{StateAwaitingFirstQuestion, StateAwaitingAnswer, StateAwaitingConfirmation}, Dst: StateAwaitingConfirmation},
	{Name: evConfirmTopic, Src: []string{StateAwaitingConfirmation}, Dst: StateAwaitingFirstQuestion},
	{Name: evKeepTopic, Src: []string{StateAwaitingConfirmation}, Dst: StateAwaitingAnswer},
	{Name: evCancelTopic, Src: []string{StateAwaitingConfirmation}, Dst: StateNoTopic},
	{Name: evClearStats, Src: []string{StateNoTopic, StateAwaitingFirstQuestion, StateAwaitingAnswer, StateAwaitingConfirmation}, Dst: StateNoTopic},
}

// StateOf derives the session state from persisted fields. A pending
// topic takes precedence over everything else.
func StateOf(st store.UserState) string {
	switch {
	case st.PendingTopic != "":
		return StateAwaitingConfirmation
	case st.Topic == "":
		return StateNoTopic
	case st.LastQuestion == "":
		return StateAwaitingFirstQuestion
	default:
		return StateAwaitingAnswer
	}
}

// session is the transition table positioned at one user's current state.
type session struct {
	machine *fsm.FSM
}

func newSession(state string, onTransition func(from, event, to string)) *session {
	return &session{
		machine: fsm.NewFSM(state, transitions, fsm.Callbacks{
			"after_event": func(_ context.Context, e *fsm.Event) {
				onTransition(e.Src, e.Event, e.Dst)
			},
		}),
	}
}

func (s *session) current() string {
	return s.machine.Current()
}

func (s *session) can(event string) bool {
	return s.machine.Can(event)
}

// fire records a transition whose side effects already succeeded.
// Self-transitions are not errors.
func (s *session) fire(ctx context.Context, event string) error {
	err := s.machine.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}

// sameTopic compares topics ignoring case and surrounding space.
func sameTopic(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
