package quiz

// EventKind identifies what the user asked the bot to do.
type EventKind int

const (
	// FreeText is ordinary text: a topic, an answer or a request for the
	// next question depending on state.
	FreeText EventKind = iota
	ChangeTopic
	ConfirmTopic
	CancelTopic
	ClearStats
	RequestProfile
	DetailedStats
	Start
	Help
)

var eventKindNames = [...]string{
	FreeText:       "free_text",
	ChangeTopic:    "change_topic",
	ConfirmTopic:   "confirm_topic",
	CancelTopic:    "cancel_topic",
	ClearStats:     "clear_stats",
	RequestProfile: "request_profile",
	DetailedStats:  "detailed_stats",
	Start:          "start",
	Help:           "help",
}

func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is one inbound user action.
type Event struct {
	// User is the stable identity key the state is stored under.
	User string
	Kind EventKind
	// Payload is the message text for FreeText and the requested topic
	// for ChangeTopic. Other kinds ignore it.
	Payload string
}

// Action is the logical payload carried by a reply button.
type Action string

const (
	ActionDetailedStats Action = "detailed_stats"
	ActionChangeTopic   Action = "change_topic"
	ActionClearStats    Action = "clear_stats"
	ActionConfirmTopic  Action = "confirm_topic"
	ActionCancelTopic   Action = "cancel_topic"
)

// EventKind maps a button action to the event it triggers.
func (a Action) EventKind() (EventKind, bool) {
	switch a {
	case ActionDetailedStats:
		return DetailedStats, true
	case ActionChangeTopic:
		return ChangeTopic, true
	case ActionClearStats:
		return ClearStats, true
	case ActionConfirmTopic:
		return ConfirmTopic, true
	case ActionCancelTopic:
		return CancelTopic, true
	}
	return 0, false
}

// Button is an inline reply option.
type Button struct {
	Label  string
	Action Action
}

// Reply is the outbound message for one handled event.
type Reply struct {
	Text string
	// Buttons are laid out on a single row.
	Buttons []Button
}
