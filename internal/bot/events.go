package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/gainbrain/internal/quiz"
)

const (
	cmdStart   = "start"
	cmdHelp    = "help"
	cmdProfile = "profile"
	cmdStats   = "stats"
	cmdTopic   = "topic"
	cmdClear   = "clear"
)

// eventFromMessage maps a text message or command to a quiz event.
func eventFromMessage(msg *tgbotapi.Message) quiz.Event {
	ev := quiz.Event{User: UserKey(msg.From)}

	if !msg.IsCommand() {
		ev.Kind = quiz.FreeText
		ev.Payload = msg.Text
		return ev
	}

	switch strings.ToLower(msg.Command()) {
	case cmdStart:
		ev.Kind = quiz.Start
	case cmdProfile, cmdStats:
		ev.Kind = quiz.RequestProfile
	case cmdTopic:
		ev.Kind = quiz.ChangeTopic
		ev.Payload = strings.TrimSpace(msg.CommandArguments())
	case cmdClear:
		ev.Kind = quiz.ClearStats
	default:
		ev.Kind = quiz.Help
	}
	return ev
}

// eventFromCallback maps an inline button press to a quiz event.
func eventFromCallback(cq *tgbotapi.CallbackQuery) (quiz.Event, bool) {
	kind, ok := quiz.Action(cq.Data).EventKind()
	if !ok {
		return quiz.Event{}, false
	}
	return quiz.Event{User: UserKey(cq.From), Kind: kind}, true
}

// keyboard lays buttons out on one inline row.
func keyboard(buttons []quiz.Button) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, string(b.Action)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
