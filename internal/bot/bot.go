package bot

import (
	"context"
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/gainbrain/internal/logger"
	"github.com/abhisek/gainbrain/internal/quiz"
)

const (
	// Telegram rejects longer messages.
	maxMessageLength = 4096

	msgTextOnly = "🎤 I can only read text messages. Please type your answer."
)

// Handler turns a quiz event into a reply. *quiz.Engine implements it.
type Handler interface {
	Handle(ctx context.Context, ev quiz.Event) quiz.Reply
}

// client is the subset of *tgbotapi.BotAPI the bot uses.
type client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram transport in front of the quiz engine.
type Bot struct {
	api     client
	handler Handler
	log     *logger.Logger
}

// inbound is a quiz event plus where to send its reply.
type inbound struct {
	chatID int64
	event  quiz.Event
}

// New connects to the Telegram Bot API with token.
func New(token string, debug bool, handler Handler, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = debug

	if log == nil {
		log = logger.Nop()
	}
	log.Info("authorized on telegram", "bot", api.Self.UserName)
	return newBot(api, handler, log), nil
}

func newBot(api client, handler Handler, log *logger.Logger) *Bot {
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{api: api, handler: handler, log: log}
}

// Run long-polls for updates until ctx is done or the update channel
// closes. Events already queued are finished before Run returns.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	// In-flight events are not cancelled on shutdown.
	d := quiz.NewDispatcher(context.WithoutCancel(ctx), b.process, b.log)
	defer d.Close()

	b.log.Info("listening for updates")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.route(d, update)
		}
	}
}

func (b *Bot) route(d *quiz.Dispatcher[inbound], update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		b.answerCallback(cq.ID)
		if cq.From == nil {
			return
		}

		ev, ok := eventFromCallback(cq)
		if !ok {
			b.log.Warn("unknown callback action", "data", cq.Data)
			return
		}
		chatID := cq.From.ID
		if cq.Message != nil {
			chatID = cq.Message.Chat.ID
		}
		d.Submit(ev.User, inbound{chatID: chatID, event: ev})

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return
		}
		if msg.Text == "" {
			b.send(msg.Chat.ID, quiz.Reply{Text: msgTextOnly})
			return
		}
		ev := eventFromMessage(msg)
		d.Submit(ev.User, inbound{chatID: msg.Chat.ID, event: ev})
	}
}

func (b *Bot) process(ctx context.Context, in inbound) {
	reply := b.handler.Handle(ctx, in.event)
	b.send(in.chatID, reply)
}

func (b *Bot) send(chatID int64, reply quiz.Reply) {
	msg := tgbotapi.NewMessage(chatID, truncate(reply.Text, maxMessageLength))
	if len(reply.Buttons) > 0 {
		msg.ReplyMarkup = keyboard(reply.Buttons)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) answerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.log.Warn("failed to answer callback", "error", err)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
