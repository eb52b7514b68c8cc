package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gainbrain/internal/llm"
	"github.com/abhisek/gainbrain/internal/logger"
	"github.com/abhisek/gainbrain/internal/questiongen"
	"github.com/abhisek/gainbrain/internal/stats"
	"github.com/abhisek/gainbrain/internal/store"
)

// Engine drives per-user quiz sessions. It is safe for concurrent use by
// different users; events for the same user must be serialized by the
// caller (see Dispatcher).
type Engine struct {
	repo     store.QuizRepo
	gen      questiongen.Generator
	exporter Exporter
	log      *logger.Logger
	now      func() time.Time
}

const exportTimeout = 10 * time.Second

// Exporter mirrors graded answers to an external system. followUp is the
// next question sent with the grade, possibly empty.
type Exporter interface {
	Export(ctx context.Context, rec store.AnswerRecord, followUp string) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithExporter sends every graded answer to x after it is stored. Export
// failures are logged and never reach the user.
func WithExporter(x Exporter) Option {
	return func(e *Engine) { e.exporter = x }
}

// NewEngine creates an Engine. log may be nil.
func NewEngine(repo store.QuizRepo, gen questiongen.Generator, log *logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{repo: repo, gen: gen, log: log, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle processes one event and returns the reply to send. It never
// fails: generation and persistence errors are logged and turned into a
// user-visible reply.
func (e *Engine) Handle(ctx context.Context, ev Event) Reply {
	log := e.log.With("event_id", uuid.NewString(), "user", ev.User, "kind", ev.Kind.String())
	log.Debug("handling event")
	ctx = llm.WithUser(ctx, ev.User)

	switch ev.Kind {
	case Start:
		return Reply{Text: msgWelcome}
	case Help:
		return Reply{Text: msgHelp}
	case RequestProfile:
		return e.profile(ctx, log, ev.User)
	case DetailedStats:
		return e.detailedStats(ctx, log, ev.User)
	}

	t, err := e.begin(ctx, log, ev.User)
	if err != nil {
		// Without the stored state the event cannot be placed; nothing is written.
		log.Error("failed to load user state", "error", err)
		return Reply{Text: msgGenerationFailed}
	}

	switch ev.Kind {
	case FreeText:
		return t.freeText(ev.Payload)
	case ChangeTopic:
		return t.changeTopic(ev.Payload)
	case ConfirmTopic:
		return t.confirmTopic()
	case CancelTopic:
		return t.cancelTopic()
	case ClearStats:
		return t.clearStats()
	}

	log.Warn("unhandled event kind")
	return Reply{Text: msgHelp}
}

// turn is the working set for one state-changing event.
type turn struct {
	*Engine
	ctx  context.Context
	log  *logger.Logger
	user string
	st   store.UserState
	sess *session
}

func (e *Engine) begin(ctx context.Context, log *logger.Logger, user string) (*turn, error) {
	st, err := e.repo.GetState(ctx, user)
	if err != nil {
		return nil, err
	}

	t := &turn{Engine: e, ctx: ctx, log: log, user: user, st: st}
	t.sess = newSession(StateOf(st), func(from, event, to string) {
		log.Info("session transition", "from", from, "event", event, "to", to)
	})
	return t, nil
}

func (t *turn) freeText(text string) Reply {
	text = strings.TrimSpace(text)

	switch t.sess.current() {
	case StateAwaitingConfirmation:
		return Reply{Text: msgPleaseConfirm, Buttons: confirmButtons}
	case StateNoTopic:
		if text == "" {
			return Reply{Text: msgEnterTopic}
		}
		return t.setTopic(text)
	case StateAwaitingFirstQuestion:
		return t.nextQuestion()
	default:
		return t.answer(text)
	}
}

func (t *turn) changeTopic(topic string) Reply {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Reply{Text: msgTopicUsage}
	}

	switch t.sess.current() {
	case StateNoTopic:
		return t.setTopic(topic)
	case StateAwaitingConfirmation:
		if sameTopic(topic, t.st.Topic) {
			return t.keepTopic()
		}
	default:
		if sameTopic(topic, t.st.Topic) {
			return t.nextQuestion()
		}
	}

	t.savePendingTopic(topic)
	t.transition(evRequestTopicChange)
	return Reply{Text: confirmPrompt(t.st.Topic, topic), Buttons: confirmButtons}
}

// setTopic starts a quiz from scratch. Nothing is stored unless the first
// question was generated.
func (t *turn) setTopic(topic string) Reply {
	q, err := t.gen.GenerateQuestion(t.ctx, topic)
	if err != nil {
		return t.generationFailed(err)
	}

	t.saveTopic(topic)
	t.saveLastQuestion(q)
	t.transition(evSetTopic)
	return Reply{Text: questionReply(topic, q)}
}

// nextQuestion asks a fresh question on the active topic.
func (t *turn) nextQuestion() Reply {
	q, err := t.gen.GenerateQuestion(t.ctx, t.st.Topic)
	if err != nil {
		return t.generationFailed(err)
	}

	t.saveLastQuestion(q)
	t.transition(evRequestQuestion)
	return Reply{Text: questionReply(t.st.Topic, q)}
}

// keepTopic drops a pending change back to the active topic.
func (t *turn) keepTopic() Reply {
	q, err := t.gen.GenerateQuestion(t.ctx, t.st.Topic)
	if err != nil {
		return t.generationFailed(err)
	}

	t.savePendingTopic("")
	t.saveLastQuestion(q)
	t.transition(evKeepTopic)
	return Reply{Text: questionReply(t.st.Topic, q)}
}

func (t *turn) answer(text string) Reply {
	eval, err := t.gen.EvaluateAnswer(t.ctx, questiongen.EvaluateInput{
		Topic:    t.st.Topic,
		Question: t.st.LastQuestion,
		Answer:   text,
	})
	if err != nil {
		return t.generationFailed(err)
	}
	if eval.Repaired {
		t.log.Info("evaluation needed a repair round-trip")
	}

	rec := store.AnswerRecord{
		Username:      t.user,
		Topic:         t.st.Topic,
		Question:      t.st.LastQuestion,
		UserAnswer:    text,
		CorrectAnswer: eval.CorrectAnswer,
		Score:         eval.Score,
		Timestamp:     t.now(),
	}
	if err := t.repo.AppendAnswer(t.ctx, rec); err != nil {
		t.log.Error("failed to save answer record", "error", err)
	}
	t.export(rec, eval.NextQuestion)
	t.saveLastQuestion(eval.NextQuestion)

	if eval.NextQuestion == "" {
		t.transition(evAnswerLast)
	} else {
		t.transition(evAnswer)
	}
	return Reply{Text: evaluationReply(eval.Score, eval.CorrectAnswer, eval.NextQuestion)}
}

// confirmTopic commits the pending topic, then asks its first question.
// If generation fails the topic stays committed without a question.
func (t *turn) confirmTopic() Reply {
	if !t.sess.can(evConfirmTopic) {
		return Reply{Text: msgNothingToConfirm}
	}

	topic := t.st.PendingTopic
	t.saveTopic(topic)
	t.savePendingTopic("")
	t.saveLastQuestion("")
	t.transition(evConfirmTopic)

	q, err := t.gen.GenerateQuestion(t.ctx, topic)
	if err != nil {
		t.log.Warn("question generation failed after topic change", "error", err)
		return Reply{Text: topicCommittedNoQuestion(topic)}
	}

	t.saveLastQuestion(q)
	t.transition(evRequestQuestion)
	return Reply{Text: questionReply(topic, q)}
}

func (t *turn) cancelTopic() Reply {
	if !t.sess.can(evCancelTopic) {
		return Reply{Text: msgNothingToConfirm}
	}

	t.saveTopic("")
	t.savePendingTopic("")
	t.saveLastQuestion("")
	t.transition(evCancelTopic)
	return Reply{Text: msgTopicCancelled}
}

func (t *turn) clearStats() Reply {
	if err := Reset(t.ctx, t.repo, t.user); err != nil {
		t.log.Error("failed to clear user data", "error", err)
	}
	t.st = store.UserState{Username: t.user}
	t.transition(evClearStats)
	return Reply{Text: msgStatsCleared}
}

func (t *turn) export(rec store.AnswerRecord, followUp string) {
	if t.exporter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(t.ctx, exportTimeout)
	defer cancel()
	if err := t.exporter.Export(ctx, rec, followUp); err != nil {
		t.log.Warn("failed to export answer record", "error", err)
	}
}

func (t *turn) generationFailed(err error) Reply {
	t.log.Warn("generation failed", "error", err, "state", t.sess.current())
	return Reply{Text: msgGenerationFailed}
}

func (t *turn) transition(event string) {
	if err := t.sess.fire(t.ctx, event); err != nil {
		t.log.Error("invalid session transition", "transition", event, "error", err)
	}
}

// The save helpers write through to the store and keep the in-memory copy
// current even when the write fails.

func (t *turn) saveTopic(topic string) {
	t.st.Topic = topic
	if err := t.repo.SetTopic(t.ctx, t.user, topic); err != nil {
		t.log.Error("failed to save topic", "error", err)
	}
}

func (t *turn) savePendingTopic(topic string) {
	t.st.PendingTopic = topic
	if err := t.repo.SetPendingTopic(t.ctx, t.user, topic); err != nil {
		t.log.Error("failed to save pending topic", "error", err)
	}
}

func (t *turn) saveLastQuestion(q string) {
	t.st.LastQuestion = q
	if err := t.repo.SetLastQuestion(t.ctx, t.user, q); err != nil {
		t.log.Error("failed to save last question", "error", err)
	}
}

func (e *Engine) profile(ctx context.Context, log *logger.Logger, user string) Reply {
	topic, err := e.repo.GetTopic(ctx, user)
	if err != nil {
		log.Error("failed to load topic", "error", err)
	}
	records, err := e.repo.ListAnswers(ctx, user)
	if err != nil {
		log.Error("failed to load answer history", "error", err)
	}
	return Reply{
		Text:    profileReply(user, topic, stats.Summarize(records)),
		Buttons: profileButtons,
	}
}

func (e *Engine) detailedStats(ctx context.Context, log *logger.Logger, user string) Reply {
	records, err := e.repo.ListAnswers(ctx, user)
	if err != nil {
		log.Error("failed to load answer history", "error", err)
	}
	return Reply{Text: breakdownReply(stats.BreakdownByTopic(records))}
}

// Reset deletes a user's answer history and clears topic, pending topic
// and last question. Every step is attempted; failures are joined.
func Reset(ctx context.Context, repo store.QuizRepo, user string) error {
	var errs []error
	if err := repo.ClearAnswers(ctx, user); err != nil {
		errs = append(errs, fmt.Errorf("clear answers: %w", err))
	}
	if err := repo.SetTopic(ctx, user, ""); err != nil {
		errs = append(errs, fmt.Errorf("clear topic: %w", err))
	}
	if err := repo.SetPendingTopic(ctx, user, ""); err != nil {
		errs = append(errs, fmt.Errorf("clear pending topic: %w", err))
	}
	if err := repo.SetLastQuestion(ctx, user, ""); err != nil {
		errs = append(errs, fmt.Errorf("clear last question: %w", err))
	}
	return errors.Join(errs...)
}
