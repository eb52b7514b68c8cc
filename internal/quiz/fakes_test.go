package quiz

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/gainbrain/internal/llm"
	"github.com/abhisek/gainbrain/internal/questiongen"
	"github.com/abhisek/gainbrain/internal/store"
)

var errStoreDown = errors.New("store down")

// memRepo is an in-memory store.QuizRepo with switchable failures.
type memRepo struct {
	mu         sync.Mutex
	states     map[string]store.UserState
	answers    map[string][]store.AnswerRecord
	failReads  bool
	failWrites bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		states:  make(map[string]store.UserState),
		answers: make(map[string][]store.AnswerRecord),
	}
}

func (m *memRepo) seed(st store.UserState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.Username] = st
}

func (m *memRepo) state(user string) store.UserState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[user]
	st.Username = user
	return st
}

func (m *memRepo) records(user string) []store.AnswerRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.AnswerRecord(nil), m.answers[user]...)
}

func (m *memRepo) GetState(_ context.Context, user string) (store.UserState, error) {
	if m.failReads {
		return store.UserState{}, errStoreDown
	}
	return m.state(user), nil
}

func (m *memRepo) GetTopic(ctx context.Context, user string) (string, error) {
	st, err := m.GetState(ctx, user)
	return st.Topic, err
}

func (m *memRepo) GetPendingTopic(ctx context.Context, user string) (string, error) {
	st, err := m.GetState(ctx, user)
	return st.PendingTopic, err
}

func (m *memRepo) GetLastQuestion(ctx context.Context, user string) (string, error) {
	st, err := m.GetState(ctx, user)
	return st.LastQuestion, err
}

func (m *memRepo) update(user string, fn func(*store.UserState)) error {
	if m.failWrites {
		return errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[user]
	st.Username = user
	fn(&st)
	m.states[user] = st
	return nil
}

func (m *memRepo) SetTopic(_ context.Context, user, topic string) error {
	return m.update(user, func(st *store.UserState) { st.Topic = topic })
}

func (m *memRepo) SetPendingTopic(_ context.Context, user, topic string) error {
	return m.update(user, func(st *store.UserState) { st.PendingTopic = topic })
}

func (m *memRepo) SetLastQuestion(_ context.Context, user, q string) error {
	return m.update(user, func(st *store.UserState) { st.LastQuestion = q })
}

func (m *memRepo) AppendAnswer(_ context.Context, rec store.AnswerRecord) error {
	if m.failWrites {
		return errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[rec.Username] = append(m.answers[rec.Username], rec)
	return nil
}

func (m *memRepo) ListAnswers(_ context.Context, user string) ([]store.AnswerRecord, error) {
	if m.failReads {
		return nil, errStoreDown
	}
	return m.records(user), nil
}

func (m *memRepo) ClearAnswers(_ context.Context, user string) error {
	if m.failWrites {
		return errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.answers, user)
	return nil
}

// fakeGenerator returns scripted questions and evaluations, falling back
// to predictable defaults, and records every call.
type fakeGenerator struct {
	mu            sync.Mutex
	questions     []string
	evals         []questiongen.Evaluation
	err           error
	questionCalls []string
	evalCalls     []questiongen.EvaluateInput
	users         []string
}

func (g *fakeGenerator) GenerateQuestion(ctx context.Context, topic string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.questionCalls = append(g.questionCalls, topic)
	g.users = append(g.users, llm.UserFrom(ctx))
	if g.err != nil {
		return "", g.err
	}
	if len(g.questions) > 0 {
		q := g.questions[0]
		g.questions = g.questions[1:]
		return q, nil
	}
	return "Question about " + topic + "?", nil
}

func (g *fakeGenerator) EvaluateAnswer(_ context.Context, in questiongen.EvaluateInput) (*questiongen.Evaluation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.evalCalls = append(g.evalCalls, in)
	if g.err != nil {
		return nil, g.err
	}
	if len(g.evals) > 0 {
		e := g.evals[0]
		g.evals = g.evals[1:]
		return &e, nil
	}
	return &questiongen.Evaluation{Score: 5, CorrectAnswer: "answer", NextQuestion: "Next?"}, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.questionCalls) + len(g.evalCalls)
}

func generationErr() error {
	return &questiongen.GenerationError{Op: "generate question", Err: errors.New("provider down")}
}

type exportedAnswer struct {
	rec      store.AnswerRecord
	followUp string
}

// fakeExporter records exports and fails with err when set.
type fakeExporter struct {
	mu       sync.Mutex
	exported []exportedAnswer
	err      error
}

func (x *fakeExporter) Export(_ context.Context, rec store.AnswerRecord, followUp string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.err != nil {
		return x.err
	}
	x.exported = append(x.exported, exportedAnswer{rec: rec, followUp: followUp})
	return nil
}
