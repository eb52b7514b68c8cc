package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// sqlQuizRepo implements QuizRepo over the SQLite tables.
type sqlQuizRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func (r *sqlQuizRepo) GetState(ctx context.Context, username string) (UserState, error) {
	query, args := r.b.Select(colTopic, colPendingTopic, colLastQuestion, colUpdatedAt).
		From(entsql.Table(userStatesTable)).
		Where(entsql.EQ(colUsername, username)).
		Query()

	var (
		topic, pending, last sql.NullString
		updated              time.Time
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&topic, &pending, &last, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return UserState{Username: username}, nil
	}
	if err != nil {
		return UserState{}, fmt.Errorf("query user state: %w", err)
	}
	return UserState{
		Username:     username,
		Topic:        topic.String,
		PendingTopic: pending.String,
		LastQuestion: last.String,
		UpdatedAt:    updated,
	}, nil
}

func (r *sqlQuizRepo) GetTopic(ctx context.Context, username string) (string, error) {
	st, err := r.GetState(ctx, username)
	return st.Topic, err
}

func (r *sqlQuizRepo) SetTopic(ctx context.Context, username, topic string) error {
	return r.setColumn(ctx, username, colTopic, topic)
}

func (r *sqlQuizRepo) GetPendingTopic(ctx context.Context, username string) (string, error) {
	st, err := r.GetState(ctx, username)
	return st.PendingTopic, err
}

func (r *sqlQuizRepo) SetPendingTopic(ctx context.Context, username, topic string) error {
	return r.setColumn(ctx, username, colPendingTopic, topic)
}

func (r *sqlQuizRepo) GetLastQuestion(ctx context.Context, username string) (string, error) {
	st, err := r.GetState(ctx, username)
	return st.LastQuestion, err
}

func (r *sqlQuizRepo) SetLastQuestion(ctx context.Context, username, question string) error {
	return r.setColumn(ctx, username, colLastQuestion, question)
}

// setColumn upserts one nullable column of the user's state row.
func (r *sqlQuizRepo) setColumn(ctx context.Context, username, column, value string) error {
	query, args := r.b.Insert(userStatesTable).
		Columns(colUsername, column, colUpdatedAt).
		Values(username, nullable(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns(colUsername),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded(column)
				u.SetExcluded(colUpdatedAt)
			}),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	return nil
}

func (r *sqlQuizRepo) AppendAnswer(ctx context.Context, rec AnswerRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	query, args := r.b.Insert(answerRecordsTable).
		Columns(colRecordID, colUsername, colTopic, colQuestion, colUserAnswer, colCorrectAnswer, colScore, colCreatedAt).
		Values(rec.ID, rec.Username, rec.Topic, rec.Question, rec.UserAnswer, rec.CorrectAnswer, rec.Score, rec.Timestamp.UTC()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer record: %w", err)
	}
	return nil
}

func (r *sqlQuizRepo) ListAnswers(ctx context.Context, username string) ([]AnswerRecord, error) {
	query, args := r.b.Select(colRecordID, colTopic, colQuestion, colUserAnswer, colCorrectAnswer, colScore, colCreatedAt).
		From(entsql.Table(answerRecordsTable)).
		Where(entsql.EQ(colUsername, username)).
		OrderBy(entsql.Asc(colID)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer records: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		rec := AnswerRecord{Username: username}
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.Question, &rec.UserAnswer, &rec.CorrectAnswer, &rec.Score, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan answer record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *sqlQuizRepo) ClearAnswers(ctx context.Context, username string) error {
	query, args := r.b.Delete(answerRecordsTable).
		Where(entsql.EQ(colUsername, username)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear answer records: %w", err)
	}
	return nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
