package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gainbrain"

// RedisQuizRepo implements QuizRepo on Redis: one hash per user for the
// quiz state and one list per user for the answer history.
type RedisQuizRepo struct {
	client *redis.Client
	prefix string
}

// OpenRedis parses url, pings the server and returns a repo over it.
func OpenRedis(ctx context.Context, url string) (*RedisQuizRepo, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	return NewRedisQuizRepo(client), nil
}

// NewRedisQuizRepo wraps an existing client.
func NewRedisQuizRepo(client *redis.Client) *RedisQuizRepo {
	return &RedisQuizRepo{client: client, prefix: redisKeyPrefix}
}

// Close closes the Redis client.
func (r *RedisQuizRepo) Close() error {
	return r.client.Close()
}

// Ping reports whether Redis is reachable.
func (r *RedisQuizRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisQuizRepo) userKey(username string) string {
	return r.prefix + ":user:" + username
}

func (r *RedisQuizRepo) answersKey(username string) string {
	return r.prefix + ":answers:" + username
}

func (r *RedisQuizRepo) GetState(ctx context.Context, username string) (UserState, error) {
	vals, err := r.client.HGetAll(ctx, r.userKey(username)).Result()
	if err != nil {
		return UserState{}, fmt.Errorf("read user state: %w", err)
	}
	st := UserState{
		Username:     username,
		Topic:        vals[colTopic],
		PendingTopic: vals[colPendingTopic],
		LastQuestion: vals[colLastQuestion],
	}
	if ts := vals[colUpdatedAt]; ts != "" {
		st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return st, nil
}

func (r *RedisQuizRepo) GetTopic(ctx context.Context, username string) (string, error) {
	return r.getField(ctx, username, colTopic)
}

func (r *RedisQuizRepo) SetTopic(ctx context.Context, username, topic string) error {
	return r.setField(ctx, username, colTopic, topic)
}

func (r *RedisQuizRepo) GetPendingTopic(ctx context.Context, username string) (string, error) {
	return r.getField(ctx, username, colPendingTopic)
}

func (r *RedisQuizRepo) SetPendingTopic(ctx context.Context, username, topic string) error {
	return r.setField(ctx, username, colPendingTopic, topic)
}

func (r *RedisQuizRepo) GetLastQuestion(ctx context.Context, username string) (string, error) {
	return r.getField(ctx, username, colLastQuestion)
}

func (r *RedisQuizRepo) SetLastQuestion(ctx context.Context, username, question string) error {
	return r.setField(ctx, username, colLastQuestion, question)
}

func (r *RedisQuizRepo) getField(ctx context.Context, username, field string) (string, error) {
	v, err := r.client.HGet(ctx, r.userKey(username), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field, err)
	}
	return v, nil
}

// setField writes or, for "", deletes one hash field.
func (r *RedisQuizRepo) setField(ctx context.Context, username, field, value string) error {
	key := r.userKey(username)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if value == "" {
			pipe.HDel(ctx, key, field)
		} else {
			pipe.HSet(ctx, key, field, value)
		}
		pipe.HSet(ctx, key, colUpdatedAt, now)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}
	return nil
}

// redisAnswer is the JSON form of an AnswerRecord inside the history list.
type redisAnswer struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	Question      string    `json:"question"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	Score         int       `json:"score"`
	Timestamp     time.Time `json:"timestamp"`
}

func (r *RedisQuizRepo) AppendAnswer(ctx context.Context, rec AnswerRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	b, err := json.Marshal(redisAnswer{
		ID:            rec.ID,
		Topic:         rec.Topic,
		Question:      rec.Question,
		UserAnswer:    rec.UserAnswer,
		CorrectAnswer: rec.CorrectAnswer,
		Score:         rec.Score,
		Timestamp:     rec.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal answer record: %w", err)
	}
	if err := r.client.RPush(ctx, r.answersKey(rec.Username), b).Err(); err != nil {
		return fmt.Errorf("save answer record: %w", err)
	}
	return nil
}

func (r *RedisQuizRepo) ListAnswers(ctx context.Context, username string) ([]AnswerRecord, error) {
	items, err := r.client.LRange(ctx, r.answersKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read answer records: %w", err)
	}

	out := make([]AnswerRecord, 0, len(items))
	for _, item := range items {
		var a redisAnswer
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("decode answer record: %w", err)
		}
		out = append(out, AnswerRecord{
			ID:            a.ID,
			Username:      username,
			Topic:         a.Topic,
			Question:      a.Question,
			UserAnswer:    a.UserAnswer,
			CorrectAnswer: a.CorrectAnswer,
			Score:         a.Score,
			Timestamp:     a.Timestamp,
		})
	}
	return out, nil
}

func (r *RedisQuizRepo) ClearAnswers(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, r.answersKey(username)).Err(); err != nil {
		return fmt.Errorf("clear answer records: %w", err)
	}
	return nil
}
