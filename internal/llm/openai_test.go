package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func openAIServer(t *testing.T, status int, body any, inspect func(*http.Request, map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			inspect(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
	}
}

func TestOpenAI_PlainText(t *testing.T) {
	var sent map[string]any
	srv := openAIServer(t, http.StatusOK,
		chatCompletion("SCORE: 9\nCORRECT ANSWER: Chlorophyll\nNEXT QUESTION: Where is it found?", "stop"),
		func(_ *http.Request, req map[string]any) { sent = req })

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	c, err := p.Complete(context.Background(), Prompt{
		System: "You are a quiz bot on Biology.",
		User:   "Chlorophyll",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if c.Usage.Total() != 42 || c.Model != "gpt-4o-mini" || c.StopReason != StopEnd {
		t.Errorf("completion = %+v", c)
	}

	msgs, _ := sent["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages sent = %v", sent["messages"])
	}
	if m := msgs[1].(map[string]any); m["role"] != "user" || m["content"] != "Chlorophyll" {
		t.Errorf("user turn = %v", m)
	}
	if _, ok := sent["response_format"]; ok {
		t.Error("plain-text prompt should not send response_format")
	}
}

func TestOpenAI_JSONSchemaFormat(t *testing.T) {
	var sent map[string]any
	srv := openAIServer(t, http.StatusOK,
		chatCompletion(`{"score":4,"correct_answer":"1945","next_question":""}`, "stop"),
		func(_ *http.Request, req map[string]any) { sent = req })

	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	if _, err := p.Complete(context.Background(), Prompt{User: "x", Format: testFormat()}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	rf, _ := sent["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Fatalf("response_format = %v", sent["response_format"])
	}
	if js, _ := rf["json_schema"].(map[string]any); js["name"] != "answer-evaluation" || js["strict"] != true {
		t.Errorf("json_schema = %v", rf["json_schema"])
	}
}

func TestOpenAI_ReplyFailsFormat(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, chatCompletion(`{"score":"high"}`, "stop"), nil)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})

	_, err := p.Complete(context.Background(), Prompt{User: "x", Format: testFormat()})
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("want FormatError, got %T: %v", err, err)
	}
}

func TestOpenAI_Errors(t *testing.T) {
	errBody := map[string]any{"error": map[string]any{"message": "nope", "type": "x"}}
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *RateLimitError; return errors.As(err, &e) }},
		{http.StatusBadGateway, func(err error) bool { var e *UnavailableError; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		srv := openAIServer(t, tt.status, errBody, nil)
		p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
		_, err := p.Complete(context.Background(), Prompt{User: "x"})
		if !tt.check(err) {
			t.Errorf("status %d: unexpected error %T: %v", tt.status, err, err)
		}
	}
}

func TestOpenAI_EmptyReply(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, chatCompletion("   ", "stop"), nil)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	if _, err := p.Complete(context.Background(), Prompt{User: "x"}); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("want ErrEmptyCompletion, got %v", err)
	}
}

func TestOpenRouter_UsesGateway(t *testing.T) {
	var path, auth string
	srv := openAIServer(t, http.StatusOK, chatCompletion("QUESTION: Why?", "stop"),
		func(r *http.Request, _ map[string]any) { path, auth = r.URL.Path, r.Header.Get("Authorization") })

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-key", Model: "openai/gpt-4o-mini", BaseURL: srv.URL + "/api/v1"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", p.ModelID())
	}
	if _, err := p.Complete(context.Background(), Prompt{User: "x"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if path != "/api/v1/chat/completions" || auth != "Bearer or-key" {
		t.Errorf("path=%q auth=%q", path, auth)
	}

	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Error("expected missing-key error")
	}
	def, _ := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k"})
	if def == nil {
		t.Fatal("nil provider")
	}
}
