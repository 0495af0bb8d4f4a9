package advisor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/webaxs/webaxs/internal/advisor"
	"github.com/webaxs/webaxs/internal/model"
	"github.com/webaxs/webaxs/internal/testutil"
)

func chatCompletionStub(t *testing.T, content string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("missing bearer token, got %q", auth)
		}
		if gotBody != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"content": content},
				},
			},
		})
	}))
}

func TestOpenAIAdvisor_SuggestParsesReply(t *testing.T) {
	t.Parallel()
	reply := "Problema: Imagen sin alt\nSolución: Añadir alt\nEjemplo de Código: <img alt=\"x\">"
	var gotBody map[string]any
	srv := chatCompletionStub(t, reply, &gotBody)
	t.Cleanup(srv.Close)

	adv := advisor.NewOpenAIAdvisor(advisor.Config{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		Model:    "gpt-test",
	}, &testutil.DummyLogger{})

	violations := []model.Violation{{"id": "image-alt", "impact": "critical"}}
	set, err := adv.Suggest(context.Background(), violations, "https://example.com")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	if len(set.Violations) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(set.Violations))
	}
	if set.Violations[0].Solution != "Añadir alt" {
		t.Errorf("unexpected solution: %q", set.Violations[0].Solution)
	}

	if gotBody["model"] != "gpt-test" {
		t.Errorf("expected configured model in request, got %v", gotBody["model"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %v", gotBody["messages"])
	}
	user := msgs[1].(map[string]any)["content"].(string)
	if !strings.Contains(user, "image-alt") {
		t.Error("expected violations JSON embedded in the prompt")
	}
}

func TestOpenAIAdvisor_SuggestErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	adv := advisor.NewOpenAIAdvisor(advisor.Config{Endpoint: srv.URL}, &testutil.DummyLogger{})

	_, err := adv.Suggest(context.Background(), nil, "https://example.com")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status in error, got: %v", err)
	}
}

func TestOpenAIAdvisor_SuggestNoChoices(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	t.Cleanup(srv.Close)

	adv := advisor.NewOpenAIAdvisor(advisor.Config{Endpoint: srv.URL}, &testutil.DummyLogger{})

	_, err := adv.Suggest(context.Background(), nil, "https://example.com")
	if err == nil {
		t.Fatal("expected error when reply carries no choices")
	}
}

func TestOpenAIAdvisor_SuggestHonorsContext(t *testing.T) {
	t.Parallel()
	srv := chatCompletionStub(t, "Problema: p\nSolución: s\nEjemplo de Código: c", nil)
	t.Cleanup(srv.Close)

	adv := advisor.NewOpenAIAdvisor(advisor.Config{Endpoint: srv.URL}, &testutil.DummyLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adv.Suggest(ctx, nil, "https://example.com"); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
