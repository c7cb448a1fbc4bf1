package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tanhanwei/steamseek/internal/domain"
)

// chatServer returns a fake OpenAI-compatible chat completions endpoint that
// always answers with content.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func newTestLLM(baseURL string) *LLM {
	return NewLLM(&LLMConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})
}

func TestOptimizeQuery(t *testing.T) {
	server := chatServer(t, "```json\n{\"optimized_query\": \"atmospheric underwater exploration game\", \"explanation\": \"Expanded the intent.\"}\n```")
	defer server.Close()

	l := newTestLLM(server.URL)
	rewritten, explanation, err := l.OptimizeQuery(context.Background(), "underwater vibes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rewritten != "atmospheric underwater exploration game" {
		t.Errorf("rewritten = %q", rewritten)
	}
	if explanation != "Expanded the intent." {
		t.Errorf("explanation = %q", explanation)
	}
}

func TestOptimizeQuery_MissingField(t *testing.T) {
	server := chatServer(t, `{"explanation": "no query though"}`)
	defer server.Close()

	l := newTestLLM(server.URL)
	if _, _, err := l.OptimizeQuery(context.Background(), "q"); err == nil {
		t.Fatal("expected error for missing optimized_query")
	}
}

func TestRerank(t *testing.T) {
	server := chatServer(t, `{"ranked_appids": [30, 10], "comment": "30 fits best."}`)
	defer server.Close()

	l := newTestLLM(server.URL)
	candidates := []domain.RankingCandidate{
		{AppID: 10, Summary: "A farming sim."},
		{AppID: 30, Summary: "A cozy farming and life sim."},
	}
	ids, comment, err := l.Rerank(context.Background(), "cozy farming", candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 30 || ids[1] != 10 {
		t.Errorf("ids = %v", ids)
	}
	if comment != "30 fits best." {
		t.Errorf("comment = %q", comment)
	}
}

func TestRerank_EmptyRanking(t *testing.T) {
	server := chatServer(t, `{"ranked_appids": [], "comment": "could not rank"}`)
	defer server.Close()

	l := newTestLLM(server.URL)
	ids, _, err := l.Rerank(context.Background(), "q", []domain.RankingCandidate{{AppID: 1, Summary: "s"}})
	if err == nil {
		t.Fatal("expected error for empty ranking")
	}
	if ids != nil {
		t.Errorf("ids = %v, want nil so callers fall back", ids)
	}
}

func TestGenerateVariations(t *testing.T) {
	server := chatServer(t, `{"variations": ["cozy farm sim", "relaxing agriculture game"]}`)
	defer server.Close()

	l := newTestLLM(server.URL)
	got, err := l.GenerateVariations(context.Background(), "farming game")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "cozy farm sim" {
		t.Errorf("variations = %v", got)
	}
}

func TestSummarizeAndRank(t *testing.T) {
	server := chatServer(t, `{"ranked_appids": [20], "summary": "One standout match."}`)
	defer server.Close()

	l := newTestLLM(server.URL)
	ids, summary, err := l.SummarizeAndRank(context.Background(), "q", []domain.GameResult{{AppID: 20, Name: "Alpha"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 20 || summary != "One standout match." {
		t.Errorf("ids = %v, summary = %q", ids, summary)
	}
}

func TestChat_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	l := newTestLLM(server.URL)
	_, _, err := l.OptimizeQuery(context.Background(), "q")
	if !isProviderError(err) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare object",
			content: `{"ranked_appids": [1, 2]}`,
			want:    `{"ranked_appids": [1, 2]}`,
		},
		{
			name:    "json code fence",
			content: "```json\n{\"variations\": [\"a\"]}\n```",
			want:    `{"variations": ["a"]}`,
		},
		{
			name:    "plain code fence",
			content: "```\n{\"comment\": \"ok\"}\n```",
			want:    `{"comment": "ok"}`,
		},
		{
			name:    "surrounding prose",
			content: "Here is the ranking you asked for:\n{\"ranked_appids\": [3]}\nHope that helps!",
			want:    `{"ranked_appids": [3]}`,
		},
		{
			name:    "nested braces",
			content: `{"outer": {"inner": 1}}`,
			want:    `{"outer": {"inner": 1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON(tt.content))
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.content, got, tt.want)
			}
			if !json.Valid([]byte(got)) {
				t.Errorf("extracted content is not valid JSON: %q", got)
			}
		})
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	got := string(extractJSON("no json here"))
	if json.Valid([]byte(got)) {
		t.Errorf("expected invalid JSON passthrough, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 20)
	got := truncate(long, 10)
	if got != strings.Repeat("x", 10)+"..." {
		t.Errorf("truncate(long) = %q", got)
	}
}
