// Package openai adapts an OpenAI-compatible API (OpenRouter, Nebius, or
// OpenAI itself) to the search and deep-search capability contracts.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tanhanwei/steamseek/internal/domain"
	"github.com/tanhanwei/steamseek/internal/metrics"
)

const (
	// candidateSummaryLimit truncates each candidate summary in the rerank
	// prompt to keep it inside the context window.
	candidateSummaryLimit = 600
	// mergedSummaryLimit truncates each result summary in the final
	// summarize-and-rank prompt.
	mergedSummaryLimit = 300
)

// LLM provides the chat-completion capabilities: query optimization,
// reranking, variation generation, and final summarization.
type LLM struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// LLMConfig holds the chat provider settings.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewLLM creates an OpenAI-compatible chat provider.
func NewLLM(cfg *LLMConfig) *LLM {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &LLM{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// OptimizeQuery rewrites a free-text query for better semantic retrieval.
func (l *LLM) OptimizeQuery(ctx context.Context, query string) (string, string, error) {
	system := "You rewrite video game search queries to maximize semantic retrieval quality. " +
		"Respond with JSON only: {\"optimized_query\": string, \"explanation\": string}."
	user := fmt.Sprintf("Rewrite this Steam game search query: %q", query)

	content, err := l.chat(ctx, "optimize_query", system, user)
	if err != nil {
		return "", "", err
	}

	var parsed struct {
		OptimizedQuery string `json:"optimized_query"`
		Explanation    string `json:"explanation"`
	}
	if err := json.Unmarshal(extractJSON(content), &parsed); err != nil {
		return "", "", fmt.Errorf("parse optimize response: %w", err)
	}
	if parsed.OptimizedQuery == "" {
		return "", "", fmt.Errorf("optimize response missing optimized_query")
	}
	return parsed.OptimizedQuery, parsed.Explanation, nil
}

// Rerank orders candidates by relevance to the query. Returns the ranked
// appid list and the model's comment.
func (l *LLM) Rerank(ctx context.Context, query string, candidates []domain.RankingCandidate) ([]int64, string, error) {
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "appid %d: %s\n\n", c.AppID, truncate(c.Summary, candidateSummaryLimit))
	}

	system := "You rank video games by how well they match a search query, best first. " +
		"Use only appids from the candidate list. " +
		"Respond with JSON only: {\"ranked_appids\": [int], \"comment\": string}."
	user := fmt.Sprintf("Query: %q\n\nCandidates:\n%s", query, b.String())

	content, err := l.chat(ctx, "rerank", system, user)
	if err != nil {
		return nil, "", err
	}

	var parsed struct {
		RankedAppIDs []int64 `json:"ranked_appids"`
		Comment      string  `json:"comment"`
	}
	if err := json.Unmarshal(extractJSON(content), &parsed); err != nil {
		return nil, "", fmt.Errorf("parse rerank response: %w", err)
	}
	if len(parsed.RankedAppIDs) == 0 {
		return nil, parsed.Comment, fmt.Errorf("rerank response contained no appids")
	}
	return parsed.RankedAppIDs, parsed.Comment, nil
}

// GenerateVariations expands one query into several related queries for
// deep search.
func (l *LLM) GenerateVariations(ctx context.Context, query string) ([]string, error) {
	system := "You generate reworded variations of a video game search query to widen recall. " +
		"Each variation approaches the intent from a different angle. " +
		"Respond with JSON only: {\"variations\": [string]}."
	user := fmt.Sprintf("Generate up to 5 variations of: %q", query)

	content, err := l.chat(ctx, "generate_variations", system, user)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Variations []string `json:"variations"`
	}
	if err := json.Unmarshal(extractJSON(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse variations response: %w", err)
	}
	return parsed.Variations, nil
}

// SummarizeAndRank produces a final appid ranking and a narrative summary
// over the merged deep-search results.
func (l *LLM) SummarizeAndRank(ctx context.Context, query string, merged []domain.GameResult) ([]int64, string, error) {
	var b strings.Builder
	for _, r := range merged {
		fmt.Fprintf(&b, "appid %d: %s (%s, %s): %s\n",
			r.AppID, r.Name, strings.Join(r.Genres, "/"), r.ReleaseYear,
			truncate(r.Summary, mergedSummaryLimit))
	}

	system := "You rank the merged results of a deep game search, best match first, and write a " +
		"narrative summary of what was found and why the top games fit. " +
		"Use only appids from the list. " +
		"Respond with JSON only: {\"ranked_appids\": [int], \"summary\": string}."
	user := fmt.Sprintf("Original query: %q\n\nMerged results:\n%s", query, b.String())

	content, err := l.chat(ctx, "summarize_rank", system, user)
	if err != nil {
		return nil, "", err
	}

	var parsed struct {
		RankedAppIDs []int64 `json:"ranked_appids"`
		Summary      string  `json:"summary"`
	}
	if err := json.Unmarshal(extractJSON(content), &parsed); err != nil {
		return nil, "", fmt.Errorf("parse summarize response: %w", err)
	}
	if len(parsed.RankedAppIDs) == 0 {
		return nil, parsed.Summary, fmt.Errorf("summarize response contained no appids")
	}
	return parsed.RankedAppIDs, parsed.Summary, nil
}

// chat executes one chat completion and returns the first choice's content.
func (l *LLM) chat(ctx context.Context, capability, system, user string) (string, error) {
	start := time.Now()
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(capability, "error").Inc()
		return "", fmt.Errorf("%s: %w: %w", capability, domain.ErrLLMProviderError, err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(capability, "error").Inc()
		return "", fmt.Errorf("%s: empty completion: %w", capability, domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(capability, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(capability).Observe(duration.Seconds())

	l.logger.Debug("llm call completed",
		zap.String("capability", capability),
		zap.Duration("latency", duration))

	return resp.Choices[0].Message.Content, nil
}

// extractJSON pulls the JSON object out of a completion that may be wrapped
// in markdown code fences or surrounding prose.
func extractJSON(content string) []byte {
	content = strings.TrimSpace(content)
	if after, ok := strings.CutPrefix(content, "```json"); ok {
		content = after
	} else if after, ok := strings.CutPrefix(content, "```"); ok {
		content = after
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return []byte(content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
