package domain

import "errors"

var (
	// ErrJobNotFound signals that no deep-search job exists for the key.
	ErrJobNotFound = errors.New("deep search job not found")
	// ErrJobRunning signals that a deep search is already in progress for the key.
	ErrJobRunning = errors.New("a deep search is already in progress")
	// ErrResultsServed signals a repeat request for results that were already consumed.
	ErrResultsServed = errors.New("deep search already completed; refresh to start a new one")
	// ErrJobFailed signals that the deep-search job reached the Failed state.
	ErrJobFailed = errors.New("deep search failed")
	// ErrResultsNotReady signals a results request before the job completed.
	ErrResultsNotReady = errors.New("deep search results not ready")
	// ErrRetrievalUnavailable signals that the retrieval backend could not be reached.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrLLMProviderError signals a language-model provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
)
