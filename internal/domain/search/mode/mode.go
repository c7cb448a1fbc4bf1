package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Plain runs retrieval with the query as typed.
	Plain Mode = "plain"
	// AIEnhanced rewrites the query before retrieval.
	AIEnhanced Mode = "ai_enhanced"
	// Deep fans the query out into variations in a background job.
	Deep Mode = "deep"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Plain || m == AIEnhanced || m == Deep
}
