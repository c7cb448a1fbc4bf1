package domain

// RetrievalHit is a single hit from the semantic retrieval backend.
// Order is significant: hits arrive in descending semantic closeness.
type RetrievalHit struct {
	AppID     int64
	Rank      int
	TitleHint string
}

// RankingCandidate is a retrieval hit paired with a summary, ready to be
// sent to the reranker.
type RankingCandidate struct {
	AppID      int64
	Summary    string
	SourceRank int
}
