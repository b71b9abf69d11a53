package services

import (
	"context"

	"github.com/gcbaptista/agency-finder/model"
)

// RetrievalRequest is what the matcher asks a search backend for: every
// record matching any of the filter groups, at most Limit of them.
type RetrievalRequest struct {
	Groups []model.FilterGroup
	Limit  int
}

// MatchResult is the outcome of one agency search.
type MatchResult struct {
	Matches    []model.ScoredAgency `json:"matches"`
	Total      int                  `json:"total"`
	NoMatch    bool                 `json:"no_match"`             // True when nothing cleared the threshold
	Suggestion *model.AgencyDraft   `json:"suggestion,omitempty"` // Pre-filled new record offered when NoMatch is true
	Candidates int                  `json:"candidates"`           // Records returned by the backend before scoring
	Took       int64                `json:"took"`                 // milliseconds
	QueryID    string               `json:"query_id"`             // unique UUID for this search
}

// Retriever executes a token filter against a search backend.
// Results keep the backend's order.
type Retriever interface {
	Retrieve(ctx context.Context, req RetrievalRequest) ([]model.Agency, error)
}

// Creator persists a brand-new agency record.
type Creator interface {
	Create(ctx context.Context, draft model.AgencyDraft) (model.Agency, error)
}

// Backend is a search backend that can also create records.
type Backend interface {
	Retriever
	Creator
	Name() string
}

// Matcher finds existing agencies for a query and creates new ones.
type Matcher interface {
	Find(ctx context.Context, query model.AgencyQuery) (*MatchResult, error)
	Create(ctx context.Context, draft model.AgencyDraft) (model.ScoredAgency, error)
}
