package model

import (
	"strings"

	"github.com/gcbaptista/agency-finder/internal/tokenizer"
)

// Query is a single search request's view of the user's text.
// Tokens are derived once from RawText and never mutated afterwards.
type Query struct {
	RawText        string
	NormalizedText string
	Tokens         []string
}

// NewQuery builds a Query from raw text. Blank text yields no tokens.
func NewQuery(raw string) Query {
	return Query{
		RawText:        raw,
		NormalizedText: tokenizer.Normalize(raw),
		Tokens:         tokenizer.Tokenize(raw),
	}
}

// AgencyQuery is the set of fields an operator types when looking for an
// existing agency.
type AgencyQuery struct {
	BusinessName string  `json:"business_name"`
	Suburb       *string `json:"suburb,omitempty"`
	State        *string `json:"state,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	MaxResults   int     `json:"max_results,omitempty"` // Optional top-K applied after ranking; 0 means no extra cap
}

// Texts returns the non-blank query fields, business name first.
func (q AgencyQuery) Texts() []string {
	texts := make([]string, 0, 4)
	for _, s := range []string{q.BusinessName, value(q.Suburb), value(q.State), value(q.Postcode)} {
		if strings.TrimSpace(s) != "" {
			texts = append(texts, s)
		}
	}
	return texts
}

// Term returns the text candidates are scored against: the business name,
// or every non-blank field joined when the business name is blank.
func (q AgencyQuery) Term() string {
	if name := strings.TrimSpace(q.BusinessName); name != "" {
		return name
	}
	parts := q.Texts()
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, " ")
}

// SearchQuery merges every typed field, business name first, into the Query
// retrieval tokens are extracted from.
func (q AgencyQuery) SearchQuery() Query {
	return NewQuery(strings.Join(q.Texts(), " "))
}

// Draft pre-fills a new-record draft from the query fields.
func (q AgencyQuery) Draft() AgencyDraft {
	return AgencyDraft{
		Name:     strings.TrimSpace(q.BusinessName),
		Suburb:   trimmed(q.Suburb),
		State:    trimmed(q.State),
		Postcode: trimmed(q.Postcode),
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
