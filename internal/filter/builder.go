// Package filter turns search tokens into the retrieval predicate handed to a
// search backend.
package filter

import (
	"github.com/gcbaptista/agency-finder/internal/tokenizer"
	"github.com/gcbaptista/agency-finder/model"
)

// DefaultTargetFields are searched when the caller does not configure any.
var DefaultTargetFields = []string{model.FieldName}

// BuildFilterGroups emits one group per distinct token, in token order. Each
// group matches a record whose target fields contain the token. Groups are
// OR'd at the backend, so a record qualifies when it matches any token.
// An empty token set yields an empty, non-nil slice.
func BuildFilterGroups(tokens []string, targetFields []string) []model.FilterGroup {
	if len(targetFields) == 0 {
		targetFields = DefaultTargetFields
	}

	groups := make([]model.FilterGroup, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, raw := range tokens {
		token := tokenizer.Normalize(raw)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		groups = append(groups, groupFor(token, targetFields))
	}
	return groups
}

func groupFor(token string, targetFields []string) model.FilterGroup {
	conditions := make([]model.FilterCondition, len(targetFields))
	for i, field := range targetFields {
		conditions[i] = model.FilterCondition{
			Field:    field,
			Operator: model.OperatorContainsToken,
			Value:    token,
		}
	}
	return model.FilterGroup{Token: token, Conditions: conditions}
}

// Tokens returns the tokens the groups were built from, in order.
func Tokens(groups []model.FilterGroup) []string {
	tokens := make([]string, len(groups))
	for i, g := range groups {
		tokens[i] = g.Token
	}
	return tokens
}
