package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/agency-finder/internal/tokenizer"
)

// Tier scores and length penalty. These values are part of the observable
// ranking contract and are shared with every client of the search API.
const (
	ExactScore           = 1.0
	SubstringScore       = 0.9
	TokenOverlapMax      = 0.85
	FuzzyMax             = 0.6
	LengthPenaltyPerChar = 0.01
	MaxLengthPenalty     = 0.2
)

// Breakdown explains how a score was produced. Each tier is evaluated
// independently; Raw is their maximum and Final is Raw minus Penalty, clamped to [0, 1].
type Breakdown struct {
	Exact        float64 `json:"exact"`
	Substring    float64 `json:"substring"`
	TokenOverlap float64 `json:"token_overlap"`
	Fuzzy        float64 `json:"fuzzy"`
	Raw          float64 `json:"raw"`
	Penalty      float64 `json:"penalty"`
	Final        float64 `json:"final"`
}

// Score returns the relevance of candidateText for term in [0, 1].
// It is pure and safe for concurrent use.
func Score(term, candidateText string) float64 {
	return Explain(term, candidateText).Final
}

// Explain computes the score of candidateText for term together with the
// contribution of every tier.
func Explain(term, candidateText string) Breakdown {
	t := tokenizer.Normalize(term)
	c := tokenizer.Normalize(candidateText)

	b := Breakdown{
		Exact:        exactTier(t, c),
		Substring:    substringTier(t, c),
		TokenOverlap: tokenOverlapTier(t, c),
		Fuzzy:        fuzzyTier(t, c),
	}
	b.Raw = foldMax([]float64{b.Exact, b.Substring, b.TokenOverlap, b.Fuzzy})
	b.Penalty = lengthPenalty(t, c)
	b.Final = clamp(b.Raw-b.Penalty, 0, 1)
	return b
}

func exactTier(term, candidate string) float64 {
	if term == candidate {
		return ExactScore
	}
	return 0
}

// substringTier never fires for a blank term; every string contains "".
func substringTier(term, candidate string) float64 {
	if term != "" && strings.Contains(candidate, term) {
		return SubstringScore
	}
	return 0
}

func tokenOverlapTier(term, candidate string) float64 {
	termTokens := tokenizer.Tokenize(term)
	if len(termTokens) == 0 {
		return 0
	}

	candidateTokens := make(map[string]struct{})
	for _, token := range tokenizer.Tokenize(candidate) {
		candidateTokens[token] = struct{}{}
	}

	matched := 0
	for _, token := range termTokens {
		if _, ok := candidateTokens[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(termTokens)) * TokenOverlapMax
}

func fuzzyTier(term, candidate string) float64 {
	maxLen := max(utf8.RuneCountInString(term), utf8.RuneCountInString(candidate))
	if maxLen == 0 {
		return 0
	}
	d := Levenshtein(term, candidate)
	return clamp((1-float64(d)/float64(maxLen))*FuzzyMax, 0, FuzzyMax)
}

// lengthPenalty is applied once, to the combined score rather than to each tier.
func lengthPenalty(term, candidate string) float64 {
	diff := utf8.RuneCountInString(term) - utf8.RuneCountInString(candidate)
	if diff < 0 {
		diff = -diff
	}
	return min(float64(diff)*LengthPenaltyPerChar, MaxLengthPenalty)
}

func foldMax(values []float64) float64 {
	acc := 0.0
	for _, v := range values {
		acc = max(acc, v)
	}
	return acc
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
