package ranking

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/agency-finder/model"
)

func agency(id, name string) model.Agency {
	return model.Agency{ID: id, Name: name}
}

func ids(ranked []model.ScoredAgency) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.ID
	}
	return out
}

func TestRank_EndToEndScenario(t *testing.T) {
	candidates := []model.Agency{
		agency("2", "Toorak Realty"),
		agency("3", "Melbourne Properties"),
		agency("1", "Stanford Legal Group"),
	}

	ranked := Rank(candidates, "Stanford Legal", DefaultOptions())

	require.NotEmpty(t, ranked)
	assert.Equal(t, "1", ranked[0].ID)
	assert.InDelta(t, 0.84, ranked[0].Score, 1e-9)
	for _, r := range ranked {
		assert.Greater(t, r.Score, DefaultThreshold)
	}
	assert.Equal(t, []string{"1"}, ids(ranked))
}

func TestRank_Empty(t *testing.T) {
	ranked := Rank(nil, "any term", DefaultOptions())

	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRank_SortsByScoreDescending(t *testing.T) {
	candidates := []model.Agency{
		agency("lawyers", "Stanford Lawyers"),     // 0.405
		agency("group", "Stanford Legal Group"),   // 0.84
		agency("exact", "stanford legal"),         // 1.0
		agency("reordered", "Legal Stanford"),     // 0.85
		agency("typo", "Stanfrd Legal"),           // 0.547
		agency("unrelated", "Melbourne Property"), // below threshold
	}

	ranked := Rank(candidates, "Stanford Legal", DefaultOptions())

	assert.Equal(t, []string{"exact", "reordered", "group", "typo", "lawyers"}, ids(ranked))
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	candidates := []model.Agency{
		agency("b", "Stanford Legal Group"),
		agency("x", "Stanford Legal"),
		agency("a", "Stanford Legal Group"),
		agency("c", "Stanford Legal Group"),
	}

	ranked := Rank(candidates, "Stanford Legal", DefaultOptions())

	assert.Equal(t, []string{"x", "b", "a", "c"}, ids(ranked))
}

func TestRank_ThresholdIsExclusive(t *testing.T) {
	// "ab" vs "abcdefghij": substring 0.9, penalty 0.08 -> 0.82
	candidates := []model.Agency{agency("1", "abcdefghij")}

	assert.Len(t, Rank(candidates, "ab", Options{Threshold: 0.82 - 1e-9}), 1)

	score := Rank(candidates, "ab", Options{Threshold: 0.1})[0].Score
	assert.Empty(t, Rank(candidates, "ab", Options{Threshold: score}), "a score equal to the threshold must be excluded")
}

func TestRank_CapsCandidatesBeforeScoring(t *testing.T) {
	candidates := make([]model.Agency, 0, 80)
	for i := 0; i < 80; i++ {
		candidates = append(candidates, agency(fmt.Sprintf("%02d", i), "Stanford Legal"))
	}
	// The best possible match sits beyond the cap and must not be considered.
	candidates[70] = agency("beyond", "stanford legal")

	ranked := Rank(candidates, "Stanford Legal", Options{Limit: 10})

	assert.Len(t, ranked, 10)
	assert.NotContains(t, ids(ranked), "beyond")
}

func TestRank_Deterministic(t *testing.T) {
	candidates := []model.Agency{
		agency("1", "Stanford Legal Group"),
		agency("2", "Stanford Legal"),
		agency("3", "Legal Stanford"),
		agency("4", "Stanford Legal Group"),
		agency("5", ""),
	}

	first, err := json.Marshal(Rank(candidates, "Stanford Legal", DefaultOptions()))
	require.NoError(t, err)
	second, err := json.Marshal(Rank(candidates, "Stanford Legal", DefaultOptions()))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRank_MissingNameScoresLow(t *testing.T) {
	candidates := []model.Agency{{ID: "no-name", Suburb: model.StringPtr("Stanford")}}

	assert.Empty(t, Rank(candidates, "Stanford Legal", DefaultOptions()))
}

func TestRank_PassesRecordsThrough(t *testing.T) {
	suburb := "Melbourne"
	candidates := []model.Agency{{
		ID:         "1",
		Name:       "Stanford Legal Group",
		Suburb:     &suburb,
		Attributes: map[string]interface{}{"crm_owner": "42"},
	}}

	ranked := Rank(candidates, "Stanford Legal", DefaultOptions())

	require.Len(t, ranked, 1)
	assert.Equal(t, candidates[0], ranked[0].Agency)
}

func TestTopK(t *testing.T) {
	ranked := []model.ScoredAgency{{Score: 0.9}, {Score: 0.8}, {Score: 0.7}}

	assert.Len(t, TopK(ranked, 0), 3)
	assert.Len(t, TopK(ranked, 2), 2)
	assert.Len(t, TopK(ranked, 5), 3)
}

func TestRank_ConcurrentCallsAreIndependent(t *testing.T) {
	terms := []string{"Stanford Legal", "Toorak Realty", "Melbourne Properties", "Ray White Carlton"}
	candidates := []model.Agency{
		agency("1", "Stanford Legal Group"),
		agency("2", "Toorak Realty"),
		agency("3", "Melbourne Properties"),
		agency("4", "Stanford Lawyers"),
		agency("5", "Ray White (Carlton)"),
		agency("6", "Realty Toorak East"),
	}

	want := make(map[string][]model.ScoredAgency, len(terms))
	for _, term := range terms {
		want[term] = Rank(candidates, term, DefaultOptions())
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		term := terms[i%len(terms)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want[term], Rank(candidates, term, DefaultOptions()))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "1", candidates[0].ID)
}

func TestRank_ZeroOptionsUseDefaults(t *testing.T) {
	candidates := []model.Agency{
		agency("1", "Stanford Legal Group"),
		agency("2", "Zzzzzzzzzzzzzz"),
	}

	assert.Equal(t, Rank(candidates, "Stanford Legal", DefaultOptions()), Rank(candidates, "Stanford Legal", Options{}))
	assert.Equal(t, []string{"1"}, ids(Rank(candidates, "Stanford Legal", Options{Threshold: -1})))
}
