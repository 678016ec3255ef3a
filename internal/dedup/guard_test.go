package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJaccardIdenticalText(t *testing.T) {
	require.Equal(t, 1.0, Jaccard("Use JSONL over SQLite", "use jsonl over sqlite"))
}

func TestJaccardEmptyVsEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard("", ""))
}

func TestFindDuplicatesBlocksAboveThreshold(t *testing.T) {
	candidates := []Candidate{
		{ID: "pat-1", Text: "Safe bash arithmetic"},
		{ID: "pat-2", Text: "Completely unrelated text about docker networking"},
	}
	matches := FindDuplicates(candidates, "Use safe bash arithmetic")
	require.Len(t, matches, 1)
	assert.Equal(t, "pat-1", matches[0].ID)
	assert.GreaterOrEqual(t, matches[0].Similarity, DuplicateThreshold)
}

func TestFindContradictionsRequiresSharedEntitiesAndLowSimilarity(t *testing.T) {
	candidates := []Candidate{
		{ID: "dec-1", Text: "Use `config.yaml` for all settings in Deployer", Entities: []string{"config.yaml", "Deployer"}},
		{ID: "dec-2", Text: "Unrelated decision about CI caching", Entities: []string{"CI"}},
	}
	matches := FindContradictions(candidates, "Never use `config.yaml`, switch Deployer to env vars instead", []string{"config.yaml", "Deployer"})
	require.Len(t, matches, 1)
	assert.Equal(t, "dec-1", matches[0].ID)
	assert.Less(t, matches[0].Similarity, ContradictionThreshold)
}

func TestFindContradictionsIgnoresLowOverlap(t *testing.T) {
	candidates := []Candidate{
		{ID: "dec-1", Text: "Only one shared entity here", Entities: []string{"config.yaml"}},
	}
	matches := FindContradictions(candidates, "Different decision text entirely", []string{"config.yaml"})
	assert.Empty(t, matches)
}
