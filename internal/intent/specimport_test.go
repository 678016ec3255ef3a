package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `---
branch: feature/search
---
# Hybrid Retrieval

## User Story 1: Search across decisions and patterns

As a returning engineer, I want to search past decisions and patterns together.

#### Acceptance Criteria

- Lexical search returns ranked results
- Semantic search falls back gracefully when no embedding provider is configured
`

const samplePlan = `# Plan

- Decision: Use Reciprocal Rank Fusion to merge lexical and semantic rankings
- Decision: Cap graph expansion at depth 3
`

func TestImportSpecParsesTitleBranchAndCriteria(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "spec.md")
	require.NoError(t, os.WriteFile(specPath, []byte(sampleSpec), 0o644))

	s := newTestStore(t)
	id, err := s.ImportSpec(specPath, nil)
	require.NoError(t, err)

	g, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Hybrid Retrieval", g.Name)
	assert.Equal(t, "feature/search", g.Source.Branch)
	require.Len(t, g.SuccessCriteria, 1)
	assert.Contains(t, g.SuccessCriteria[0].Description, "Search across decisions and patterns")
	assert.Len(t, g.SuccessCriteria[0].Acceptance, 2)
}

func TestImportSpecRecordsCompanionPlanDecisions(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "spec.md")
	require.NoError(t, os.WriteFile(specPath, []byte(sampleSpec), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.md"), []byte(samplePlan), 0o644))

	s := newTestStore(t)
	rec := &fakeRecorder{}
	id, err := s.ImportSpec(specPath, rec)
	require.NoError(t, err)

	g, err := s.Get(id)
	require.NoError(t, err)
	assert.Len(t, rec.recorded, 2)
	assert.Len(t, g.Lifecycle.PlanDecisions, 2)
}
