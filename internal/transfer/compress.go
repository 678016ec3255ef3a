package transfer

import (
	"encoding/json"

	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loretypes"
)

// Compress reduces an ended session to its essential fields, writing the
// result to a sibling ".compressed." file and leaving the original
// intact: ended → ended with compressed=true (spec.md §4.6).
func (s *Store) Compress(sessionID string) (essenceRatio float64, err error) {
	lock, lockErr := lockfile.AcquireExclusive(s.lockPath())
	if lockErr != nil {
		return 0, loreerr.Wrap(loreerr.KindFatal, "transfer.compress", "acquire lock", lockErr)
	}
	defer func() { _ = lock.Unlock() }()

	sess, readErr := s.readSession(sessionID)
	if readErr != nil {
		return 0, readErr
	}
	if sess.EndedAt.IsZero() {
		return 0, loreerr.New(loreerr.KindConflict, "transfer.compress", "session "+sessionID+" has not ended")
	}

	totalBytes, essentialErr := essentialByteSize(sess)
	if essentialErr != nil {
		return 0, essentialErr
	}

	compressed := &loretypes.Session{
		ID:              sess.ID,
		StartedAt:       sess.StartedAt,
		EndedAt:         sess.EndedAt,
		Summary:         sess.Summary,
		GoalsAddressed:  sess.GoalsAddressed,
		DecisionsMade:   sess.DecisionsMade,
		PatternsLearned: sess.PatternsLearned,
		OpenThreads:     sess.OpenThreads,
		Handoff:         sess.Handoff,
		Related:         sess.Related,
		Context: loretypes.SessionContext{
			ActiveFiles: sess.Context.ActiveFiles,
			Spec:        sess.Context.Spec,
		},
		Compressed:   true,
		CompressedAt: loreid.Now(),
	}

	compressedBytes, marshalErr := json.Marshal(compressed)
	if marshalErr != nil {
		return 0, loreerr.Wrap(loreerr.KindFatal, "transfer.compress", "marshal compressed session", marshalErr)
	}
	if totalBytes > 0 {
		compressed.EssenceRatio = float64(len(compressedBytes)) / float64(totalBytes)
	} else {
		compressed.EssenceRatio = 1.0
	}

	data, err := json.MarshalIndent(compressed, "", "  ")
	if err != nil {
		return 0, loreerr.Wrap(loreerr.KindFatal, "transfer.compress", "marshal compressed session", err)
	}
	if err := lorepath.AtomicReplace(s.layout.CompressedSessionFile(sessionID), data, 0o644); err != nil {
		return 0, loreerr.Wrap(loreerr.KindFatal, "transfer.compress", "write compressed session", err)
	}
	return compressed.EssenceRatio, nil
}

// essentialByteSize measures the uncompressed size of the fields a
// compression keeps, used as the denominator of the essence ratio so the
// ratio reflects compaction within the kept fields rather than against
// dropped fields like recent_commands and environment.
func essentialByteSize(sess *loretypes.Session) (int, error) {
	essential := struct {
		Summary         string                 `json:"summary,omitempty"`
		GoalsAddressed  []string               `json:"goals_addressed,omitempty"`
		DecisionsMade   []string               `json:"decisions_made,omitempty"`
		PatternsLearned []string               `json:"patterns_learned,omitempty"`
		OpenThreads     []string               `json:"open_threads,omitempty"`
		Handoff         loretypes.Handoff      `json:"handoff"`
		Related         loretypes.SessionRelated `json:"related"`
		ActiveFiles     []string               `json:"active_files,omitempty"`
	}{
		Summary:         sess.Summary,
		GoalsAddressed:  sess.GoalsAddressed,
		DecisionsMade:   sess.DecisionsMade,
		PatternsLearned: sess.PatternsLearned,
		OpenThreads:     sess.OpenThreads,
		Handoff:         sess.Handoff,
		Related:         sess.Related,
		ActiveFiles:     sess.Context.ActiveFiles,
	}
	data, err := json.Marshal(essential)
	if err != nil {
		return 0, loreerr.Wrap(loreerr.KindFatal, "transfer.essentialByteSize", "marshal essential fields", err)
	}
	return len(data), nil
}
