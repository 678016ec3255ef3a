package searchindex

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/lore-dev/lore/internal/embed"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loretypes"
)

// BuildInput is the full cross-component snapshot a rebuild ingests. The
// engine layer assembles this from the journal, pattern, transfer, and
// graph stores so searchindex never imports them directly.
type BuildInput struct {
	Decisions    []*loretypes.Decision
	Patterns     []*loretypes.Pattern
	AntiPatterns []*loretypes.AntiPattern
	Sessions     []*loretypes.Session
	Graph        *loretypes.Graph
	Provider     embed.Provider
}

// Build performs an idempotent full rebuild of the FTS tables, the
// embeddings table (best-effort), and the graph mirror (spec.md §4.8).
func (s *Store) Build(ctx context.Context, in BuildInput) error {
	for _, stmt := range rebuildFTSTables {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.build", "rebuild fts tables", err)
		}
	}

	if err := s.insertDecisions(ctx, in.Decisions); err != nil {
		return err
	}
	if err := s.insertPatterns(ctx, in.Patterns, in.AntiPatterns); err != nil {
		return err
	}
	if err := s.insertSessions(ctx, in.Sessions); err != nil {
		return err
	}
	if in.Provider != nil {
		s.backfillEmbeddings(ctx, in) // non-fatal: spec.md §4.8 step 5
	}
	if in.Graph != nil {
		if err := s.mirrorGraph(ctx, in.Graph); err != nil {
			return err
		}
	}
	indexMetrics.rebuildCount.Add(ctx, 1)
	return nil
}

func (s *Store) insertDecisions(ctx context.Context, decisions []*loretypes.Decision) error {
	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO decisions(content, record_id, project, ts, importance) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.insertDecisions", "prepare statement", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range decisions {
		project := "default"
		if len(d.Tags) > 0 {
			project = d.Tags[0]
		}
		importance := 3.0
		if d.LessonLearned != "" {
			importance = 4.0
		}
		content := d.Decision + " " + d.Rationale + " " + d.LessonLearned + " " + strings.Join(d.Entities, " ") + " " + strings.Join(d.Tags, " ")
		if _, err := stmt.ExecContext(ctx, content, d.ID, project, d.Timestamp.Unix(), importance); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.insertDecisions", "insert decision", err)
		}
	}
	return nil
}

func (s *Store) insertPatterns(ctx context.Context, patterns []*loretypes.Pattern, antiPatterns []*loretypes.AntiPattern) error {
	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO patterns(content, record_id, project, ts, importance) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.insertPatterns", "prepare statement", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range patterns {
		content := p.Name + " " + p.Context + " " + p.Problem + " " + p.Solution
		importance := math.Round(p.Confidence*5*100) / 100
		if _, err := stmt.ExecContext(ctx, content, p.ID, "default", p.CreatedAt.Unix(), importance); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.insertPatterns", "insert pattern", err)
		}
	}
	for _, a := range antiPatterns {
		content := "ANTI:" + a.Name + " " + a.Symptom + " " + a.Risk + " " + a.Fix
		if _, err := stmt.ExecContext(ctx, content, a.ID, "default", a.CreatedAt.Unix(), 2.5); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.insertPatterns", "insert anti-pattern", err)
		}
	}
	return nil
}

func (s *Store) insertSessions(ctx context.Context, sessions []*loretypes.Session) error {
	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO transfers(content, record_id, project, ts, importance) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.insertSessions", "prepare statement", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sess := range sessions {
		if sess.Compressed {
			continue
		}
		content := strings.TrimSpace(sess.Handoff.Message + " " + sess.Summary)
		if content == "" {
			continue
		}
		ts := sess.EndedAt
		if ts.IsZero() {
			ts = sess.StartedAt
		}
		if _, err := stmt.ExecContext(ctx, content, sess.ID, "default", ts.Unix(), 3.0); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.insertSessions", "insert session", err)
		}
	}
	return nil
}

// backfillEmbeddings computes vectors for decisions lacking one. Failures
// are swallowed: the embedding provider is explicitly best-effort
// (spec.md §4.8 step 5), and a partial embeddings table must never block
// a rebuild or degrade lexical search.
func (s *Store) backfillEmbeddings(ctx context.Context, in BuildInput) {
	type record struct {
		recordType, id, content string
	}
	var records []record
	for _, d := range in.Decisions {
		records = append(records, record{"decision", d.ID, d.Decision + " " + d.Rationale})
	}
	for _, p := range in.Patterns {
		records = append(records, record{"pattern", p.ID, p.Name + " " + p.Context + " " + p.Solution})
	}

	for _, r := range records {
		var exists int
		_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings WHERE record_type=? AND record_id=?`, r.recordType, r.id).Scan(&exists)
		if exists > 0 {
			continue
		}
		vec, err := in.Provider.Embed(ctx, r.content)
		if err != nil {
			continue
		}
		blob, err := encodeVector(vec)
		if err != nil {
			continue
		}
		_, _ = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO embeddings(record_type, record_id, content_text, embedding, created_at) VALUES (?, ?, ?, ?, ?)`,
			r.recordType, r.id, r.content, blob, time.Now().Unix())
	}
}

func (s *Store) mirrorGraph(ctx context.Context, g *loretypes.Graph) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM graph_nodes`); err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.mirrorGraph", "clear graph_nodes", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM graph_edges`); err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.mirrorGraph", "clear graph_edges", err)
	}

	nodeStmt, err := s.db.PrepareContext(ctx, `INSERT INTO graph_nodes(id, type, name, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.mirrorGraph", "prepare node statement", err)
	}
	defer func() { _ = nodeStmt.Close() }()

	for _, n := range g.Nodes {
		data, _ := json.Marshal(n.Data)
		if _, err := nodeStmt.ExecContext(ctx, n.ID, string(n.Type), n.Name, string(data), n.CreatedAt.Unix()); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.mirrorGraph", "insert graph node", err)
		}
	}

	edgeStmt, err := s.db.PrepareContext(ctx, `INSERT INTO graph_edges(from_id, to_id, relation, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.mirrorGraph", "prepare edge statement", err)
	}
	defer func() { _ = edgeStmt.Close() }()

	seen := map[[3]string]bool{}
	for _, e := range g.Edges {
		if e.Status != loretypes.EdgeActive {
			continue
		}
		seen[[3]string{e.From, e.To, string(e.Relation)}] = true
	}
	for _, e := range g.Edges {
		if e.Status != loretypes.EdgeActive {
			continue
		}
		if _, err := edgeStmt.ExecContext(ctx, e.From, e.To, string(e.Relation), e.Weight); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.mirrorGraph", "insert graph edge", err)
		}
		reverse := [3]string{e.To, e.From, string(e.Relation)}
		if e.Bidirectional && !seen[reverse] {
			seen[reverse] = true
			if _, err := edgeStmt.ExecContext(ctx, e.To, e.From, string(e.Relation), e.Weight); err != nil {
				return loreerr.Wrap(loreerr.KindFatal, "searchindex.mirrorGraph", "insert reverse graph edge", err)
			}
		}
	}
	return nil
}
