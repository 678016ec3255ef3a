package searchindex

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lore-dev/lore/internal/embed"
	"github.com/lore-dev/lore/internal/loreerr"
)

// Result is a single scored search hit (spec.md §4.8 "Query — lexical").
type Result struct {
	Type      string
	ID        string
	Content   string
	Project   string
	Timestamp time.Time
	Score     float64
}

// QueryOptions narrows and scores a query.
type QueryOptions struct {
	Project string // boosts records sharing this project, per project_boost
	Limit   int
}

var ftsTables = map[string]string{"decision": "decisions", "pattern": "patterns", "transfer": "transfers"}

// Lexical runs a BM25-ranked full-text query across all three record
// kinds, applying the composite ranking formula from spec.md §4.8, and
// appends every result id to access_log to drive reinforcement.
func (s *Store) Lexical(ctx context.Context, query string, opts QueryOptions) ([]Result, error) {
	now := time.Now()
	defer observeQueryLatency(ctx, now)
	var all []Result
	for recordType, table := range ftsTables {
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT record_id, content, project, ts, importance, bm25(%s) FROM %s WHERE %s MATCH ? ORDER BY bm25(%s) LIMIT ?`,
			table, table, table, table), query, maxInt(opts.Limit, 50))
		if err != nil {
			return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.lexical", "query "+table, err)
		}
		for rows.Next() {
			var id, content, project string
			var tsUnix int64
			var importance, rawBM25 float64
			if err := rows.Scan(&id, &content, &project, &tsUnix, &importance, &rawBM25); err != nil {
				_ = rows.Close()
				return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.lexical", "scan row", err)
			}
			ts := time.Unix(tsUnix, 0).UTC()
			accessCount, lastAccess, err := s.accessStats(ctx, recordType, id)
			if err != nil {
				_ = rows.Close()
				return nil, err
			}
			score := rankScore(rawBM25, ts, importance, accessCount, lastAccess, now, project, opts.Project)
			all = append(all, Result{Type: recordType, ID: id, Content: content, Project: project, Timestamp: ts, Score: score})
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.lexical", "iterate rows", err)
		}
		_ = rows.Close()
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	if err := s.logAccess(ctx, all, query); err != nil {
		return nil, err
	}
	return all, nil
}

// rankScore implements: bm25 · temporal_decay · freq_boost ·
// importance_boost · recency_access_boost · project_boost (spec.md §4.8).
// FTS5's bm25() is smaller-is-better, so the sign is flipped first.
func rankScore(rawBM25 float64, ts time.Time, importance, accessCount float64, lastAccess time.Time, now time.Time, project, queryProject string) float64 {
	bm25 := -rawBM25
	daysSinceTimestamp := now.Sub(ts).Hours() / 24
	temporalDecay := 1 / (1 + daysSinceTimestamp/30)
	freqBoost := 1 + math.Log(1+accessCount)*0.15
	importanceBoost := 1 + importance/5*0.2

	recencyAccessBoost := 1.0
	if !lastAccess.IsZero() {
		daysSinceLastAccess := now.Sub(lastAccess).Hours() / 24
		recencyAccessBoost = 1 + 0.1*math.Exp(-daysSinceLastAccess/30)
	}

	projectBoost := 1.0
	if queryProject != "" && project == queryProject {
		projectBoost = 1.5
	}

	return bm25 * temporalDecay * freqBoost * importanceBoost * recencyAccessBoost * projectBoost
}

func (s *Store) accessStats(ctx context.Context, recordType, recordID string) (count float64, lastAccess time.Time, err error) {
	var n int
	var lastUnix sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(accessed_at) FROM access_log WHERE record_type=? AND record_id=?`, recordType, recordID)
	if err := row.Scan(&n, &lastUnix); err != nil {
		return 0, time.Time{}, loreerr.Wrap(loreerr.KindFatal, "searchindex.accessStats", "query access_log", err)
	}
	if lastUnix.Valid {
		lastAccess = time.Unix(lastUnix.Int64, 0).UTC()
	}
	return float64(n), lastAccess, nil
}

// logAccess records one access_log row per result, tagged with the query
// text that produced it so reinforcement can be audited query-by-query
// later; queryText is stored nullable since not every caller of the
// search index (e.g. a future direct record-view) has one to offer.
func (s *Store) logAccess(ctx context.Context, results []Result, queryText string) error {
	if len(results) == 0 {
		return nil
	}
	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO access_log(record_type, record_id, accessed_at, query_text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "searchindex.logAccess", "prepare statement", err)
	}
	defer func() { _ = stmt.Close() }()

	var queryCol sql.NullString
	if queryText != "" {
		queryCol = sql.NullString{String: queryText, Valid: true}
	}

	now := time.Now().Unix()
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, r.Type, r.ID, now, queryCol); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.logAccess", "insert access_log row", err)
		}
	}
	return nil
}

// Semantic computes a query embedding and ranks all stored embeddings by
// cosine similarity, returning the top N (spec.md §4.8 "Query —
// semantic"). Returns embed.ErrUnavailable if provider is nil or the
// embedding call fails, so callers can fall back to Lexical.
func (s *Store) Semantic(ctx context.Context, query string, provider embed.Provider, limit int) ([]Result, error) {
	defer observeQueryLatency(ctx, time.Now())
	if provider == nil {
		return nil, embed.ErrUnavailable
	}
	queryVec, err := provider.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT record_type, record_id, content_text, embedding, created_at FROM embeddings`)
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.semantic", "query embeddings", err)
	}
	defer func() { _ = rows.Close() }()

	var all []Result
	for rows.Next() {
		var recordType, id, content string
		var blob []byte
		var createdAt int64
		if err := rows.Scan(&recordType, &id, &content, &blob, &createdAt); err != nil {
			return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.semantic", "scan row", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			continue
		}
		sim := cosineSimilarity(queryVec, vec)
		all = append(all, Result{Type: recordType, ID: id, Content: content, Timestamp: time.Unix(createdAt, 0).UTC(), Score: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.semantic", "iterate rows", err)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// rrfK is the Reciprocal Rank Fusion constant from spec.md §4.8.
const rrfK = 60

// Hybrid runs Lexical and Semantic to a wider candidate pool, then fuses
// rankings with Reciprocal Rank Fusion (spec.md §4.8 "Query — hybrid").
// Falls back to lexical-only if the embedding provider is unavailable.
func (s *Store) Hybrid(ctx context.Context, query string, provider embed.Provider, opts QueryOptions) ([]Result, error) {
	defer observeQueryLatency(ctx, time.Now())
	const wideK = 20

	var lexical, semantic []Result
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		lexical, err = s.Lexical(gctx, query, QueryOptions{Project: opts.Project, Limit: wideK})
		return err
	})
	group.Go(func() error {
		// Semantic unavailability is not fatal to the group: fail open
		// to lexical-only, per spec.md §4.9.
		semantic, _ = s.Semantic(gctx, query, provider, wideK)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	fused := map[string]float64{}
	byKey := map[string]Result{}
	for rank, r := range lexical {
		key := r.Type + ":" + r.ID
		fused[key] += 1.0 / float64(rrfK+rank+1)
		byKey[key] = r
	}
	for rank, r := range semantic {
		key := r.Type + ":" + r.ID
		fused[key] += 1.0 / float64(rrfK+rank+1)
		if _, ok := byKey[key]; !ok {
			byKey[key] = r
		}
	}

	out := make([]Result, 0, len(fused))
	for key, score := range fused {
		r := byKey[key]
		r.Score = score
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
