package searchindex

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// indexMetrics holds OTel metric instruments for the search index.
// Instruments are registered against the global delegating provider at
// init time, so they automatically forward to the real provider once
// lorelog.InitMetrics runs, and stay no-ops otherwise.
var indexMetrics struct {
	rebuildCount metric.Int64Counter
	queryLatency metric.Float64Histogram
}

func init() {
	m := otel.Meter("github.com/lore-dev/lore/searchindex")
	indexMetrics.rebuildCount, _ = m.Int64Counter("lore.index.rebuild_count",
		metric.WithDescription("full search index rebuilds performed"),
		metric.WithUnit("{rebuild}"),
	)
	indexMetrics.queryLatency, _ = m.Float64Histogram("lore.index.query_latency_ms",
		metric.WithDescription("time spent executing a lexical, semantic, or hybrid query"),
		metric.WithUnit("ms"),
	)
}

// observeQueryLatency records how long a query took, via defer so it runs
// even when the query returns an error.
func observeQueryLatency(ctx context.Context, start time.Time) {
	indexMetrics.queryLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
}
