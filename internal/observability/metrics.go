package observability

import "github.com/prometheus/client_golang/prometheus"

// Domain collectors. Label values are drawn from small closed sets
// (operation names, chambers, outcome words) to keep cardinality bounded.
var (
	// UpstreamRequests counts api.congress.gov and Senate feed requests by
	// operation and outcome (ok, retry, error).
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "congress_upstream_requests_total",
			Help: "Upstream requests by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	// UpstreamLatency records the wall time of a single upstream attempt.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "congress_upstream_request_duration_seconds",
			Help:    "Duration of upstream request attempts in seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"op"},
	)

	// SyncRuns counts sync passes by kind (bills, votes, members, contacts)
	// and trigger (lazy, cli, schedule).
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "congress_sync_runs_total",
			Help: "Sync passes by kind and trigger.",
		},
		[]string{"kind", "trigger"},
	)

	// SyncedRecords counts records upserted by sync passes.
	SyncedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "congress_synced_records_total",
			Help: "Records upserted by sync passes.",
		},
		[]string{"kind"},
	)

	// SyncSkipped counts records skipped by a sync pass, by reason
	// (fresh, malformed, fetch_error, unmatched).
	SyncSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "congress_sync_skipped_total",
			Help: "Records skipped by sync passes.",
		},
		[]string{"kind", "reason"},
	)

	// NameMatches counts name-matcher outcomes (cache, exact, prefix, miss, error).
	NameMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "congress_name_matches_total",
			Help: "Name matcher resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	// AssistantToolCalls counts tool invocations from the planner and MCP.
	AssistantToolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "congress_assistant_tool_calls_total",
			Help: "Assistant tool calls by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		UpstreamRequests, UpstreamLatency,
		SyncRuns, SyncedRecords, SyncSkipped,
		NameMatches, AssistantToolCalls,
	)
}
