package db

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
)

// DefaultSlowQueryThreshold is the duration above which a statement is logged
const DefaultSlowQueryThreshold = 500 * time.Millisecond

// QueryMetrics aggregates timings of one statement shape
type QueryMetrics struct {
	Query         string
	Count         int
	Errors        int
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastExecuted  time.Time
}

// AvgDuration returns the mean execution time
func (m QueryMetrics) AvgDuration() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalDuration / time.Duration(m.Count)
}

// QueryTracker records per-statement timings and logs slow statements
type QueryTracker struct {
	mu            sync.Mutex
	metrics       map[string]*QueryMetrics
	slowThreshold time.Duration
	now           func() time.Time
}

// NewQueryTracker creates a tracker that warns about statements slower than slow
func NewQueryTracker(slow time.Duration) *QueryTracker {
	if slow <= 0 {
		slow = DefaultSlowQueryThreshold
	}
	return &QueryTracker{
		metrics:       make(map[string]*QueryMetrics),
		slowThreshold: slow,
		now:           time.Now,
	}
}

// Observe records one execution of query
func (t *QueryTracker) Observe(query string, args []interface{}, duration time.Duration, err error) {
	if duration >= t.slowThreshold {
		logger.Warn("Slow query detected (%dms): %s [params: %s]",
			duration.Milliseconds(), query, formatParams(args))
	}

	key := normalizeQuery(query)

	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.metrics[key]
	if !ok {
		m = &QueryMetrics{Query: key, MinDuration: duration, MaxDuration: duration}
		t.metrics[key] = m
	}
	m.Count++
	if err != nil {
		m.Errors++
	}
	m.TotalDuration += duration
	m.LastExecuted = t.now()
	if duration < m.MinDuration {
		m.MinDuration = duration
	}
	if duration > m.MaxDuration {
		m.MaxDuration = duration
	}
}

// Snapshot returns copies of all metrics, slowest average first
func (t *QueryTracker) Snapshot() []QueryMetrics {
	t.mu.Lock()
	out := make([]QueryMetrics, 0, len(t.metrics))
	for _, m := range t.metrics {
		out = append(out, *m)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgDuration() != out[j].AvgDuration() {
			return out[i].AvgDuration() > out[j].AvgDuration()
		}
		return out[i].Query < out[j].Query
	})
	return out
}

// SlowQueries returns the statements whose average exceeds the threshold
func (t *QueryTracker) SlowQueries() []QueryMetrics {
	var slow []QueryMetrics
	for _, m := range t.Snapshot() {
		if m.AvgDuration() >= t.slowThreshold {
			slow = append(slow, m)
		}
	}
	return slow
}

// LogSummary writes one line per tracked statement at debug level and one
// warning per slow statement
func (t *QueryTracker) LogSummary() {
	for _, m := range t.Snapshot() {
		logger.Debug("query stats: count=%d errors=%d avg=%s max=%s %s",
			m.Count, m.Errors, m.AvgDuration(), m.MaxDuration, m.Query)
	}
	for _, m := range t.SlowQueries() {
		logger.Warn("Slow statement averaged %s over %d runs: %s", m.AvgDuration(), m.Count, m.Query)
	}
}

var (
	quotedLiteral = regexp.MustCompile(`'[^']*'`)
	numberLiteral = regexp.MustCompile(`\b\d+\b`)
	postgresParam = regexp.MustCompile(`\$\d+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// normalizeQuery collapses literals, placeholders and whitespace so that
// executions of the same statement share one entry
func normalizeQuery(query string) string {
	normalized := postgresParam.ReplaceAllString(query, "?")
	normalized = quotedLiteral.ReplaceAllString(normalized, "'?'")
	normalized = numberLiteral.ReplaceAllString(normalized, "?")
	normalized = whitespace.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

func formatParams(params []interface{}) string {
	if len(params) == 0 {
		return "none"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%v", p)
	}
	return strings.Join(parts, ", ")
}
