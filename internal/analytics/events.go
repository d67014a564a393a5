// Package analytics defines the events published to Kafka for offline
// analysis of index builds and queries.
package analytics

import "time"

type EventType string

const (
	EventQuery    EventType = "query"
	EventNoMatch  EventType = "no_match"
	EventIndexDoc EventType = "index_document"
)

// QueryEvent records one top-5 query.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Kw1       string    `json:"kw1"`
	Kw2       string    `json:"kw2"`
	Matched   bool      `json:"matched"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// IndexEvent records one document pass of an index build.
type IndexEvent struct {
	Type      EventType `json:"type"`
	Document  string    `json:"document"`
	Keywords  int       `json:"keywords"`
	Tokens    int       `json:"tokens"`
	Rejected  int       `json:"rejected"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}
