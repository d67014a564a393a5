package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/karthikg/litesearch/internal/analytics"
)

func TestTrackBuffersBelowBatchSize(t *testing.T) {
	bc := New(nil, 10, time.Minute)
	for i := 0; i < 9; i++ {
		bc.Track("query", analytics.QueryEvent{Type: analytics.EventQuery, Kw1: "deep"})
	}
	assert.Equal(t, 9, bc.BufferLen())
}

func TestDefaultsApplied(t *testing.T) {
	bc := New(nil, 0, 0)
	assert.Equal(t, 100, bc.batchSize)
	assert.Equal(t, 5*time.Second, bc.flushInterval)
}
