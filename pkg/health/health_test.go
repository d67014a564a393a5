package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing(err error) Check {
	return func(ctx context.Context) (string, error) {
		return "", err
	}
}

func TestRunAllUp(t *testing.T) {
	c := NewChecker()
	c.Register("index", true, StaticCheck("index built"))
	c.Register("cache", false, PingCheck(func(ctx context.Context) error { return nil }))

	report := c.Run(context.Background())
	assert.Equal(t, StatusUp, report.Status)
	require.Len(t, report.Components, 2)
	assert.Equal(t, "index built", report.Components["index"].Detail)
	assert.True(t, report.Components["index"].Critical)
}

func TestRunNonCriticalFailureDegrades(t *testing.T) {
	c := NewChecker()
	c.Register("index", true, StaticCheck("index built"))
	c.Register("cache", false, failing(errors.New("connection refused")))

	report := c.Run(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, StatusDown, report.Components["cache"].Status)
	assert.Equal(t, "connection refused", report.Components["cache"].Detail)
}

func TestRunCriticalFailureTakesServiceDown(t *testing.T) {
	c := NewChecker()
	c.Register("cache", false, failing(errors.New("connection refused")))
	c.Register("postgres", true, failing(errors.New("dial timeout")))

	report := c.Run(context.Background())
	assert.Equal(t, StatusDown, report.Status)
}

func TestReadyHandlerStatusCodes(t *testing.T) {
	up := NewChecker()
	up.Register("index", true, StaticCheck("ok"))

	degraded := NewChecker()
	degraded.Register("index", true, StaticCheck("ok"))
	degraded.Register("cache", false, failing(errors.New("down")))

	down := NewChecker()
	down.Register("postgres", true, failing(errors.New("down")))

	cases := []struct {
		name    string
		checker *Checker
		want    int
	}{
		{"up", up, http.StatusOK},
		{"degraded still ready", degraded, http.StatusOK},
		{"down", down, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.checker.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
