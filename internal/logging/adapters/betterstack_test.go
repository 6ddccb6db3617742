package adapters

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/logging/types"
)

type ingest struct {
	mu       sync.Mutex
	batches  [][]BetterstackLogEntry
	auth     []string
	statuses []int
}

func (i *ingest) handler(w http.ResponseWriter, r *http.Request) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.auth = append(i.auth, r.Header.Get("Authorization"))
	status := http.StatusAccepted
	if len(i.statuses) > 0 {
		status, i.statuses = i.statuses[0], i.statuses[1:]
	}
	if status < 300 {
		var batch []BetterstackLogEntry
		_ = json.NewDecoder(r.Body).Decode(&batch)
		i.batches = append(i.batches, batch)
	}
	w.WriteHeader(status)
}

func (i *ingest) received() [][]BetterstackLogEntry {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([][]BetterstackLogEntry(nil), i.batches...)
}

func (i *ingest) headers() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.auth...)
}

func newIngest(t *testing.T, statuses ...int) (*ingest, string) {
	t.Helper()
	in := &ingest{statuses: statuses}
	srv := httptest.NewServer(http.HandlerFunc(in.handler))
	t.Cleanup(srv.Close)
	return in, srv.URL
}

func entry(level types.LogLevel, message string) *types.LogEntry {
	return &types.LogEntry{Level: level, Message: message, Timestamp: time.Now(), Fields: map[string]interface{}{"endpoint": "parseResume"}}
}

func TestBetterstackRequiresToken(t *testing.T) {
	_, err := NewBetterstackAdapter("bs", BetterstackConfig{})
	assert.ErrorContains(t, err, "source_token")
}

func TestBetterstackShipsFullBatch(t *testing.T) {
	in, url := newIngest(t)
	a, err := NewBetterstackAdapter("bs", BetterstackConfig{SourceToken: "tok", Endpoint: url, BatchSize: 2, FlushInterval: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Write(entry(types.InfoLevel, "one")))
	assert.Empty(t, in.received())
	assert.Equal(t, 1, a.Buffered())

	require.NoError(t, a.Write(entry(types.InfoLevel, "two")))
	batches := in.received()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, "one", batches[0][0].Message)
	assert.Equal(t, "info", batches[0][0].Level)
	assert.Equal(t, "parseResume", batches[0][1].Fields["endpoint"])
	assert.Equal(t, "Bearer tok", in.headers()[0])
	assert.Zero(t, a.Buffered())
}

func TestBetterstackErrorsShipImmediately(t *testing.T) {
	in, url := newIngest(t)
	a, err := NewBetterstackAdapter("bs", BetterstackConfig{SourceToken: "tok", Endpoint: url, BatchSize: 50, FlushInterval: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Write(entry(types.ErrorLevel, "proxy request failed")))
	require.Len(t, in.received(), 1)
	assert.NoError(t, a.Health())
}

func TestBetterstackRetriesServerErrors(t *testing.T) {
	in, url := newIngest(t, http.StatusServiceUnavailable)
	a, err := NewBetterstackAdapter("bs", BetterstackConfig{
		SourceToken: "tok", Endpoint: url, BatchSize: 1, FlushInterval: time.Hour,
		MaxRetries: 2, RetryInterval: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Write(entry(types.InfoLevel, "eventually")))
	assert.Len(t, in.received(), 1)
	assert.Len(t, in.headers(), 2)
}

func TestBetterstackKeepsBatchOnRejection(t *testing.T) {
	in, url := newIngest(t, http.StatusUnauthorized)
	a, err := NewBetterstackAdapter("bs", BetterstackConfig{
		SourceToken: "bad", Endpoint: url, BatchSize: 1, FlushInterval: time.Hour,
		MaxRetries: 3, RetryInterval: time.Millisecond,
	})
	require.NoError(t, err)

	err = a.Write(entry(types.InfoLevel, "kept"))
	var bsErr *BetterstackError
	require.ErrorAs(t, err, &bsErr)
	assert.Equal(t, http.StatusUnauthorized, bsErr.StatusCode)
	assert.Len(t, in.headers(), 1, "client errors are not retried")
	assert.Error(t, a.Health())
	assert.Equal(t, 1, a.Buffered())

	// the endpoint accepts again; Close ships the retained entry
	require.NoError(t, a.Close())
	batches := in.received()
	require.Len(t, batches, 1)
	assert.Equal(t, "kept", batches[0][0].Message)
	assert.NoError(t, a.Health())
}

func TestBetterstackPeriodicFlush(t *testing.T) {
	in, url := newIngest(t)
	a, err := NewBetterstackAdapter("bs", BetterstackConfig{SourceToken: "tok", Endpoint: url, BatchSize: 50, FlushInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Write(entry(types.InfoLevel, "later")))
	require.Eventually(t, func() bool { return len(in.received()) == 1 }, 2*time.Second, 5*time.Millisecond)
}
