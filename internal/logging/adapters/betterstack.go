package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"jobportal/internal/logging/types"
)

// DefaultBetterstackEndpoint is the Betterstack HTTP ingestion endpoint
const DefaultBetterstackEndpoint = "https://in.logs.betterstack.com"

// BetterstackConfig represents configuration for the Betterstack adapter
type BetterstackConfig struct {
	SourceToken   string        `yaml:"source_token"`
	Endpoint      string        `yaml:"endpoint"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	Timeout       time.Duration `yaml:"timeout"`
	// Entries at or above this level are shipped immediately
	FlushOnLevel types.LogLevel `yaml:"flush_on_level"`
	HTTPClient   *http.Client   `yaml:"-"`
}

// BetterstackLogEntry is the wire shape of one shipped entry
type BetterstackLogEntry struct {
	Timestamp time.Time              `json:"dt"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// BetterstackError is a non-2xx answer from the ingestion endpoint
type BetterstackError struct {
	StatusCode int
	Body       string
	Retryable  bool
}

func (e *BetterstackError) Error() string {
	return fmt.Sprintf("betterstack returned %d: %s", e.StatusCode, e.Body)
}

// BetterstackAdapter buffers entries and ships them in batches over HTTP
type BetterstackAdapter struct {
	name   string
	config BetterstackConfig
	client *http.Client

	mu      sync.Mutex
	buffer  []BetterstackLogEntry
	lastErr error

	// serialises sends so batches arrive in order
	sendMu sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewBetterstackAdapter creates the adapter and starts its periodic flush
func NewBetterstackAdapter(name string, config BetterstackConfig) (*BetterstackAdapter, error) {
	if config.SourceToken == "" {
		return nil, fmt.Errorf("source_token is required for Betterstack adapter")
	}

	if config.Endpoint == "" {
		config.Endpoint = DefaultBetterstackEndpoint
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.FlushOnLevel == types.DebugLevel {
		config.FlushOnLevel = types.ErrorLevel
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	a := &BetterstackAdapter{
		name:   name,
		config: config,
		client: client,
		buffer: make([]BetterstackLogEntry, 0, config.BatchSize),
		stopCh: make(chan struct{}),
	}

	a.wg.Add(1)
	go a.flushLoop()

	return a, nil
}

func (a *BetterstackAdapter) flushLoop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = a.Flush()
		case <-a.stopCh:
			return
		}
	}
}

// Write buffers an entry, shipping the batch once it is full or the entry is severe
func (a *BetterstackAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	a.buffer = append(a.buffer, BetterstackLogEntry{
		Timestamp: entry.Timestamp,
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Fields:    entry.Fields,
	})
	full := len(a.buffer) >= a.config.BatchSize
	a.mu.Unlock()

	if full || entry.Level >= a.config.FlushOnLevel {
		return a.Flush()
	}
	return nil
}

// Flush ships everything buffered. A failed batch goes back to the front of the
// buffer, bounded to two batches so an unreachable endpoint cannot grow memory.
func (a *BetterstackAdapter) Flush() error {
	a.sendMu.Lock()
	defer a.sendMu.Unlock()

	a.mu.Lock()
	batch := a.buffer
	a.buffer = make([]BetterstackLogEntry, 0, a.config.BatchSize)
	a.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	err := a.sendWithRetry(batch)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = err
	if err != nil {
		requeued := append(batch, a.buffer...)
		if limit := a.config.BatchSize * 2; len(requeued) > limit {
			requeued = requeued[len(requeued)-limit:]
		}
		a.buffer = requeued
		return fmt.Errorf("failed to send batch to Betterstack: %w", err)
	}
	return nil
}

func (a *BetterstackAdapter) sendWithRetry(batch []BetterstackLogEntry) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	interval := a.config.RetryInterval
	var lastErr error
	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(interval)
			interval *= 2
		}

		lastErr = a.send(payload)
		if lastErr == nil {
			return nil
		}

		var bsErr *BetterstackError
		if errors.As(lastErr, &bsErr) && !bsErr.Retryable {
			return lastErr
		}
	}
	return lastErr
}

func (a *BetterstackAdapter) send(payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.SourceToken)
	req.Header.Set("User-Agent", "jobportal/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return &BetterstackError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
	}
}

// Buffered returns the number of entries waiting to be shipped
func (a *BetterstackAdapter) Buffered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffer)
}

// Health returns the error of the last send, nil when it succeeded
func (a *BetterstackAdapter) Health() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close stops the periodic flush and ships what is left
func (a *BetterstackAdapter) Close() error {
	var err error
	a.once.Do(func() {
		close(a.stopCh)
		a.wg.Wait()
		err = a.Flush()
		a.client.CloseIdleConnections()
	})
	return err
}

// Name returns the name of the adapter
func (a *BetterstackAdapter) Name() string {
	return a.name
}
