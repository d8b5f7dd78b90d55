package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forex-signal-monitor/database"
	"forex-signal-monitor/realtime"
	"forex-signal-monitor/stats"
)

// stubReader serves canned data through the SignalReader interface.
type stubReader struct {
	all    []database.Signal
	active []database.Signal
	recent []database.Signal
	today  stats.Snapshot
}

func (s *stubReader) GetAllSignals(ctx context.Context) []database.Signal    { return s.all }
func (s *stubReader) GetActiveSignals(ctx context.Context) []database.Signal { return s.active }
func (s *stubReader) GetRecentResults(ctx context.Context) []database.Signal { return s.recent }
func (s *stubReader) GetTodayStats(ctx context.Context) stats.Snapshot       { return s.today }

func strPtr(s string) *string { return &s }

func newTestServer(reader SignalReader) *Server {
	broker := realtime.NewBroker()
	go broker.Run()
	return NewServer(reader, nil, broker, time.Second)
}

type resultsEnvelope struct {
	Results json.RawMessage `json:"results"`
}

func doRequest(t *testing.T, handler http.Handler, method, path string) resultsEnvelope {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("%s %s: expected 200, got %d", method, path, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("%s %s: unexpected content type %s", method, path, ct)
	}

	var envelope resultsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: invalid JSON envelope: %v", method, path, err)
	}
	return envelope
}

func TestActiveSignalsEndpoint(t *testing.T) {
	reader := &stubReader{
		active: []database.Signal{
			{MessageID: 1004, Pair: "AUD/USD OTC", IsStatus: database.StatusProcessing, Executed: true},
		},
	}
	handler := newTestServer(reader).Handler()

	// Both GET and POST must work; POST bodies are ignored
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		envelope := doRequest(t, handler, method, "/api/signals/active")

		var signals []database.Signal
		if err := json.Unmarshal(envelope.Results, &signals); err != nil {
			t.Fatalf("decode results: %v", err)
		}
		if len(signals) != 1 || signals[0].MessageID != 1004 {
			t.Errorf("%s: unexpected active signals: %+v", method, signals)
		}
	}
}

func TestTodayStatsEndpoint(t *testing.T) {
	reader := &stubReader{
		today: stats.Snapshot{TotalTrades: 2, Wins: 1, Losses: 1, TotalProfit: -6.5, WinRate: 50},
	}
	handler := newTestServer(reader).Handler()

	envelope := doRequest(t, handler, http.MethodGet, "/api/signals/today-stats")

	// Single-element array, by dashboard convention
	var snaps []stats.Snapshot
	if err := json.Unmarshal(envelope.Results, &snaps); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected single-element results array, got %d", len(snaps))
	}
	if snaps[0] != reader.today {
		t.Errorf("unexpected snapshot: %+v", snaps[0])
	}
}

func TestTodayStatsEndpointDegraded(t *testing.T) {
	// A degraded reader yields 200 with a zeroed snapshot, never 500
	handler := newTestServer(&stubReader{}).Handler()

	envelope := doRequest(t, handler, http.MethodGet, "/api/signals/today-stats")

	var snaps []stats.Snapshot
	if err := json.Unmarshal(envelope.Results, &snaps); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(snaps) != 1 || snaps[0] != (stats.Snapshot{}) {
		t.Errorf("expected zeroed snapshot, got %+v", snaps)
	}
}

func TestAllSignalsEndpointEmpty(t *testing.T) {
	handler := newTestServer(&stubReader{all: []database.Signal{}}).Handler()

	envelope := doRequest(t, handler, http.MethodGet, "/api/signals/all")

	if string(envelope.Results) != "[]" {
		t.Errorf("empty result must encode as [], got %s", envelope.Results)
	}
}

func TestPairRollupEndpoint(t *testing.T) {
	reader := &stubReader{
		all: []database.Signal{
			{MessageID: 1, Pair: "EUR/USD OTC", IsStatus: database.StatusCompleted, Result: strPtr("win"), TotalProfit: 8.5, Executed: true},
			{MessageID: 2, Pair: "EUR/USD", IsStatus: database.StatusCompleted, Result: strPtr("loss"), TotalProfit: -10, Executed: true},
		},
	}
	handler := newTestServer(reader).Handler()

	envelope := doRequest(t, handler, http.MethodGet, "/api/signals/pairs")

	var rollup []stats.PairPerformance
	if err := json.Unmarshal(envelope.Results, &rollup); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(rollup) != 2 {
		t.Fatalf("OTC and non-OTC must stay distinct, got %d entries", len(rollup))
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(&stubReader{}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/signals/all", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(&stubReader{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health status: %v", body["status"])
	}
}
