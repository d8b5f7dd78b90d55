package api

import (
	"net/http"
	"time"

	"forex-signal-monitor/stats"
)

// handleAllSignals returns every signal, newest first.
func (s *Server) handleAllSignals(w http.ResponseWriter, r *http.Request) {
	signals := s.reader.GetAllSignals(r.Context())
	respondResults(w, signals)
}

// handleActiveSignals returns pending and processing signals.
func (s *Server) handleActiveSignals(w http.ResponseWriter, r *http.Request) {
	signals := s.reader.GetActiveSignals(r.Context())
	respondResults(w, signals)
}

// handleRecentResults returns the 10 newest completed trades.
func (s *Server) handleRecentResults(w http.ResponseWriter, r *http.Request) {
	signals := s.reader.GetRecentResults(r.Context())
	respondResults(w, signals)
}

// handleTodayStats returns today's aggregate snapshot, wrapped in a
// single-element results array for compatibility with the dashboard.
func (s *Server) handleTodayStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := "stats:today:" + time.Now().Format("2006-01-02")

	var snap stats.Snapshot
	if err := s.cache.Get(ctx, key, &snap); err != nil {
		snap = s.reader.GetTodayStats(ctx)
		_ = s.cache.Set(ctx, key, snap, s.cacheTTL)
	}

	snap.TotalProfit = stats.Round2(snap.TotalProfit)
	respondResults(w, []stats.Snapshot{snap})
}

// handlePairRollup returns per-pair performance over all executed
// trades with a known outcome, most-traded pair first.
func (s *Server) handlePairRollup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := "stats:pairs"

	var rollup []stats.PairPerformance
	if err := s.cache.Get(ctx, key, &rollup); err != nil {
		rollup = stats.ComputePairRollup(s.reader.GetAllSignals(ctx))
		_ = s.cache.Set(ctx, key, rollup, s.cacheTTL)
	}

	for i := range rollup {
		rollup[i].TotalProfit = stats.Round2(rollup[i].TotalProfit)
		rollup[i].TotalStaked = stats.Round2(rollup[i].TotalStaked)
		rollup[i].AvgProfit = stats.Round2(rollup[i].AvgProfit)
	}
	respondResults(w, rollup)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
