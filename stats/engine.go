// Package stats is the aggregation engine: pure, deterministic
// computation over normalized signal records. It is the single source
// of truth for the win-rate and profit formulas, shared by the store
// reader and the HTTP façade.
//
// Monetary sums accumulate as decimals; float conversion happens only
// when a value leaves the engine.
package stats

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"forex-signal-monitor/database"
)

// Snapshot is the aggregate view over one day's completed trades.
type Snapshot struct {
	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	TotalProfit float64 `json:"totalProfit"`
	WinRate     float64 `json:"winRate"`
}

// PairPerformance is the per-instrument rollup. An OTC pair is a
// distinct instrument from its non-OTC counterpart and is never
// merged with it.
type PairPerformance struct {
	Pair         string  `json:"pair"`
	Count        int     `json:"count"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	TotalProfit  float64 `json:"totalProfit"`
	TotalStaked  float64 `json:"totalStaked"`
	WinRate      float64 `json:"winRate"`
	AvgProfit    float64 `json:"avgProfit"`
	ShareOfTotal float64 `json:"shareOfTotal"`
}

// ComputeSnapshot aggregates the records that completed with a known
// outcome on the given day (YYYY-MM-DD, matched against the
// received_at date). TotalTrades counts every filtered record, so a
// result value that is neither win nor loss still counts toward the
// total without being counted as either.
func ComputeSnapshot(records []database.Signal, day string) Snapshot {
	var snap Snapshot
	profit := decimal.Zero

	for _, s := range records {
		if s.IsStatus != database.StatusCompleted || s.Result == nil {
			continue
		}
		if !strings.HasPrefix(s.ReceivedAt, day) {
			continue
		}

		snap.TotalTrades++
		switch *s.Result {
		case database.ResultWin:
			snap.Wins++
		case database.ResultLoss:
			snap.Losses++
		}
		profit = profit.Add(decimal.NewFromFloat(s.TotalProfit))
	}

	snap.TotalProfit = profit.InexactFloat64()
	if snap.TotalTrades > 0 {
		snap.WinRate = float64(snap.Wins) / float64(snap.TotalTrades) * 100
	}
	return snap
}

// pairAccumulator carries the per-pair running totals while grouping.
type pairAccumulator struct {
	count  int
	wins   int
	losses int
	profit decimal.Decimal
	staked decimal.Decimal
}

// ComputePairRollup groups executed records with a known outcome by
// their raw pair string and derives per-pair performance. The result
// is ordered most-traded first; ties break on pair name so the order
// is deterministic.
func ComputePairRollup(records []database.Signal) []PairPerformance {
	groups := make(map[string]*pairAccumulator)
	considered := 0

	for _, s := range records {
		if !s.Executed || s.Result == nil {
			continue
		}
		considered++

		acc := groups[s.Pair]
		if acc == nil {
			acc = &pairAccumulator{}
			groups[s.Pair] = acc
		}

		acc.count++
		switch *s.Result {
		case database.ResultWin:
			acc.wins++
		case database.ResultLoss:
			acc.losses++
		}
		acc.profit = acc.profit.Add(decimal.NewFromFloat(s.TotalProfit))
		acc.staked = acc.staked.Add(decimal.NewFromFloat(s.TotalStaked))
	}

	rollup := make([]PairPerformance, 0, len(groups))
	for pair, acc := range groups {
		perf := PairPerformance{
			Pair:        pair,
			Count:       acc.count,
			Wins:        acc.wins,
			Losses:      acc.losses,
			TotalProfit: acc.profit.InexactFloat64(),
			TotalStaked: acc.staked.InexactFloat64(),
		}
		if decided := acc.wins + acc.losses; decided > 0 {
			perf.WinRate = float64(acc.wins) / float64(decided) * 100
		}
		perf.AvgProfit = acc.profit.Div(decimal.NewFromInt(int64(acc.count))).InexactFloat64()
		perf.ShareOfTotal = float64(acc.count) / float64(considered) * 100
		rollup = append(rollup, perf)
	}

	sort.Slice(rollup, func(i, j int) bool {
		if rollup[i].Count != rollup[j].Count {
			return rollup[i].Count > rollup[j].Count
		}
		return rollup[i].Pair < rollup[j].Pair
	})

	return rollup
}

// Round2 rounds a monetary value to 2 decimal places for presentation.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
