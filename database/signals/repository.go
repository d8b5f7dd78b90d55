// Package signals implements the read side of the signal store: four
// query operations plus row normalization. All operations degrade to
// an empty result on store failure instead of returning an error.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"forex-signal-monitor/database"
	"forex-signal-monitor/stats"

	"gorm.io/gorm"
)

// recentResultsLimit caps GetRecentResults to the newest completed
// trades the dashboard shows.
const recentResultsLimit = 10

// Repository reads signal records from the store and normalizes them.
type Repository struct {
	store *database.Store
}

// NewRepository creates a new signals repository over the given store.
func NewRepository(store *database.Store) *Repository {
	return &Repository{store: store}
}

// signalRow mirrors the persisted schema. Every column except the
// primary key is nullable in old store files, so everything scans
// through pointers and normalization fills in the zero values.
type signalRow struct {
	MessageID                int64    `gorm:"column:message_id"`
	ChannelType              *string  `gorm:"column:channel_type"`
	ReceivedAt               *string  `gorm:"column:received_at"`
	Pair                     *string  `gorm:"column:pair"`
	BaseAmount               *float64 `gorm:"column:base_amount"`
	EntryTime                *string  `gorm:"column:entry_time"`
	EndTime                  *string  `gorm:"column:end_time"`
	MartingaleTimes          *string  `gorm:"column:martingale_times"`
	MartingaleAmounts        *float64 `gorm:"column:martingale_amounts"`
	AvailableMartingaleLevel *int     `gorm:"column:is_available_martingale_level"`
	Direction                *string  `gorm:"column:direction"`
	TradeDuration            *string  `gorm:"column:trade_duration"`
	IsOTC                    *int     `gorm:"column:is_otc"`
	IsStatus                 *string  `gorm:"column:is_status"`
	TradingResult            *string  `gorm:"column:trading_result"`
	PayoutPercent            *float64 `gorm:"column:payout_percent"`
	TradeLevel               *int     `gorm:"column:trade_level"`
	TotalProfit              *float64 `gorm:"column:total_profit"`
	TotalStaked              *float64 `gorm:"column:total_staked"`
	RawText                  *string  `gorm:"column:raw_text"`
	IsExecuted               *int     `gorm:"column:is_executed"`
}

// GetAllSignals returns every signal record, newest first.
func (r *Repository) GetAllSignals(ctx context.Context) []database.Signal {
	rows, err := r.query(ctx, func(q *gorm.DB) *gorm.DB {
		return q
	})
	if err != nil {
		log.Printf("❌ GetAllSignals: %v", err)
		return []database.Signal{}
	}
	return normalizeAll(rows)
}

// GetActiveSignals returns signals still in flight (pending or
// processing), newest first.
func (r *Repository) GetActiveSignals(ctx context.Context) []database.Signal {
	rows, err := r.query(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_status IN (?, ?)", database.StatusProcessing, database.StatusPending)
	})
	if err != nil {
		log.Printf("❌ GetActiveSignals: %v", err)
		return []database.Signal{}
	}
	return normalizeAll(rows)
}

// GetRecentResults returns the newest completed trades with a known
// outcome, capped at 10.
func (r *Repository) GetRecentResults(ctx context.Context) []database.Signal {
	rows, err := r.query(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_status = ?", database.StatusCompleted).
			Where("trading_result IS NOT NULL").
			Limit(recentResultsLimit)
	})
	if err != nil {
		log.Printf("❌ GetRecentResults: %v", err)
		return []database.Signal{}
	}
	return normalizeAll(rows)
}

// GetTodayStats returns the aggregate snapshot for today's completed
// trades. The day boundary is the local calendar date. Aggregation is
// delegated to the stats engine so the formulas live in one place.
func (r *Repository) GetTodayStats(ctx context.Context) stats.Snapshot {
	day := time.Now().Format("2006-01-02")
	return r.GetStatsForDay(ctx, day)
}

// GetStatsForDay returns the aggregate snapshot for completed trades
// received on the given day (YYYY-MM-DD).
func (r *Repository) GetStatsForDay(ctx context.Context, day string) stats.Snapshot {
	rows, err := r.query(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_status = ?", database.StatusCompleted).
			Where("trading_result IS NOT NULL").
			Where("DATE(received_at) = ?", day)
	})
	if err != nil {
		log.Printf("❌ GetStatsForDay: %v", err)
		return stats.Snapshot{}
	}
	return stats.ComputeSnapshot(normalizeAll(rows), day)
}

// query runs one read against the store with the shared ordering and
// the contract's narrowed select list. mod adds per-operation filters.
func (r *Repository) query(ctx context.Context, mod func(*gorm.DB) *gorm.DB) ([]signalRow, error) {
	if !r.store.Available() {
		return nil, fmt.Errorf("query: store unavailable")
	}

	contract := r.store.Schema()
	q := r.store.DB().WithContext(ctx).
		Table(contract.Table).
		Select(contract.SelectList()).
		Order("received_at DESC")

	var rows []signalRow
	if err := mod(q).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", contract.Table, err)
	}
	return rows, nil
}

// normalize converts one raw row into the canonical Signal shape.
// Normalization is idempotent: deriving twice changes nothing.
func (row signalRow) normalize() database.Signal {
	s := database.Signal{
		MessageID:                row.MessageID,
		ChannelType:              strVal(row.ChannelType),
		ReceivedAt:               strVal(row.ReceivedAt),
		Pair:                     strVal(row.Pair),
		BaseAmount:               floatVal(row.BaseAmount),
		EntryTime:                strVal(row.EntryTime),
		EndTime:                  strVal(row.EndTime),
		MartingaleTimes:          parseMartingaleTimes(row.MartingaleTimes),
		MartingaleAmounts:        floatVal(row.MartingaleAmounts),
		AvailableMartingaleLevel: intVal(row.AvailableMartingaleLevel),
		Direction:                strVal(row.Direction),
		TradeDuration:            strVal(row.TradeDuration),
		IsOTC:                    intVal(row.IsOTC) != 0,
		IsStatus:                 strVal(row.IsStatus),
		Result:                   row.TradingResult,
		PayoutPercent:            row.PayoutPercent,
		TotalProfit:              floatVal(row.TotalProfit),
		TotalStaked:              floatVal(row.TotalStaked),
		RawText:                  strVal(row.RawText),
		Executed:                 intVal(row.IsExecuted) != 0,
	}

	s.IsExpired = s.IsStatus == database.StatusExpired

	s.TradeCount = 1
	if level := intVal(row.TradeLevel); level > 0 {
		s.TradeCount = level
	}

	return s
}

func normalizeAll(rows []signalRow) []database.Signal {
	out := make([]database.Signal, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.normalize())
	}
	return out
}

// parseMartingaleTimes decodes the serialized follow-up schedule.
// A malformed value degrades to an empty schedule rather than failing
// the whole row.
func parseMartingaleTimes(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var times []string
	if err := json.Unmarshal([]byte(*raw), &times); err != nil {
		log.Printf("⚠️  Malformed martingale_times %q: %v", *raw, err)
		return []string{}
	}
	if times == nil {
		return []string{}
	}
	return times
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatVal(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
