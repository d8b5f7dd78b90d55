package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// tableCandidates is the ordered fallback list of table names the
// ingestion tool has used across versions. The first one present wins.
var tableCandidates = []string{"all_signals", "signals", "forex_signals"}

// signalColumns is the full column set of the signal schema, in
// canonical order. Older store files may lack some of these; the
// contract narrows the select list to the columns that exist.
var signalColumns = []string{
	"message_id",
	"channel_type",
	"received_at",
	"pair",
	"base_amount",
	"entry_time",
	"end_time",
	"martingale_times",
	"martingale_amounts",
	"is_available_martingale_level",
	"direction",
	"trade_duration",
	"is_otc",
	"is_status",
	"trading_result",
	"payout_percent",
	"trade_level",
	"total_profit",
	"total_staked",
	"raw_text",
	"is_executed",
}

// Contract is the schema contract resolved once at startup: which
// table holds the signals and which of the known columns it actually
// has. Query code never probes the schema itself.
type Contract struct {
	Table      string
	columns    map[string]bool
	selectList string
}

// resolveContract finds the signals table and probes its columns.
// Returns an error when no candidate table exists.
func resolveContract(db *gorm.DB) (*Contract, error) {
	for _, name := range tableCandidates {
		var count int64
		err := db.Raw(
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
		).Scan(&count).Error
		if err != nil {
			return nil, fmt.Errorf("resolveContract: %w", err)
		}
		if count == 0 {
			continue
		}

		var cols []struct {
			Name string `gorm:"column:name"`
		}
		err = db.Raw(`SELECT name FROM pragma_table_info(?)`, name).Scan(&cols).Error
		if err != nil {
			return nil, fmt.Errorf("resolveContract: probe %s: %w", name, err)
		}

		present := make(map[string]bool, len(cols))
		for _, col := range cols {
			present[col.Name] = true
		}

		selected := make([]string, 0, len(signalColumns))
		for _, col := range signalColumns {
			if present[col] {
				selected = append(selected, col)
			}
		}
		if len(selected) == 0 {
			continue
		}

		return &Contract{
			Table:      name,
			columns:    present,
			selectList: strings.Join(selected, ", "),
		}, nil
	}
	return nil, fmt.Errorf("resolveContract: no signals table found (tried %s)",
		strings.Join(tableCandidates, ", "))
}

// Has reports whether the store has the given column.
func (c *Contract) Has(column string) bool {
	return c.columns[column]
}

// SelectList returns the comma-joined list of known columns that exist
// in the store, in canonical order.
func (c *Contract) SelectList() string {
	return c.selectList
}
