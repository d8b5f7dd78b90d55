package database

// Signal is the canonical normalized shape of one trading-signal
// lifecycle record, as served to API callers. Column names follow the
// store schema except for two aliases the dashboard depends on:
// trading_result is exposed as "result" and is_executed as "executed".
type Signal struct {
	MessageID                int64    `json:"message_id"`
	ChannelType              string   `json:"channel_type,omitempty"`
	ReceivedAt               string   `json:"received_at"`
	Pair                     string   `json:"pair"`
	BaseAmount               float64  `json:"base_amount"`
	EntryTime                string   `json:"entry_time"`
	EndTime                  string   `json:"end_time"`
	MartingaleTimes          []string `json:"martingale_times"`
	MartingaleAmounts        float64  `json:"martingale_amounts"`
	AvailableMartingaleLevel int      `json:"is_available_martingale_level"`
	Direction                string   `json:"direction"`
	TradeDuration            string   `json:"trade_duration"`
	IsOTC                    bool     `json:"is_otc"`
	IsStatus                 string   `json:"is_status"`
	IsExpired                bool     `json:"is_expired"`
	Result                   *string  `json:"result"`
	PayoutPercent            *float64 `json:"payout_percent"`
	TradeCount               int      `json:"trade_count"`
	TotalProfit              float64  `json:"total_profit"`
	TotalStaked              float64  `json:"total_staked"`
	RawText                  string   `json:"raw_text,omitempty"`
	Executed                 bool     `json:"executed"`
}

// Signal lifecycle states, written by the ingestion/execution process.
// Transitions are monotonic: pending -> processing -> completed, or
// pending -> expired. The reader only ever observes them.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusExpired    = "expired"
)

// Trade outcomes, non-null only on completed signals.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
)
