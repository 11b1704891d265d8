package domain

// UsageSnapshot is a read-only report of a user's token consumption,
// combining the durable cumulative counter with the fast-tier daily counter.
// TodayConsumed is approximate: it reads a counter that may be unavailable,
// in which case it reports 0 rather than failing.
type UsageSnapshot struct {
	TotalConsumed  int64 `json:"total_tokens_used"`
	TodayConsumed  int64 `json:"today_tokens_used"`
	DailyLimit     int64 `json:"daily_limit"`
	RemainingToday int64 `json:"remaining_today"`
}
