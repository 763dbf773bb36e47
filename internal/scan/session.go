package scan

import (
	"time"

	"breakout_bot/internal/models"
)

// SessionFlag buckets a bar timestamp into pre/regular/after using US regular
// hours in UTC: [13:30, 20:00) is REGULAR (9:30-16:00 ET).
func SessionFlag(ts time.Time) int {
	utc := ts.UTC()
	minutes := utc.Hour()*60 + utc.Minute()
	switch {
	case minutes < 13*60+30:
		return models.SessionPre
	case minutes >= 20*60:
		return models.SessionAfter
	default:
		return models.SessionRegular
	}
}
