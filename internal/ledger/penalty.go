package ledger

import "time"

const hoursPerDay = 24

// civilDate drops the clock part of t as seen in loc and returns midnight UTC of
// that calendar day. Every date the ledger stores goes through here.
func civilDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysLate returns the number of whole calendar days returned is past due, or 0.
func DaysLate(due, returned time.Time) int {
	d := civilDate(due, nil)
	r := civilDate(returned, nil)
	days := int(r.Sub(d).Hours() / hoursPerDay)
	if days < 0 {
		return 0
	}
	return days
}

// Penalty 逾期罰金 = 逾期天數 × 每日費率
func Penalty(due, returned time.Time, perDay float64) float64 {
	return float64(DaysLate(due, returned)) * perDay
}
