package visit

import "github.com/samber/lo"

type Decision struct {
	Keys Keys
	// Current is the record as read, zero valued when it was absent.
	Current     Record
	Next        Record
	ShouldCount bool
	ShouldWrite bool
}

func (d Decision) Counts() Counts {
	return Counts{
		Today:    d.Next.Today,
		Month:    d.Next.Month,
		MonthKey: d.Keys.Month,
	}
}

// Plan decides what one visit does to the record. It has no side effects.
//
// A stale today or month count is treated as zero, and the browser is
// counted only when its marker does not already hold today's date key.
// A write is needed whenever the next record differs from the stored one,
// which covers both an increment and a bare rollover of the key fields.
func Plan(keys Keys, rec *Record, marker Marker) Decision {
	var cur Record
	if rec != nil {
		cur = *rec
	}

	count := marker.Date != keys.Date
	inc := lo.Ternary[int64](count, 1, 0)

	next := Record{
		Today:           lo.Ternary(cur.LastUpdateDate == keys.Date, cur.Today, 0) + inc,
		Month:           lo.Ternary(cur.LastUpdateMonth == keys.Month, cur.Month, 0) + inc,
		LastUpdateDate:  keys.Date,
		LastUpdateMonth: keys.Month,
	}

	return Decision{
		Keys:        keys,
		Current:     cur,
		Next:        next,
		ShouldCount: count,
		ShouldWrite: next != cur,
	}
}
