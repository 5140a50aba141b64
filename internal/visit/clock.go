package visit

import "time"

// KST is the fixed UTC+9 zone every date and month key is computed in,
// regardless of the host or visitor timezone.
var KST = time.FixedZone("KST", 9*60*60)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Keys identifies the current counting period.
type Keys struct {
	Date  string
	Month string
}

func KeysAt(t time.Time) Keys {
	k := t.In(KST)
	return Keys{
		Date:  k.Format(DateLayout),
		Month: k.Format(MonthLayout),
	}
}

// Marker returns the local marker a browser stores after being counted in this period.
func (k Keys) Marker() Marker {
	return Marker{Date: k.Date, Month: k.Month}
}
