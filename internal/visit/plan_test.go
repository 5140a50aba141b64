package visit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	keys := Keys{Date: "2024-05-07", Month: "2024-05"}

	tests := []struct {
		name      string
		rec       *Record
		marker    Marker
		want      Record
		wantCount bool
		wantWrite bool
	}{
		{
			name:      "absent record and fresh browser",
			rec:       nil,
			marker:    Marker{},
			want:      Record{Today: 1, Month: 1, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			wantCount: true,
			wantWrite: true,
		},
		{
			name:      "browser already counted today",
			rec:       &Record{Today: 3, Month: 10, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			marker:    Marker{Date: "2024-05-07", Month: "2024-05"},
			want:      Record{Today: 3, Month: 10, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			wantCount: false,
			wantWrite: false,
		},
		{
			name:      "day rollover keeps month",
			rec:       &Record{Today: 5, Month: 20, LastUpdateDate: "2024-05-06", LastUpdateMonth: "2024-05"},
			marker:    Marker{Date: "2024-05-06", Month: "2024-05"},
			want:      Record{Today: 1, Month: 21, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			wantCount: true,
			wantWrite: true,
		},
		{
			name:      "month rollover resets both",
			rec:       &Record{Today: 5, Month: 200, LastUpdateDate: "2024-04-30", LastUpdateMonth: "2024-04"},
			marker:    Marker{Date: "2024-04-30", Month: "2024-04"},
			want:      Record{Today: 1, Month: 1, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			wantCount: true,
			wantWrite: true,
		},
		{
			name:      "stale record refreshed without counting",
			rec:       &Record{Today: 5, Month: 20, LastUpdateDate: "2024-05-06", LastUpdateMonth: "2024-05"},
			marker:    Marker{Date: "2024-05-07", Month: "2024-05"},
			want:      Record{Today: 0, Month: 20, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			wantCount: false,
			wantWrite: true,
		},
		{
			name:      "only the date marker is compared",
			rec:       &Record{Today: 2, Month: 2, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			marker:    Marker{Date: "2024-05-07", Month: "1999-01"},
			want:      Record{Today: 2, Month: 2, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"},
			wantCount: false,
			wantWrite: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Plan(keys, tt.rec, tt.marker)
			assert.Equal(t, tt.want, d.Next)
			assert.Equal(t, tt.wantCount, d.ShouldCount)
			assert.Equal(t, tt.wantWrite, d.ShouldWrite)
			assert.Equal(t, keys, d.Keys)
		})
	}
}

func TestDecisionCounts(t *testing.T) {
	d := Decision{
		Keys: Keys{Date: "2024-05-07", Month: "2024-05"},
		Next: Record{Today: 7, Month: 42},
	}
	assert.Equal(t, Counts{Today: 7, Month: 42, MonthKey: "2024-05"}, d.Counts())
}
