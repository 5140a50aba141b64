package visit

// Record is the shared remote counter record.
type Record struct {
	Today           int64  `datastore:"today,noindex" redis:"today" json:"today"`
	Month           int64  `datastore:"month,noindex" redis:"month" json:"month"`
	LastUpdateDate  string `datastore:"lastUpdateDate,noindex" redis:"lastUpdateDate" json:"lastUpdateDate"`
	LastUpdateMonth string `datastore:"lastUpdateMonth,noindex" redis:"lastUpdateMonth" json:"lastUpdateMonth"`
}

// Marker is the per-browser record of the last period it was counted in.
type Marker struct {
	Date  string
	Month string
}

// Counts is what gets rendered on the page.
type Counts struct {
	Today    int64  `json:"today"`
	Month    int64  `json:"month"`
	MonthKey string `json:"monthKey"`
}
