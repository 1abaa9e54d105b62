package model

type AggregateBucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type AggregateView struct {
	Dimension string            `json:"dimension"`
	Buckets   []AggregateBucket `json:"buckets"`
	Total     int64             `json:"total"`
}

type CrossTabRow struct {
	Key   string            `json:"key"`
	Cells []AggregateBucket `json:"cells"`
	Total int64             `json:"total"`
}

// CrossTabView is a two-dimension count with the second dimension bounded
// by a top-K collapse; columns beyond K are folded into OtherBucket.
type CrossTabView struct {
	RowDimension    string        `json:"row_dimension"`
	ColumnDimension string        `json:"column_dimension"`
	Columns         []string      `json:"columns"`
	Rows            []CrossTabRow `json:"rows"`
	Total           int64         `json:"total"`
}

const OtherBucket = "Other"

type SampleSet struct {
	Records  []NormalizedRecord `json:"records"`
	Eligible int                `json:"eligible"`
	Bound    int                `json:"bound"`
	Seed     int64              `json:"seed"`
}

// FilterOptions enumerates the filter values a front end may offer,
// mirroring the dataset's closed category sets and configured bounds.
type FilterOptions struct {
	Boroughs []Borough `json:"boroughs"`
	Results  []Result  `json:"results"`
	YearMin  int       `json:"year_min"`
	YearMax  int       `json:"year_max"`
	MaxLimit int       `json:"max_limit"`
}

type Summary struct {
	Rows     int `json:"rows"`
	Boroughs int `json:"boroughs"`
	Results  int `json:"results"`
	YearMin  int `json:"year_min"`
	YearMax  int `json:"year_max"`
	Dropped  int `json:"dropped"`
}
