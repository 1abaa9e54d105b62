package model

import "time"

// NormalizedRecord is one inspection event after cleaning. Every retained
// record has a valid timestamp, borough, and result; Latitude and Longitude
// are either both set or both nil.
type NormalizedRecord struct {
	InspectedAt    time.Time `json:"inspected_at"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	MonthName      string    `json:"month_name"`
	YearMonth      string    `json:"year_month"`
	Borough        Borough   `json:"borough"`
	Result         Result    `json:"result"`
	InspectionType string    `json:"inspection_type,omitempty"`
	ZipCode        string    `json:"zip_code,omitempty"`
	NTA            string    `json:"nta,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
}

func (r NormalizedRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

type RecordSet struct {
	Records []NormalizedRecord `json:"records"`
	Total   int                `json:"total"`
	Dropped int                `json:"dropped"`
}
