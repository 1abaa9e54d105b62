// Package normalize coerces raw dataset rows into typed records and
// derives their calendar features.
package normalize

import (
	"fmt"
	"strconv"
	"time"

	"rodent-dashboard/internal/metrics"
	"rodent-dashboard/internal/model"
	"rodent-dashboard/internal/socrata"
)

// timestampLayouts are tried in order. The dataset emits floating
// timestamps with milliseconds; the bare form is accepted so re-encoded
// records normalize identically.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// monthAbbrevs is a fixed English table so month labels never depend on
// process locale.
var monthAbbrevs = [13]string{"",
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func MonthAbbrev(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthAbbrevs[month]
}

type Result struct {
	Records []model.NormalizedRecord
	Dropped int
}

// Rows normalizes a raw payload. Rows with unparsable timestamps are
// dropped and counted, never silently discarded. One-sided coordinates are
// treated as absent on both sides. Normalization is idempotent: a payload
// re-encoded from the output normalizes to the same records with zero
// drops.
func Rows(payload socrata.RawPayload) Result {
	records := make([]model.NormalizedRecord, 0, len(payload))
	dropped := 0

	for _, row := range payload {
		inspectedAt, ok := parseTimestamp(deref(row.InspectionDate))
		if !ok {
			dropped++
			continue
		}

		record := model.NormalizedRecord{
			InspectedAt:    inspectedAt,
			Year:           inspectedAt.Year(),
			Month:          int(inspectedAt.Month()),
			MonthName:      MonthAbbrev(int(inspectedAt.Month())),
			YearMonth:      fmt.Sprintf("%04d-%02d", inspectedAt.Year(), int(inspectedAt.Month())),
			Borough:        model.ParseBorough(deref(row.Borough)),
			Result:         model.ParseResult(deref(row.Result)),
			InspectionType: deref(row.InspectionType),
			ZipCode:        deref(row.ZipCode),
			NTA:            deref(row.NTA),
		}

		if lat, lon, ok := parseCoordinates(row.Latitude, row.Longitude); ok {
			record.Latitude = &lat
			record.Longitude = &lon
		}

		records = append(records, record)
	}

	metrics.RowsDropped.Add(float64(dropped))
	return Result{Records: records, Dropped: dropped}
}

func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseCoordinates returns a coordinate pair only when both fields parse;
// a one-sided pair is reported absent.
func parseCoordinates(latRaw, lonRaw *string) (float64, float64, bool) {
	if latRaw == nil || lonRaw == nil {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(*latRaw, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(*lonRaw, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
