// Package aggregate derives grouped-count views from normalized records.
// Everything here is pure and deterministic.
package aggregate

import (
	"sort"
	"strconv"

	"rodent-dashboard/internal/model"
	"rodent-dashboard/internal/normalize"
)

// Order declares how the buckets of a single-dimension view are sorted.
type Order int

const (
	// OrderCountDesc sorts by descending count, ties broken by key, for
	// free-form categorical dimensions.
	OrderCountDesc Order = iota
	// OrderMonth sorts by calendar month, Jan through Dec.
	OrderMonth
	// OrderYearAsc sorts numeric year keys ascending.
	OrderYearAsc
)

type KeyFunc func(model.NormalizedRecord) string

func BoroughKey(r model.NormalizedRecord) string { return string(r.Borough) }
func ResultKey(r model.NormalizedRecord) string  { return string(r.Result) }
func MonthKey(r model.NormalizedRecord) string   { return r.MonthName }
func YearKey(r model.NormalizedRecord) string    { return strconv.Itoa(r.Year) }

// CountBy counts records per key value and orders the buckets as declared
// by the caller.
func CountBy(records []model.NormalizedRecord, dimension string, keyFn KeyFunc, order Order) model.AggregateView {
	counts := make(map[string]int64)
	for _, r := range records {
		counts[keyFn(r)]++
	}

	buckets := make([]model.AggregateBucket, 0, len(counts))
	var total int64
	for key, count := range counts {
		buckets = append(buckets, model.AggregateBucket{Key: key, Count: count})
		total += count
	}

	switch order {
	case OrderMonth:
		sort.Slice(buckets, func(i, j int) bool {
			return monthIndex(buckets[i].Key) < monthIndex(buckets[j].Key)
		})
	case OrderYearAsc:
		sort.Slice(buckets, func(i, j int) bool {
			yi, _ := strconv.Atoi(buckets[i].Key)
			yj, _ := strconv.Atoi(buckets[j].Key)
			return yi < yj
		})
	default:
		sortByCountDesc(buckets)
	}

	return model.AggregateView{Dimension: dimension, Buckets: buckets, Total: total}
}

// CrossTab counts the row × column cross-product. When the column dimension
// has more than topK values, the ones outside the top K by total volume are
// collapsed into a single "Other" column; the collapsed view's total always
// equals the uncollapsed total. topK <= 0 disables the collapse.
func CrossTab(records []model.NormalizedRecord, rowDim, colDim string, rowFn, colFn KeyFunc, topK int) model.CrossTabView {
	cells := make(map[string]map[string]int64)
	colTotals := make(map[string]int64)
	var total int64

	for _, r := range records {
		rowKey, colKey := rowFn(r), colFn(r)
		if cells[rowKey] == nil {
			cells[rowKey] = make(map[string]int64)
		}
		cells[rowKey][colKey]++
		colTotals[colKey]++
		total++
	}

	columns, collapsed := selectColumns(colTotals, topK)

	rows := make([]model.CrossTabRow, 0, len(cells))
	for rowKey, rowCells := range cells {
		row := model.CrossTabRow{Key: rowKey}
		var other int64
		kept := make(map[string]int64, len(columns))
		for colKey, count := range rowCells {
			if collapsed[colKey] {
				other += count
			} else {
				kept[colKey] = count
			}
			row.Total += count
		}
		for _, col := range columns {
			if col == model.OtherBucket {
				row.Cells = append(row.Cells, model.AggregateBucket{Key: model.OtherBucket, Count: other})
				continue
			}
			row.Cells = append(row.Cells, model.AggregateBucket{Key: col, Count: kept[col]})
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Key < rows[j].Key
	})

	return model.CrossTabView{
		RowDimension:    rowDim,
		ColumnDimension: colDim,
		Columns:         columns,
		Rows:            rows,
		Total:           total,
	}
}

// selectColumns picks the retained column order (by descending total, ties
// by key) and reports which columns fold into "Other".
func selectColumns(colTotals map[string]int64, topK int) ([]string, map[string]bool) {
	ranked := make([]model.AggregateBucket, 0, len(colTotals))
	for key, count := range colTotals {
		ranked = append(ranked, model.AggregateBucket{Key: key, Count: count})
	}
	sortByCountDesc(ranked)

	collapsed := make(map[string]bool)
	if topK <= 0 || len(ranked) <= topK {
		columns := make([]string, 0, len(ranked))
		for _, b := range ranked {
			columns = append(columns, b.Key)
		}
		return columns, collapsed
	}

	columns := make([]string, 0, topK+1)
	for i, b := range ranked {
		if i < topK {
			columns = append(columns, b.Key)
			continue
		}
		collapsed[b.Key] = true
	}
	columns = append(columns, model.OtherBucket)
	return columns, collapsed
}

func sortByCountDesc(buckets []model.AggregateBucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
}

func monthIndex(abbrev string) int {
	for i := 1; i <= 12; i++ {
		if normalize.MonthAbbrev(i) == abbrev {
			return i
		}
	}
	return 13
}
