package socrata

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"rodent-dashboard/internal/model"
)

const (
	ColumnBorough        = "borough"
	ColumnResult         = "result"
	ColumnInspectionDate = "inspection_date"
	ColumnInspectionType = "inspection_type"
	ColumnZipCode        = "zip_code"
	ColumnNTA            = "nta"
	ColumnLatitude       = "latitude"
	ColumnLongitude      = "longitude"
)

// WireParams is the SoQL encoding of a QuerySpec. Where clauses are kept as
// an ordered slice and joined with AND at encode time.
type WireParams struct {
	Select []string
	Where  []string
	Order  string
	Limit  int
}

func (p WireParams) Values() url.Values {
	values := url.Values{}
	values.Set("$select", strings.Join(p.Select, ","))
	if len(p.Where) > 0 {
		values.Set("$where", strings.Join(p.Where, " AND "))
	}
	values.Set("$order", p.Order)
	values.Set("$limit", strconv.Itoa(p.Limit))
	return values
}

// Encode returns the canonical signature of the params: url.Values.Encode
// sorts by key, so identical params always encode identically.
func (p WireParams) Encode() string {
	return p.Values().Encode()
}

type Bounds struct {
	YearMin int
	YearMax int
}

// BuildQuery translates a QuerySpec into SoQL wire parameters. Pure: valid
// input never fails, invalid input fails with ErrInvalidSpec.
func BuildQuery(spec model.QuerySpec, bounds Bounds) (WireParams, error) {
	if spec.Limit <= 0 {
		return WireParams{}, fmt.Errorf("%w: limit %d must be positive", ErrInvalidSpec, spec.Limit)
	}
	if spec.YearFrom > spec.YearTo {
		return WireParams{}, fmt.Errorf("%w: year range %d-%d is inverted", ErrInvalidSpec, spec.YearFrom, spec.YearTo)
	}
	if spec.YearFrom < bounds.YearMin || spec.YearTo > bounds.YearMax {
		return WireParams{}, fmt.Errorf("%w: year range %d-%d outside dataset span %d-%d",
			ErrInvalidSpec, spec.YearFrom, spec.YearTo, bounds.YearMin, bounds.YearMax)
	}

	columns := []string{
		ColumnBorough,
		ColumnResult,
		ColumnInspectionDate,
		ColumnInspectionType,
		ColumnZipCode,
		ColumnNTA,
	}

	where := []string{
		fmt.Sprintf("%s between '%d-01-01T00:00:00.000' and '%d-12-31T23:59:59.999'",
			ColumnInspectionDate, spec.YearFrom, spec.YearTo),
	}

	if spec.WithCoordinates {
		columns = append(columns, ColumnLatitude, ColumnLongitude)
		where = append(where,
			ColumnLatitude+" is not null",
			ColumnLongitude+" is not null",
		)
	}

	if clause := membershipClause(ColumnBorough, boroughLabels(spec.Boroughs)); clause != "" {
		where = append(where, clause)
	}
	if clause := membershipClause(ColumnResult, resultLabels(spec.Results)); clause != "" {
		where = append(where, clause)
	}

	for _, predicate := range spec.Predicates {
		if trimmed := strings.TrimSpace(predicate); trimmed != "" {
			where = append(where, trimmed)
		}
	}

	return WireParams{
		Select: columns,
		Where:  where,
		Order:  ColumnInspectionDate + " DESC",
		Limit:  spec.Limit,
	}, nil
}

func boroughLabels(boroughs []model.Borough) []string {
	labels := make([]string, 0, len(boroughs))
	for _, b := range boroughs {
		labels = append(labels, string(b))
	}
	return labels
}

func resultLabels(results []model.Result) []string {
	labels := make([]string, 0, len(results))
	for _, r := range results {
		labels = append(labels, string(r))
	}
	return labels
}

// membershipClause renders equality for one value and `in (...)` for
// several, matching case-insensitively the way the upstream dataset stores
// labels.
func membershipClause(column string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		return fmt.Sprintf("upper(%s) = %s", column, quoteLiteral(strings.ToUpper(values[0])))
	}
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, quoteLiteral(strings.ToUpper(v)))
	}
	return fmt.Sprintf("upper(%s) in (%s)", column, strings.Join(quoted, ","))
}

// quoteLiteral escapes embedded single quotes so user-supplied labels cannot
// break out of the SoQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
