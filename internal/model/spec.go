package model

// QuerySpec is the caller-declared filter and limit intent for one fetch.
// It is built once per request, passed by value, and never mutated after
// Clamp.
type QuerySpec struct {
	Limit           int
	YearFrom        int
	YearTo          int
	Boroughs        []Borough
	Results         []Result
	Predicates      []string
	WithCoordinates bool
}

type SpecDefaults struct {
	Limit    int
	MaxLimit int
	YearFrom int
	YearTo   int
}

// Clamp fills zero-valued fields from defaults and caps the limit. It does
// not repair invalid combinations; those are rejected by the query builder.
func (s QuerySpec) Clamp(d SpecDefaults) QuerySpec {
	if s.Limit == 0 {
		s.Limit = d.Limit
	}
	if d.MaxLimit > 0 && s.Limit > d.MaxLimit {
		s.Limit = d.MaxLimit
	}
	if s.YearFrom == 0 {
		s.YearFrom = d.YearFrom
	}
	if s.YearTo == 0 {
		s.YearTo = d.YearTo
	}
	return s
}
