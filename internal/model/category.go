package model

import "strings"

type Borough string

const (
	BoroughManhattan    Borough = "MANHATTAN"
	BoroughBrooklyn     Borough = "BROOKLYN"
	BoroughBronx        Borough = "BRONX"
	BoroughQueens       Borough = "QUEENS"
	BoroughStatenIsland Borough = "STATEN ISLAND"
	BoroughUnknown      Borough = "Unknown"
)

var knownBoroughs = []Borough{
	BoroughManhattan,
	BoroughBrooklyn,
	BoroughBronx,
	BoroughQueens,
	BoroughStatenIsland,
}

func KnownBoroughs() []Borough {
	out := make([]Borough, len(knownBoroughs))
	copy(out, knownBoroughs)
	return out
}

// ParseBorough canonicalizes a wire label; anything outside the five
// boroughs collapses to BoroughUnknown.
func ParseBorough(raw string) Borough {
	candidate := Borough(strings.ToUpper(strings.TrimSpace(raw)))
	for _, b := range knownBoroughs {
		if candidate == b {
			return b
		}
	}
	return BoroughUnknown
}

type Result string

const (
	ResultActiveRatSigns    Result = "Active Rat Signs"
	ResultProblemConditions Result = "Problem Conditions"
	ResultPassed            Result = "Passed"
	ResultFailedForOther    Result = "Failed for Other R"
	ResultBaitApplied       Result = "Bait applied"
	ResultMonitoringVisit   Result = "Monitoring visit"
	ResultCleanupDone       Result = "Cleanup done"
	ResultUnknown           Result = "Unknown"
)

var knownResults = []Result{
	ResultActiveRatSigns,
	ResultProblemConditions,
	ResultPassed,
	ResultFailedForOther,
	ResultBaitApplied,
	ResultMonitoringVisit,
	ResultCleanupDone,
}

func KnownResults() []Result {
	out := make([]Result, len(knownResults))
	copy(out, knownResults)
	return out
}

func ParseResult(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	for _, r := range knownResults {
		if strings.EqualFold(trimmed, string(r)) {
			return r
		}
	}
	return ResultUnknown
}
