// Package sample selects a bounded, reproducible subset of geocoded
// records for map rendering.
package sample

import (
	"math/rand"
	"sort"

	"rodent-dashboard/internal/model"
)

// Records returns at most bound geocoded records. Inputs at or under the
// bound pass through unchanged. Larger inputs are cut down by a selection
// seeded with seed, so identical (records, bound, seed) arguments always
// produce the identical subset regardless of process or platform. Selected
// records keep their input order.
func Records(records []model.NormalizedRecord, bound int, seed int64) model.SampleSet {
	eligible := make([]model.NormalizedRecord, 0, len(records))
	for _, r := range records {
		if r.HasCoordinates() {
			eligible = append(eligible, r)
		}
	}

	set := model.SampleSet{Eligible: len(eligible), Bound: bound, Seed: seed}

	if bound <= 0 {
		set.Records = []model.NormalizedRecord{}
		return set
	}
	if len(eligible) <= bound {
		set.Records = eligible
		return set
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(len(eligible))[:bound]
	sort.Ints(indices)

	selected := make([]model.NormalizedRecord, 0, bound)
	for _, i := range indices {
		selected = append(selected, eligible[i])
	}
	set.Records = selected
	return set
}
