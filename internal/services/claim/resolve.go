package claim

import (
	"sort"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Rank orders claims best first: priority, then seat distance, then
// submission time, then sequence. The result does not depend on the
// order claims were passed in.
func Rank(claims []model.ClaimRecord) []model.ClaimRecord {
	out := append([]model.ClaimRecord(nil), claims...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Outranks(out[j]) })
	return out
}

// Select returns the winning claim among those not excluded
func Select(claims []model.ClaimRecord, excluded map[int]bool) (model.ClaimRecord, bool) {
	var best model.ClaimRecord
	found := false
	for _, c := range claims {
		if excluded[c.Sequence] {
			continue
		}
		if !found || c.Outranks(best) {
			best = c
			found = true
		}
	}
	return best, found
}
