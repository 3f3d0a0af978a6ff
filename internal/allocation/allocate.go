// Package allocation distributes an integer budget across weighted categories
// using largest-remainder apportionment.
package allocation

import (
	"math"
	"sort"

	"prepline/internal/common/errors"
)

// Allocate splits total units across the weight vector. Guarantees:
//
//   - the returned vector has the same length as weights
//   - the entries sum to exactly total
//   - every entry with weight > 0 receives at least minimum units
//   - entries with weight 0 receive exactly 0, regardless of the floor
//
// Negative or all-zero weights yield a DegenerateInputError; a total too small
// to cover minimum*activeCount yields a ConstraintError. Ties on fractional
// remainder are broken by input order, so identical inputs always produce
// identical output.
func Allocate(weights []float64, total, minimum int) ([]int, error) {
	if len(weights) == 0 {
		return nil, &errors.DegenerateInputError{Reason: "empty weight vector"}
	}

	weightSum := 0.0
	active := 0
	for _, w := range weights {
		if w < 0 {
			return nil, &errors.DegenerateInputError{Reason: "negative weight"}
		}
		if w > 0 {
			active++
			weightSum += w
		}
	}

	if active == 0 {
		if total == 0 {
			return make([]int, len(weights)), nil
		}
		return nil, &errors.DegenerateInputError{Reason: "all weights are zero"}
	}

	if total < minimum*active {
		return nil, &errors.ConstraintError{Total: total, Minimum: minimum, ActiveCount: active}
	}

	// Reserve the floor for every active entry, then apportion the remainder
	// proportionally.
	allocation := make([]int, len(weights))
	remaining := total - minimum*active
	for i, w := range weights {
		if w > 0 {
			allocation[i] = minimum
		}
	}

	type share struct {
		index     int
		remainder float64
	}

	shares := make([]share, 0, active)
	floorSum := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		exact := float64(remaining) * (w / weightSum)
		floored := int(math.Floor(exact))
		allocation[i] += floored
		floorSum += floored
		shares = append(shares, share{index: i, remainder: exact - float64(floored)})
	}

	// Award the rounding deficit to the entries that lost the most, stable by
	// input order on equal remainders.
	deficit := remaining - floorSum
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].remainder > shares[b].remainder
	})
	for i := 0; i < deficit; i++ {
		allocation[shares[i].index]++
	}

	return allocation, nil
}
