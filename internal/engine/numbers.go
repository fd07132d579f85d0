package engine

import "sort"

const (
	// MaxCount caps how many numbers one draw may return.
	MaxCount = 100
	// MaxNumber bounds Min and Max so the span stays exact in a float64 draw.
	MaxNumber = 1<<52 - 1
)

// NumberRequest describes an integer-range draw.
type NumberRequest struct {
	Min            int
	Max            int
	Count          int
	AllowDuplicate bool
	Ordered        bool
}

// DrawNumbers draws Count integers uniformly from [Min, Max]. Count is at most
// MaxCount and both bounds lie within ±MaxNumber.
//
// Without AllowDuplicate, values already drawn are rejected and resampled.
// All validation happens before the first random number is drawn.
func DrawNumbers(src Source, req NumberRequest) ([]int, error) {
	if req.Min > req.Max || int64(req.Min) < -MaxNumber || int64(req.Max) > MaxNumber {
		return nil, &InvalidRangeError{Min: req.Min, Max: req.Max}
	}
	if req.Count < 1 || req.Count > MaxCount {
		return nil, &InvalidCountError{Count: req.Count, Max: MaxCount}
	}
	span := int64(req.Max) - int64(req.Min) + 1
	if !req.AllowDuplicate && span < int64(req.Count) {
		return nil, &RangeExhaustedError{Count: req.Count, Available: int(span)}
	}

	results := make([]int, 0, req.Count)
	var used map[int]struct{}
	if !req.AllowDuplicate {
		used = make(map[int]struct{}, req.Count)
	}

	for len(results) < req.Count {
		n := int(int64(req.Min) + int64n(src, span))
		if used != nil {
			if _, seen := used[n]; seen {
				continue
			}
			used[n] = struct{}{}
		}
		results = append(results, n)
	}

	if req.Ordered {
		sort.Ints(results)
	}
	return results, nil
}
