package engine

// FullCircle is the number of degrees in one turn of the wheel.
const FullCircle = 360.0

// Segment is the arc assigned to one item. Probability angles are proportional
// to weight; display angles are what gets drawn and are equal for every item
// when weights are hidden.
type Segment struct {
	Item             Item    `json:"item"`
	ProbabilityStart float64 `json:"probabilityStart"`
	ProbabilityEnd   float64 `json:"probabilityEnd"`
	DisplayStart     float64 `json:"displayStart"`
	DisplayEnd       float64 `json:"displayEnd"`
}

// DisplayWidth returns the drawn arc size in degrees.
func (s Segment) DisplayWidth() float64 {
	return s.DisplayEnd - s.DisplayStart
}

// DisplayMidpoint returns the angle halfway through the drawn arc.
func (s Segment) DisplayMidpoint() float64 {
	return (s.DisplayStart + s.DisplayEnd) / 2
}

// Layout partitions the full circle into one segment per item, in input order.
//
// Both angle sets start at 0, are gapless and end exactly at 360; the last
// segment absorbs any rounding remainder. Segment i always belongs to items[i].
// When no item has a positive weight the probability arcs are split equally.
func Layout(items []Item, hideWeights bool) []Segment {
	n := len(items)
	if n == 0 {
		return []Segment{}
	}

	total := TotalWeight(items)
	equal := FullCircle / float64(n)

	segments := make([]Segment, n)
	var angle, displayAngle float64
	for i, it := range items {
		size := equal
		if total > 0 {
			size = 0
			if it.drawable() {
				size = FullCircle * it.Weight / total
			}
		}

		start := angle
		end := angle + size
		if i == n-1 {
			end = FullCircle
		}
		angle = end

		displayStart, displayEnd := start, end
		if hideWeights {
			displayStart = displayAngle
			displayEnd = displayAngle + equal
			if i == n-1 {
				displayEnd = FullCircle
			}
			displayAngle = displayEnd
		}

		segments[i] = Segment{
			Item:             it,
			ProbabilityStart: start,
			ProbabilityEnd:   end,
			DisplayStart:     displayStart,
			DisplayEnd:       displayEnd,
		}
	}
	return segments
}

// Repeat repeats the whole item list until it holds at least minSegments
// entries. Only complete cycles are added, so each item keeps its share of
// the total weight.
func Repeat(items []Item, minSegments int) []Item {
	if len(items) == 0 || len(items) >= minSegments {
		return items
	}
	cycles := (minSegments + len(items) - 1) / len(items)
	out := make([]Item, 0, cycles*len(items))
	for c := 0; c < cycles; c++ {
		out = append(out, items...)
	}
	return out
}
