package engine

import "math"

const (
	// MinFullSpins is the fewest whole turns a spin makes.
	MinFullSpins = 5
	// MaxExtraSpins is how many more whole turns may be added at random.
	MaxExtraSpins = 2
	// MaxJitter bounds the cosmetic offset in degrees.
	MaxJitter = 10.0
	// jitterShare is the fraction of half the arc width jitter may use.
	jitterShare = 0.8
)

// Rotation is how far to turn the wheel so the fixed pointer at 0 degrees
// comes to rest on a segment.
type Rotation struct {
	FullSpins int     `json:"fullSpins"`
	Midpoint  float64 `json:"midpoint"`
	Jitter    float64 `json:"jitter"`
	Total     float64 `json:"total"`
}

// RotationTarget computes the rotation that lands the pointer on seg.
//
// The rest angle is the midpoint of the display arc. Jitter is bounded by the
// arc's half width so the pointer never leaves the segment; it has no effect on
// which item won.
func RotationTarget(src Source, seg Segment) Rotation {
	mid := seg.DisplayMidpoint()
	spins := MinFullSpins + intn(src, MaxExtraSpins+1)

	bound := math.Min(MaxJitter, seg.DisplayWidth()/2*jitterShare)
	if bound < 0 {
		bound = 0
	}
	jitter := (src.Float64()*2 - 1) * bound

	return Rotation{
		FullSpins: spins,
		Midpoint:  mid,
		Jitter:    jitter,
		Total:     FullCircle*float64(spins) + (FullCircle - mid) + jitter,
	}
}

// PointerAngle returns the wheel angle sitting under the pointer after the
// wheel has been turned clockwise by total degrees.
func PointerAngle(total float64) float64 {
	a := math.Mod(-total, FullCircle)
	if a < 0 {
		a += FullCircle
	}
	return a
}
