// Package engine implements weighted random selection and the wheel segment
// geometry used to animate a pointer onto the selected item.
//
// Everything in this package is a pure function of its inputs and the Source
// passed in. Nothing here touches storage, the clock or the network.
package engine

import (
	"math"
	"math/rand/v2"
)

// Source is a uniform random source in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns a Source backed by the math/rand/v2 global generator.
func DefaultSource() Source {
	return globalSource{}
}

// Item is a labeled option with a relative likelihood.
type Item struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
}

// drawable reports whether the item takes part in sampling.
func (it Item) drawable() bool {
	return it.Weight > 0 && !math.IsInf(it.Weight, 0) && !math.IsNaN(it.Weight)
}

// TotalWeight sums the weights of all drawable items.
func TotalWeight(items []Item) float64 {
	var total float64
	for _, it := range items {
		if it.drawable() {
			total += it.Weight
		}
	}
	return total
}

// Draw returns one item chosen with probability weight/totalWeight.
func Draw(src Source, items []Item) (Item, error) {
	idx, err := DrawIndex(src, items)
	if err != nil {
		return Item{}, err
	}
	return items[idx], nil
}

// DrawIndex is Draw returning the position of the chosen item, so the caller
// can match it to the segment at the same index.
//
// Items with a non-positive or non-finite weight are never chosen. A single
// random number is drawn; when floating point residue leaves the remainder
// positive after the last item, the last drawable item is returned.
func DrawIndex(src Source, items []Item) (int, error) {
	total := TotalWeight(items)
	if len(items) == 0 || total <= 0 {
		return -1, ErrEmptySelection
	}

	r := src.Float64() * total
	last := -1
	for i, it := range items {
		if !it.drawable() {
			continue
		}
		last = i
		r -= it.Weight
		if r <= 0 {
			return i, nil
		}
	}
	return last, nil
}

// CoinSide is one face of a coin.
type CoinSide string

const (
	Heads CoinSide = "heads"
	Tails CoinSide = "tails"
)

var coinFaces = []Item{
	{ID: string(Heads), Label: string(Heads), Weight: 1},
	{ID: string(Tails), Label: string(Tails), Weight: 1},
}

// FlipCoin is a binary draw over two equally weighted faces.
func FlipCoin(src Source) CoinSide {
	idx, _ := DrawIndex(src, coinFaces)
	return CoinSide(coinFaces[idx].ID)
}

// intn maps a uniform float in [0, 1) onto [0, n).
func intn(src Source, n int) int {
	return int(int64n(src, int64(n)))
}

// int64n is intn for spans up to 2^53, where every offset is still exact.
func int64n(src Source, n int64) int64 {
	v := int64(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
