package engine

// Shuffle returns a uniformly random permutation of a copy of s (Fisher-Yates).
func Shuffle[T any](src Source, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DrawWinners picks min(k, len(participants)) distinct participants, every
// participant being equally likely to win.
func DrawWinners[T any](src Source, participants []T, k int) ([]T, error) {
	if len(participants) == 0 {
		return nil, ErrEmptySelection
	}
	if k < 1 {
		return nil, &InvalidCountError{Count: k}
	}
	if k > len(participants) {
		k = len(participants)
	}
	return Shuffle(src, participants)[:k], nil
}
