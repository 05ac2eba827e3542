package engine

// FiftyMoveThreshold is the half-move count at which a draw may be claimed.
const FiftyMoveThreshold = 99

// FiftyMoveCounter counts half-moves since the last pawn move or capture.
type FiftyMoveCounter struct {
	count int
}

// Update advances the counter for one half-move.
func (f *FiftyMoveCounter) Update(pawnMove, capture bool) {
	if pawnMove || capture {
		f.count = 0
		return
	}
	f.count++
}

func (f *FiftyMoveCounter) Count() int { return f.count }

// IsDrawReached reports whether the counter has reached the claim threshold.
func (f *FiftyMoveCounter) IsDrawReached() bool {
	return f.count >= FiftyMoveThreshold
}

func (f *FiftyMoveCounter) Reset() { f.count = 0 }

func (f *FiftyMoveCounter) set(n int) { f.count = n }
