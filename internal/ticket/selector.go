package ticket

// Selection bounds for one ticket
const (
	MaxPicks  = 5
	MinNumber = 1
	MaxNumber = 100
)

// Selector tracks the numbers a buyer has picked for one ticket.
// Picks keep insertion order, never repeat, and cap at MaxPicks.
type Selector struct {
	picks []int
}

// NewSelector returns an empty selector
func NewSelector() *Selector {
	return &Selector{}
}

// NewSelectorFrom restores a selector from persisted picks. Out-of-range
// values, duplicates and anything beyond the cap are dropped.
func NewSelectorFrom(picks []int) *Selector {
	s := NewSelector()
	for _, n := range picks {
		s.Toggle(n)
	}
	return s
}

// Toggle removes n if already picked, adds it if there is room, and does
// nothing when the selection is full. Numbers outside [MinNumber, MaxNumber]
// are ignored.
func (s *Selector) Toggle(n int) {
	if n < MinNumber || n > MaxNumber {
		return
	}
	for i, p := range s.picks {
		if p == n {
			s.picks = append(s.picks[:i], s.picks[i+1:]...)
			return
		}
	}
	if len(s.picks) >= MaxPicks {
		return
	}
	s.picks = append(s.picks, n)
}

// Reset clears the selection
func (s *Selector) Reset() {
	s.picks = s.picks[:0]
}

// Numbers returns the current picks in the order they were chosen
func (s *Selector) Numbers() []int {
	out := make([]int, len(s.picks))
	copy(out, s.picks)
	return out
}

// Count returns how many numbers are picked
func (s *Selector) Count() int {
	return len(s.picks)
}

// Complete reports whether exactly MaxPicks numbers are chosen. Code
// generation is only offered once the selection is complete.
func (s *Selector) Complete() bool {
	return len(s.picks) == MaxPicks
}

// ValidPicks reports whether picks form a complete, distinct, in-range
// selection. Used to validate purchase requests server-side.
func ValidPicks(picks []int) bool {
	if len(picks) != MaxPicks {
		return false
	}
	seen := make(map[int]bool, len(picks))
	for _, n := range picks {
		if n < MinNumber || n > MaxNumber || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}
