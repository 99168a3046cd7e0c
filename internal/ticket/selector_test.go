package ticket

import "testing"

func TestToggleAddsAndRemoves(t *testing.T) {
	s := NewSelector()
	s.Toggle(7)
	s.Toggle(42)
	if got := s.Numbers(); len(got) != 2 || got[0] != 7 || got[1] != 42 {
		t.Errorf("Unexpected picks after two toggles: %v", got)
	}

	// Toggling an existing pick removes it
	s.Toggle(7)
	if got := s.Numbers(); len(got) != 1 || got[0] != 42 {
		t.Errorf("Toggle did not remove existing pick: %v", got)
	}
}

func TestToggleSaturatesAtCap(t *testing.T) {
	s := NewSelector()
	for _, n := range []int{1, 2, 3, 4, 5} {
		s.Toggle(n)
	}
	if !s.Complete() {
		t.Fatalf("Selection should be complete with 5 picks, has %d", s.Count())
	}

	// Sixth number is a silent no-op
	s.Toggle(6)
	if s.Count() != MaxPicks {
		t.Errorf("Selection grew past cap: %d", s.Count())
	}

	// But removing one of the capped picks still works
	s.Toggle(3)
	if s.Count() != 4 {
		t.Errorf("Expected 4 picks after removing one, got %d", s.Count())
	}
}

func TestToggleIgnoresOutOfRange(t *testing.T) {
	s := NewSelector()
	s.Toggle(0)
	s.Toggle(101)
	s.Toggle(-5)
	if s.Count() != 0 {
		t.Errorf("Out-of-range numbers were accepted: %v", s.Numbers())
	}
}

// Invariant check across an arbitrary toggle sequence: size stays in [0,5]
// and no number appears twice.
func TestToggleSequenceKeepsInvariants(t *testing.T) {
	s := NewSelector()
	seq := []int{3, 3, 17, 99, 1, 100, 42, 17, 8, 8, 8, 55, 2, 99, 61, 3}
	for _, n := range seq {
		s.Toggle(n)

		if s.Count() > MaxPicks {
			t.Fatalf("Selection exceeded cap after toggling %d: %v", n, s.Numbers())
		}
		seen := map[int]bool{}
		for _, p := range s.Numbers() {
			if seen[p] {
				t.Fatalf("Duplicate pick %d after toggling %d: %v", p, n, s.Numbers())
			}
			seen[p] = true
		}
	}
}

func TestReset(t *testing.T) {
	s := NewSelectorFrom([]int{10, 20, 30})
	s.Reset()
	if s.Count() != 0 {
		t.Errorf("Reset left picks behind: %v", s.Numbers())
	}
}

func TestNewSelectorFromDropsInvalid(t *testing.T) {
	s := NewSelectorFrom([]int{5, 5, 0, 200, 9, 8, 7, 6, 4})
	got := s.Numbers()
	// 5 toggled twice cancels out; 0 and 200 dropped; cap applies after that
	want := []int{9, 8, 7, 6, 4}
	if len(got) != len(want) {
		t.Fatalf("Unexpected restored picks: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pick %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestValidPicks(t *testing.T) {
	cases := []struct {
		name  string
		picks []int
		want  bool
	}{
		{"complete", []int{1, 50, 99, 100, 2}, true},
		{"too few", []int{1, 2, 3, 4}, false},
		{"too many", []int{1, 2, 3, 4, 5, 6}, false},
		{"duplicate", []int{1, 2, 3, 4, 4}, false},
		{"out of range", []int{1, 2, 3, 4, 101}, false},
		{"zero", []int{0, 2, 3, 4, 5}, false},
	}
	for _, tc := range cases {
		if got := ValidPicks(tc.picks); got != tc.want {
			t.Errorf("%s: ValidPicks(%v)=%v want %v", tc.name, tc.picks, got, tc.want)
		}
	}
}
