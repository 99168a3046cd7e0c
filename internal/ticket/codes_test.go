package ticket

import "testing"

func lotSetSeeds() []int64 {
	return []int64{661000, 661001, 661011, 661111, 661112, 661122, 661222, 662222}
}

func TestGenerateCodesLotSet(t *testing.T) {
	codes := GenerateCodes(lotSetSeeds(), 5000)

	if len(codes) != 5000 {
		t.Fatalf("Expected 5000 codes, got %d", len(codes))
	}
	checks := map[int]int64{
		0:    661000,
		7:    662222,
		8:    662223,
		4999: 667214,
	}
	for idx, want := range checks {
		if codes[idx] != want {
			t.Errorf("codes[%d]=%d want %d", idx, codes[idx], want)
		}
	}
}

func TestGenerateCodesSeedPrefixAndContinuation(t *testing.T) {
	seeds := lotSetSeeds()
	codes := GenerateCodes(seeds, 100)

	// Seed prefix is kept verbatim, jumps and all
	for i, s := range seeds {
		if codes[i] != s {
			t.Errorf("Seed prefix broken at %d: got %d want %d", i, codes[i], s)
		}
	}

	// After the seeds, codes are strictly consecutive from last(seed)+1
	prev := seeds[len(seeds)-1]
	for i := len(seeds); i < len(codes); i++ {
		if codes[i] != prev+1 {
			t.Fatalf("Gap at index %d: got %d want %d", i, codes[i], prev+1)
		}
		prev = codes[i]
	}
}

func TestGenerateCodesUnique(t *testing.T) {
	codes := GenerateCodes(lotSetSeeds(), 5000)
	seen := make(map[int64]bool, len(codes))
	for _, c := range codes {
		if seen[c] {
			t.Fatalf("Duplicate code %d", c)
		}
		seen[c] = true
	}
}

func TestGenerateCodesTargetSmallerThanSeeds(t *testing.T) {
	codes := GenerateCodes(lotSetSeeds(), 3)
	if len(codes) != 3 {
		t.Fatalf("Expected 3 codes, got %d", len(codes))
	}
	for i, want := range []int64{661000, 661001, 661011} {
		if codes[i] != want {
			t.Errorf("codes[%d]=%d want %d", i, codes[i], want)
		}
	}
}

func TestGenerateCodesEmptySeeds(t *testing.T) {
	codes := GenerateCodes(nil, 4)
	for i, want := range []int64{1, 2, 3, 4} {
		if codes[i] != want {
			t.Errorf("codes[%d]=%d want %d", i, codes[i], want)
		}
	}
}

func TestGenerateCodesDeterministic(t *testing.T) {
	a := GenerateCodes(lotSetSeeds(), 500)
	b := GenerateCodes(lotSetSeeds(), 500)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Generation not deterministic at index %d: %d vs %d", i, a[i], b[i])
		}
	}
}
