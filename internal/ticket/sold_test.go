package ticket

import (
	"context"
	"errors"
	"testing"
)

type fakeSoldSource struct {
	codes map[string][]int64
	err   error
}

func (f *fakeSoldSource) ListSoldCodes(ctx context.Context, gameKey string) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.codes[gameKey], nil
}

func TestSoldIndexMembership(t *testing.T) {
	src := &fakeSoldSource{codes: map[string][]int64{
		"lot-set": {661000, 661112, 663500},
	}}
	idx, err := LoadSoldIndex(context.Background(), src, "lot-set")
	if err != nil {
		t.Fatalf("LoadSoldIndex failed: %v", err)
	}

	for _, c := range []int64{661000, 661112, 663500} {
		if !idx.IsSold(c) {
			t.Errorf("Code %d should be sold", c)
		}
	}
	for _, c := range []int64{661001, 667214, 0} {
		if idx.IsSold(c) {
			t.Errorf("Code %d should not be sold", c)
		}
	}
	if idx.Len() != 3 {
		t.Errorf("Len=%d want 3", idx.Len())
	}
}

// A game with no purchases yet loads as an empty set: every membership
// test is false.
func TestSoldIndexEmptyGame(t *testing.T) {
	src := &fakeSoldSource{codes: map[string][]int64{}}
	idx, err := LoadSoldIndex(context.Background(), src, "king-queen")
	if err != nil {
		t.Fatalf("LoadSoldIndex failed: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Expected empty index, Len=%d", idx.Len())
	}
	if idx.IsSold(661000) {
		t.Errorf("Empty index reported a sold code")
	}
}

func TestSoldIndexPropagatesError(t *testing.T) {
	src := &fakeSoldSource{err: errors.New("store unavailable")}
	if _, err := LoadSoldIndex(context.Background(), src, "lot-set"); err == nil {
		t.Errorf("Expected error from failing source")
	}
}
