package ticket

import "context"

// SoldSource lists the codes already purchased for a game. A game nothing
// has been bought from yields an empty list, not an error.
type SoldSource interface {
	ListSoldCodes(ctx context.Context, gameKey string) ([]int64, error)
}

// SoldIndex is a read-only snapshot of the sold codes for one game,
// loaded once per request and queried for membership.
type SoldIndex struct {
	gameKey string
	codes   map[int64]struct{}
}

// LoadSoldIndex fetches the sold set for gameKey from src
func LoadSoldIndex(ctx context.Context, src SoldSource, gameKey string) (*SoldIndex, error) {
	codes, err := src.ListSoldCodes(ctx, gameKey)
	if err != nil {
		return nil, err
	}
	return NewSoldIndexFrom(gameKey, codes), nil
}

// NewSoldIndexFrom builds a snapshot from an already-fetched code list
func NewSoldIndexFrom(gameKey string, codes []int64) *SoldIndex {
	idx := &SoldIndex{gameKey: gameKey, codes: make(map[int64]struct{}, len(codes))}
	for _, c := range codes {
		idx.codes[c] = struct{}{}
	}
	return idx
}

// IsSold reports whether code is in the loaded snapshot
func (i *SoldIndex) IsSold(code int64) bool {
	_, ok := i.codes[code]
	return ok
}

// Len returns how many codes are sold
func (i *SoldIndex) Len() int {
	return len(i.codes)
}

// GameKey returns the game this snapshot was loaded for
func (i *SoldIndex) GameKey() string {
	return i.gameKey
}
