package housing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/mmynk/roomdraw/internal/models"
)

// ShuffleRandomizer orders entrants with a uniform shuffle.
type ShuffleRandomizer struct {
	rng *rand.Rand
}

// NewShuffleRandomizer returns a randomizer seeded from the runtime's
// random source.
func NewShuffleRandomizer() *ShuffleRandomizer {
	return &ShuffleRandomizer{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededRandomizer returns a randomizer that produces the same order for
// the same seed.
func NewSeededRandomizer(seed uint64) *ShuffleRandomizer {
	return &ShuffleRandomizer{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Order implements LotteryRandomizer.
func (r *ShuffleRandomizer) Order(_ context.Context, entrants []models.Entrant) ([]models.Entrant, error) {
	out := slices.Clone(entrants)
	r.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

// Rank asks the randomizer for an order over entrants and returns each
// entrant's lottery number, starting at 1. The randomizer must return a
// permutation of its input.
func Rank(ctx context.Context, r LotteryRandomizer, entrants []models.Entrant) (map[string]int, error) {
	ordered, err := r.Order(ctx, entrants)
	if err != nil {
		return nil, fmt.Errorf("failed to order entrants: %w", err)
	}
	if len(ordered) != len(entrants) {
		return nil, fmt.Errorf("randomizer returned %d entrants, want %d", len(ordered), len(entrants))
	}

	want := make(map[string]bool, len(entrants))
	for _, e := range entrants {
		want[e.Key()] = true
	}

	ranks := make(map[string]int, len(ordered))
	for i, e := range ordered {
		key := e.Key()
		if !want[key] {
			return nil, fmt.Errorf("randomizer returned unknown entrant %s", key)
		}
		if _, dup := ranks[key]; dup {
			return nil, fmt.Errorf("randomizer returned %s twice", key)
		}
		ranks[key] = i + 1
	}
	return ranks, nil
}
