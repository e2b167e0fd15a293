package housing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/roomdraw/internal/models"
)

type fixedRandomizer struct {
	order []models.Entrant
}

func (r fixedRandomizer) Order(context.Context, []models.Entrant) ([]models.Entrant, error) {
	return r.order, nil
}

func TestRankAssignsConsecutiveNumbers(t *testing.T) {
	entrants := []models.Entrant{
		{GroupID: "g1"}, {GroupID: "g2"}, {StudentID: "s1"}, {StudentID: "s2"},
	}
	ranks, err := Rank(context.Background(), NewSeededRandomizer(42), entrants)
	require.NoError(t, err)
	require.Len(t, ranks, len(entrants))

	seen := map[int]bool{}
	for _, e := range entrants {
		n, ok := ranks[e.Key()]
		require.True(t, ok, "missing rank for %s", e.Key())
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, len(entrants))
		seen[n] = true
	}
	assert.Len(t, seen, len(entrants))
}

func TestSeededRandomizerIsDeterministic(t *testing.T) {
	entrants := []models.Entrant{{GroupID: "a"}, {GroupID: "b"}, {GroupID: "c"}, {StudentID: "d"}}
	first, err := NewSeededRandomizer(7).Order(context.Background(), entrants)
	require.NoError(t, err)
	second, err := NewSeededRandomizer(7).Order(context.Background(), entrants)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, entrants, first)
}

func TestRankRejectsNonPermutation(t *testing.T) {
	entrants := []models.Entrant{{GroupID: "a"}, {GroupID: "b"}}
	tests := []struct {
		name  string
		order []models.Entrant
	}{
		{"short", []models.Entrant{{GroupID: "a"}}},
		{"duplicate", []models.Entrant{{GroupID: "a"}, {GroupID: "a"}}},
		{"unknown", []models.Entrant{{GroupID: "a"}, {StudentID: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rank(context.Background(), fixedRandomizer{order: tt.order}, entrants)
			assert.Error(t, err)
		})
	}
}

func TestRankFollowsRandomizerOrder(t *testing.T) {
	entrants := []models.Entrant{{GroupID: "a"}, {StudentID: "b"}}
	r := fixedRandomizer{order: []models.Entrant{{StudentID: "b"}, {GroupID: "a"}}}
	ranks, err := Rank(context.Background(), r, entrants)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"student:b": 1, "group:a": 2}, ranks)
}
