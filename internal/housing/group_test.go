package housing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/roomdraw/internal/models"
)

func TestValidateBasics(t *testing.T) {
	sizes := []int{1, 2, 3}
	tests := []struct {
		name   string
		mutate func(g *models.Group)
		want   Invariant
	}{
		{"zero size", func(g *models.Group) { g.Size = 0 }, InvariantSizePositive},
		{"negative size", func(g *models.Group) { g.Size = -1 }, InvariantSizePositive},
		{"unavailable size", func(g *models.Group) { g.Size = 4 }, InvariantSizeAvailable},
		{"negative transfers", func(g *models.Group) { g.Transfers = -1 }, InvariantTransfers},
		{"missing leader", func(g *models.Group) { g.LeaderID = "" }, InvariantLeaderPresent},
		{"missing status", func(g *models.Group) { g.Status = "" }, InvariantStatusPresent},
		{"locked while open", func(g *models.Group) { g.Status = models.GroupLocked }, InvariantLockedStatus},
		{"full while open", func(g *models.Group) { g.Status = models.GroupFull }, InvariantFullStatus},
		{"over capacity", func(g *models.Group) { g.Transfers = 5 }, InvariantCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGroup(student("L", "draw-1"), 2, "draw-1", 0)
			require.Empty(t, Validate(g, sizes))

			tt.mutate(g)
			vs := Validate(g, sizes)
			assert.True(t, vs.Has(tt.want), "violations: %v", vs)

			err := vs.Err()
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestValidationErrorExposesEachViolation(t *testing.T) {
	g := NewGroup(student("L", "draw-1"), 2, "draw-1", 0)
	g.Size = 4
	g.Transfers = -1

	err := Validate(g, []int{1, 2}).Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.ErrorContains(t, err, "size_available")
	assert.ErrorContains(t, err, "transfers")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	unwrapped := verr.Unwrap()
	assert.Len(t, unwrapped, len(verr.Violations))

	var v Violation
	require.ErrorAs(t, err, &v)
	assert.Contains(t, []Invariant{InvariantSizeAvailable, InvariantTransfers}, v.Invariant)
}

func TestValidateStatusTakesTransfersIntoAccount(t *testing.T) {
	g := NewGroup(student("L", "draw-1"), 2, "draw-1", 1)
	require.True(t, g.IsFull())
	require.Empty(t, Validate(g, []int{2}))

	g.Status = models.GroupOpen
	assert.True(t, Validate(g, []int{2}).Has(InvariantOpenStatus))
}

func TestValidateShrinkingBelowMembers(t *testing.T) {
	g := groupWith(2, map[string]models.MembershipStatus{"A": models.MembershipAccepted})
	g.Size = 1
	vs := Validate(g, []int{1, 2})
	assert.True(t, vs.Has(InvariantCapacity))
	assert.ErrorIs(t, vs.Err(), ErrCapacityExceeded)
}

func TestValidSizesForDrawGroup(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{openSizes: map[string][]int{"draw-1": {1}}}

	g := NewGroup(student("L", "draw-1"), 2, "draw-1", 0)
	err := ValidateGroup(ctx, catalog, g)
	require.ErrorIs(t, err, ErrInvalidSize)
	assert.ErrorIs(t, CheckSize(ctx, catalog, g), ErrInvalidSize)

	// A saved group keeps its size after the last open suite of it is taken.
	g.StoredSize = 2
	sizes, err := ValidSizes(ctx, catalog, g)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, sizes)
	assert.NoError(t, ValidateGroup(ctx, catalog, g))
}

func TestValidSizesForDrawlessGroup(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{
		sizes:     []int{2, 1, 2, 4},
		openSizes: map[string][]int{"draw-1": {1}},
	}

	g := NewGroup(student("L", ""), 4, "", 0)
	sizes, err := ValidSizes(ctx, catalog, g)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, sizes)

	// Drawless groups never keep a stale size.
	g.Size = 3
	g.StoredSize = 3
	assert.ErrorIs(t, ValidateGroup(ctx, catalog, g), ErrInvalidSize)
}

func TestValidSizesCatalogFailure(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	g := NewGroup(student("L", ""), 1, "", 0)
	_, err := ValidSizes(context.Background(), catalog, g)
	assert.ErrorContains(t, err, "catalog down")
}

func TestDrawlessGroupWithUnavailableSizeIsInvalid(t *testing.T) {
	catalog := &fakeCatalog{sizes: []int{2, 4}}
	g := NewGroup(student("L", ""), 1, "", 0)

	err := ValidateGroup(context.Background(), catalog, g)
	require.ErrorIs(t, err, ErrInvalidSize)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Violations.Has(InvariantSizeAvailable))
}

func TestLockableIffAllLockedAndAtSize(t *testing.T) {
	statuses := []models.MembershipStatus{models.MembershipAccepted, models.MembershipLocked}
	for _, size := range []int{2, 3} {
		for _, leader := range statuses {
			for _, a := range statuses {
				for _, b := range statuses {
					name := fmt.Sprintf("size=%d/%s/%s/%s", size, leader, a, b)
					t.Run(name, func(t *testing.T) {
						g := groupWith(size, map[string]models.MembershipStatus{"A": a, "B": b})
						g.Memberships[0].Status = leader
						if g.EffectiveMemberCount() > size {
							g.Memberships = g.Memberships[:size]
						}
						RefreshStatus(g)

						allLocked := len(g.LockedMembers()) == len(g.Members())
						atSize := g.EffectiveMemberCount() == g.Size
						assert.Equal(t, allLocked && atSize, g.Lockable())

						err := Lock(g)
						if allLocked && atSize {
							require.NoError(t, err)
							assert.Equal(t, models.GroupLocked, g.Status)
							assert.Empty(t, Validate(g, []int{size}))
						} else {
							require.ErrorIs(t, err, ErrNotLockable)
							assert.NotEqual(t, models.GroupLocked, g.Status)
						}
					})
				}
			}
		}
	}
}

func TestLockedStatusRequiresLockedMemberships(t *testing.T) {
	// Finalizing locks the leader only.
	g := groupWith(2, map[string]models.MembershipStatus{"A": models.MembershipAccepted})
	require.NoError(t, Finalize(g))
	require.Equal(t, models.GroupFinalizing, g.Status)
	assert.Equal(t, []string{"leader"}, g.LockedMembers())

	g.Status = models.GroupLocked
	assert.True(t, Validate(g, []int{2}).Has(InvariantLockedStatus))
}

func TestLockAllIsAllOrNothing(t *testing.T) {
	g := groupWith(3, map[string]models.MembershipStatus{
		"A": models.MembershipAccepted,
		"B": models.MembershipAccepted,
	})
	require.Equal(t, models.GroupFull, g.Status)
	require.NoError(t, LockAll(g))
	assert.Equal(t, models.GroupLocked, g.Status)
	assert.ElementsMatch(t, g.Members(), g.LockedMembers())

	open := groupWith(3, map[string]models.MembershipStatus{"A": models.MembershipAccepted})
	before := open.Clone()
	require.ErrorIs(t, LockAll(open), ErrNotLockable)
	assert.Equal(t, before, open)
	assert.Empty(t, open.LockedMembers())
}

func TestLockIsIdempotent(t *testing.T) {
	g := groupWith(2, map[string]models.MembershipStatus{"A": models.MembershipAccepted})
	require.NoError(t, LockAll(g))
	require.NoError(t, LockAll(g))
	require.NoError(t, Lock(g))
	assert.Equal(t, models.GroupLocked, g.Status)
}

func TestFinalizeFlow(t *testing.T) {
	g := groupWith(3, map[string]models.MembershipStatus{
		"A": models.MembershipAccepted,
		"B": models.MembershipAccepted,
	})

	require.NoError(t, Finalize(g))
	assert.Equal(t, models.GroupFinalizing, g.Status)
	assert.False(t, g.Lockable())

	require.NoError(t, FinalizeMembership(g, "A"))
	assert.Equal(t, models.GroupFinalizing, g.Status)
	assert.ErrorIs(t, FinalizeMembership(g, "A"), ErrInvalidTransition)

	require.NoError(t, FinalizeMembership(g, "B"))
	assert.Equal(t, models.GroupLocked, g.Status)
	assert.Empty(t, Validate(g, []int{3}))
}

func TestFinalizeRules(t *testing.T) {
	open := groupWith(3, map[string]models.MembershipStatus{"A": models.MembershipAccepted})
	assert.ErrorIs(t, Finalize(open), ErrInvalidTransition)

	drawless := NewGroup(student("L", ""), 1, "", 0)
	assert.ErrorIs(t, Finalize(drawless), ErrInvalidTransition)

	solo := NewGroup(student("L", "draw-1"), 1, "draw-1", 0)
	require.NoError(t, Finalize(solo))
	assert.Equal(t, models.GroupLocked, solo.Status)
}

func TestRemovableMembersNeverIncludeLeader(t *testing.T) {
	all := []models.MembershipStatus{
		models.MembershipRequested, models.MembershipInvited,
		models.MembershipAccepted, models.MembershipLocked,
	}
	for _, leader := range []models.MembershipStatus{models.MembershipAccepted, models.MembershipLocked} {
		for _, a := range all {
			for _, b := range all {
				g := groupWith(4, map[string]models.MembershipStatus{"A": a, "B": b})
				g.Memberships[0].Status = leader
				removable := g.RemovableMembers()
				assert.NotContains(t, removable, g.LeaderID)
				assert.Len(t, removable, len(g.Members())-1)
				assert.Contains(t, g.Members(), g.LeaderID)
			}
		}
	}
}

func TestDestroyRestoresDrawlessMembers(t *testing.T) {
	ctx := context.Background()
	for n := 0; n <= 3; n++ {
		t.Run(fmt.Sprintf("%d members", n), func(t *testing.T) {
			g := NewGroup(student("L", ""), 4, "", 0)
			for i := 0; i < n; i++ {
				require.NoError(t, AddMember(g, student(fmt.Sprintf("m%d", i), "")))
			}
			g.Memberships = append(g.Memberships, models.Membership{StudentID: "pending", Status: models.MembershipInvited})

			dir := &spyDirectory{}
			require.NoError(t, Destroy(ctx, dir, g))
			assert.Len(t, dir.restored, n)
			assert.NotContains(t, dir.restored, "L")
			assert.False(t, slices.Contains(dir.restored, "pending"))
			assert.Equal(t, []string{"L"}, dir.leaders)
		})
	}
}

func TestDestroyDrawGroupRestoresNobody(t *testing.T) {
	g := groupWith(3, map[string]models.MembershipStatus{
		"A": models.MembershipAccepted,
		"B": models.MembershipAccepted,
	})
	dir := &spyDirectory{}
	require.NoError(t, Destroy(context.Background(), dir, g))
	assert.Empty(t, dir.restored)
	assert.Empty(t, dir.leaders)
}

func TestGroupName(t *testing.T) {
	g := NewGroup(&models.Student{ID: "L", Name: "Name"}, 1, "", 0)
	assert.Contains(t, g.Name(), "Name")
}
