package housing

import (
	"context"
	"fmt"
	"slices"

	"github.com/mmynk/roomdraw/internal/models"
)

// NewGroup builds an unsaved group led by leader. The leader gets the
// permanent accepted membership every group carries.
func NewGroup(leader *models.Student, size int, drawID string, transfers int) *models.Group {
	g := &models.Group{
		Size:       size,
		Status:     models.GroupOpen,
		LeaderID:   leader.ID,
		LeaderName: leader.Name,
		DrawID:     drawID,
		Transfers:  transfers,
		Memberships: []models.Membership{{
			StudentID:   leader.ID,
			StudentName: leader.Name,
			Status:      models.MembershipAccepted,
		}},
	}
	RefreshStatus(g)
	return g
}

// Finalize starts the confirmation phase of a full draw group. Only the
// leader's membership is locked; the other members confirm one by one.
// A group whose only member is the leader locks immediately.
func Finalize(g *models.Group) error {
	if g.Drawless() {
		return fmt.Errorf("%w: drawless groups are locked directly", ErrInvalidTransition)
	}
	if g.Status != models.GroupFull || g.EffectiveMemberCount() != g.Size {
		return fmt.Errorf("%w: group is %s with %d of %d members", ErrInvalidTransition, g.Status, g.EffectiveMemberCount(), g.Size)
	}
	if err := LockMembership(g, g.LeaderID); err != nil {
		return err
	}
	g.Status = models.GroupFinalizing
	lockIfReady(g)
	return nil
}

// FinalizeMembership locks one member's membership of a finalizing group.
// The group locks with the last confirmation.
func FinalizeMembership(g *models.Group, studentID string) error {
	if g.Status != models.GroupFinalizing {
		return fmt.Errorf("%w: group is %s", ErrInvalidTransition, g.Status)
	}
	if err := LockMembership(g, studentID); err != nil {
		return err
	}
	lockIfReady(g)
	return nil
}

func lockIfReady(g *models.Group) {
	if g.Lockable() {
		g.Status = models.GroupLocked
	}
}

// Lock moves a lockable group to locked. Every full membership must
// already be locked.
func Lock(g *models.Group) error {
	if g.Status == models.GroupLocked {
		return nil
	}
	if !g.Lockable() {
		return fmt.Errorf("%w: %d of %d members, %d locked", ErrNotLockable,
			g.EffectiveMemberCount(), g.Size, len(g.LockedMembers()))
	}
	g.Status = models.GroupLocked
	return nil
}

// LockAll locks every full membership and the group in one step. The group
// must be full or finalizing and exactly at size. Either all memberships
// end up locked or the group is unchanged.
func LockAll(g *models.Group) error {
	if g.Status == models.GroupLocked {
		return nil
	}
	if (g.Status != models.GroupFull && g.Status != models.GroupFinalizing) || g.EffectiveMemberCount() != g.Size {
		return fmt.Errorf("%w: group is %s with %d of %d members", ErrNotLockable,
			g.Status, g.EffectiveMemberCount(), g.Size)
	}

	locked := g.Clone()
	for i := range locked.Memberships {
		if locked.Memberships[i].Full() {
			locked.Memberships[i].Status = models.MembershipLocked
		}
	}
	if err := Lock(locked); err != nil {
		return err
	}
	*g = *locked
	return nil
}

// Destroy restores the draws of a drawless group's members before the
// group is deleted. Members of draw groups simply lose their group.
func Destroy(ctx context.Context, dir UserDirectory, g *models.Group) error {
	if !g.Drawless() {
		return nil
	}
	for _, id := range g.RemovableMembers() {
		if err := dir.RestoreDraw(ctx, id); err != nil {
			return fmt.Errorf("failed to restore draw for %s: %w", id, err)
		}
	}
	if err := dir.RestoreLeader(ctx, g.LeaderID); err != nil {
		return fmt.Errorf("failed to restore draw for leader %s: %w", g.LeaderID, err)
	}
	return nil
}

// Validate checks the group against sizes, the sizes valid for its context.
// Every broken invariant is reported.
func Validate(g *models.Group, sizes []int) Violations {
	var vs Violations
	add := func(inv Invariant, format string, args ...any) {
		vs = append(vs, Violation{Invariant: inv, Message: fmt.Sprintf(format, args...)})
	}

	if g.LeaderID == "" {
		add(InvariantLeaderPresent, "leader is required")
	} else if m, ok := g.Membership(g.LeaderID); !ok || !m.Full() {
		add(InvariantLeaderMember, "leader must hold a full membership")
	}

	if g.Size <= 0 {
		add(InvariantSizePositive, "size must be positive, got %d", g.Size)
	} else if !slices.Contains(sizes, g.Size) {
		add(InvariantSizeAvailable, "size %d is not one of %v", g.Size, sizes)
	}

	if g.Transfers < 0 {
		add(InvariantTransfers, "transfers must not be negative, got %d", g.Transfers)
	}

	for _, m := range g.Memberships {
		if !m.Status.Valid() {
			add(InvariantMembershipKind, "membership of %s has status %q", m.StudentID, m.Status)
		}
	}

	count := g.EffectiveMemberCount()
	if count > g.Size {
		add(InvariantCapacity, "%d members exceed size %d", count, g.Size)
	}

	switch g.Status {
	case models.GroupOpen:
		if count >= g.Size {
			add(InvariantOpenStatus, "open group has %d of %d members", count, g.Size)
		}
	case models.GroupFull, models.GroupFinalizing:
		if count != g.Size {
			add(InvariantFullStatus, "%s group has %d of %d members", g.Status, count, g.Size)
		}
	case models.GroupLocked:
		if count != g.Size {
			add(InvariantLockedStatus, "locked group has %d of %d members", count, g.Size)
		}
		for _, m := range g.FullMemberships() {
			if !m.Locked() {
				add(InvariantLockedStatus, "membership of %s is not locked", m.StudentID)
			}
		}
	default:
		add(InvariantStatusPresent, "status %q is not valid", g.Status)
	}

	return vs
}

// ValidateGroup fetches the valid sizes for g from the catalog and
// validates it. It returns a *ValidationError when any invariant fails.
func ValidateGroup(ctx context.Context, catalog SuiteCatalog, g *models.Group) error {
	sizes, err := ValidSizes(ctx, catalog, g)
	if err != nil {
		return err
	}
	return Validate(g, sizes).Err()
}
