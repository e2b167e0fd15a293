package models

import "fmt"

// GroupStatus is the position of a group in its lifecycle.
type GroupStatus string

const (
	GroupOpen       GroupStatus = "open"
	GroupFull       GroupStatus = "full"
	GroupFinalizing GroupStatus = "finalizing"
	GroupLocked     GroupStatus = "locked"
)

// Valid reports whether s is a known group status.
func (s GroupStatus) Valid() bool {
	switch s {
	case GroupOpen, GroupFull, GroupFinalizing, GroupLocked:
		return true
	}
	return false
}

// Group is a set of students pursuing one suite together.
//
// The leader always holds an accepted (or locked) membership in Memberships,
// created in the same transaction as the group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Size is the number of beds the group is looking for.
	Size int

	// Status is the lifecycle state of the group.
	Status GroupStatus

	// LeaderID is the student who owns the group.
	LeaderID string

	// LeaderName is the display name of the leader. Filled on read, never written.
	LeaderName string

	// DrawID is the draw the group competes in. Empty for drawless groups.
	DrawID string

	// Transfers counts members entering through transfer, without a membership row.
	Transfers int

	// SuiteID is the suite claimed by the group, empty until selection.
	SuiteID string

	// LotteryNumber is the group's rank in its draw, 0 until the lottery runs.
	LotteryNumber int

	// Memberships holds every membership of the group in insertion order.
	Memberships []Membership

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// Version is bumped on every save and guards against concurrent writers.
	Version int64

	// StoredSize is the size as last persisted. Zero for groups not yet saved.
	StoredSize int
}

// Drawless reports whether the group is not attached to a draw.
func (g *Group) Drawless() bool {
	return g.DrawID == ""
}

// Name is the display name of the group.
func (g *Group) Name() string {
	if g.LeaderName == "" {
		return "Group " + g.ID
	}
	return fmt.Sprintf("%s's Group", g.LeaderName)
}

// EffectiveMemberCount is the number of full memberships plus transfers.
func (g *Group) EffectiveMemberCount() int {
	n := g.Transfers
	for _, m := range g.Memberships {
		if m.Full() {
			n++
		}
	}
	return n
}

// IsFull reports whether the group has no room for another member.
func (g *Group) IsFull() bool {
	return g.EffectiveMemberCount() >= g.Size
}

// Membership returns the membership held by studentID, if any.
func (g *Group) Membership(studentID string) (Membership, bool) {
	for _, m := range g.Memberships {
		if m.StudentID == studentID {
			return m, true
		}
	}
	return Membership{}, false
}

// FullMemberships returns the accepted and locked memberships.
func (g *Group) FullMemberships() []Membership {
	return g.filter(Membership.Full)
}

// Members returns the students holding full memberships, leader included.
func (g *Group) Members() []string {
	return studentIDs(g.FullMemberships())
}

// Requests returns the students who asked to join.
func (g *Group) Requests() []string {
	return studentIDs(g.filter(func(m Membership) bool { return m.Status == MembershipRequested }))
}

// Invitations returns the students the group invited.
func (g *Group) Invitations() []string {
	return studentIDs(g.filter(func(m Membership) bool { return m.Status == MembershipInvited }))
}

// RemovableMembers returns the full members except the leader.
func (g *Group) RemovableMembers() []string {
	return studentIDs(g.filter(func(m Membership) bool {
		return m.Full() && m.StudentID != g.LeaderID
	}))
}

// LockedMembers returns the students whose memberships are locked.
func (g *Group) LockedMembers() []string {
	return studentIDs(g.filter(Membership.Locked))
}

// Lockable reports whether the group may move to locked: it is full or
// finalizing, exactly at size, and every full membership is locked.
func (g *Group) Lockable() bool {
	if g.Status != GroupFull && g.Status != GroupFinalizing {
		return false
	}
	if g.EffectiveMemberCount() != g.Size {
		return false
	}
	for _, m := range g.FullMemberships() {
		if !m.Locked() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	c := *g
	c.Memberships = append([]Membership(nil), g.Memberships...)
	return &c
}

func (g *Group) filter(keep func(Membership) bool) []Membership {
	var out []Membership
	for _, m := range g.Memberships {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func studentIDs(ms []Membership) []string {
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.StudentID)
	}
	return ids
}
