package models

// MembershipStatus is the position of a membership in its lifecycle.
type MembershipStatus string

const (
	// MembershipRequested means the student asked to join the group.
	MembershipRequested MembershipStatus = "requested"
	// MembershipInvited means the group asked the student to join.
	MembershipInvited MembershipStatus = "invited"
	// MembershipAccepted means both sides consented.
	MembershipAccepted MembershipStatus = "accepted"
	// MembershipLocked means the membership is accepted and frozen.
	MembershipLocked MembershipStatus = "locked"
)

// Valid reports whether s is a known membership status.
func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipRequested, MembershipInvited, MembershipAccepted, MembershipLocked:
		return true
	}
	return false
}

// Membership links a student to a group.
type Membership struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string

	// GroupID is the group this membership belongs to.
	GroupID string

	// StudentID is the student holding the membership.
	StudentID string

	// StudentName is the display name of the student. Filled on read, never written.
	StudentName string

	// Status is the lifecycle state of the membership.
	Status MembershipStatus

	// Seq orders memberships of a group by insertion.
	Seq int64

	// CreatedAt is the Unix timestamp when the membership was created.
	CreatedAt int64
}

// Full reports whether the membership counts toward the group's members.
func (m Membership) Full() bool {
	return m.Status == MembershipAccepted || m.Status == MembershipLocked
}

// Pending reports whether the membership still waits for consent.
func (m Membership) Pending() bool {
	return m.Status == MembershipRequested || m.Status == MembershipInvited
}

// Locked reports whether the membership has been frozen.
func (m Membership) Locked() bool {
	return m.Status == MembershipLocked
}
