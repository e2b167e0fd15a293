package housing

import (
	"fmt"

	"github.com/mmynk/roomdraw/internal/models"
)

// CheckEligible reports whether the student may pursue a membership in g.
// Whether the student already belongs to another group is the caller's
// concern because it needs the store.
func CheckEligible(g *models.Group, s *models.Student) error {
	if s.Intent != models.IntentOnCampus {
		return fmt.Errorf("%w: %s has intent %s", ErrNotEligible, s.ID, s.Intent)
	}
	if !g.Drawless() && s.DrawID != g.DrawID {
		return fmt.Errorf("%w: %s is not in draw %s", ErrNotEligible, s.ID, g.DrawID)
	}
	return nil
}

// Request records that the student asked to join g.
func Request(g *models.Group, s *models.Student) error {
	return addPending(g, s, models.MembershipRequested)
}

// Invite records that g asked the student to join.
func Invite(g *models.Group, s *models.Student) error {
	return addPending(g, s, models.MembershipInvited)
}

// Drawless groups take members only through administrative edits.
func addPending(g *models.Group, s *models.Student, status models.MembershipStatus) error {
	if g.Drawless() {
		return fmt.Errorf("%w: drawless group %s takes no requests or invitations", ErrInvalidTransition, g.ID)
	}
	if g.IsFull() {
		return fmt.Errorf("%w: %d of %d", ErrCapacityExceeded, g.EffectiveMemberCount(), g.Size)
	}
	if g.Status != models.GroupOpen {
		return fmt.Errorf("%w: group is %s", ErrInvalidTransition, g.Status)
	}
	if _, ok := g.Membership(s.ID); ok {
		return fmt.Errorf("%w: %s in group %s", ErrDuplicateMembership, s.ID, g.ID)
	}
	if err := CheckEligible(g, s); err != nil {
		return err
	}
	g.Memberships = append(g.Memberships, models.Membership{
		GroupID:     g.ID,
		StudentID:   s.ID,
		StudentName: s.Name,
		Status:      status,
	})
	return nil
}

// AcceptRequest moves a requested membership to accepted.
func AcceptRequest(g *models.Group, studentID string) error {
	return accept(g, studentID, models.MembershipRequested)
}

// AcceptInvitation moves an invited membership to accepted.
func AcceptInvitation(g *models.Group, studentID string) error {
	return accept(g, studentID, models.MembershipInvited)
}

func accept(g *models.Group, studentID string, from models.MembershipStatus) error {
	i := indexOf(g, studentID)
	if i < 0 || g.Memberships[i].Status != from {
		return fmt.Errorf("%w: %s has no %s membership in group %s", ErrInvalidTransition, studentID, from, g.ID)
	}
	if g.Status != models.GroupOpen && g.Status != models.GroupFull {
		return fmt.Errorf("%w: group is %s", ErrInvalidTransition, g.Status)
	}
	if g.IsFull() {
		return fmt.Errorf("%w: %d of %d", ErrCapacityExceeded, g.EffectiveMemberCount(), g.Size)
	}
	g.Memberships[i].Status = models.MembershipAccepted
	RefreshStatus(g)
	return nil
}

// RejectPending removes a requested or invited membership.
func RejectPending(g *models.Group, studentID string) error {
	i := indexOf(g, studentID)
	if i < 0 || !g.Memberships[i].Pending() {
		return fmt.Errorf("%w: %s has no pending membership in group %s", ErrInvalidTransition, studentID, g.ID)
	}
	g.Memberships = append(g.Memberships[:i], g.Memberships[i+1:]...)
	return nil
}

// AddMember gives the student an accepted membership directly. Used when an
// administrator builds a drawless group.
func AddMember(g *models.Group, s *models.Student) error {
	if g.Status != models.GroupOpen && g.Status != models.GroupFull {
		return fmt.Errorf("%w: group is %s", ErrInvalidTransition, g.Status)
	}
	if _, ok := g.Membership(s.ID); ok {
		return fmt.Errorf("%w: %s in group %s", ErrDuplicateMembership, s.ID, g.ID)
	}
	if g.IsFull() {
		return fmt.Errorf("%w: cannot add %s", ErrCapacityExceeded, s.ID)
	}
	g.Memberships = append(g.Memberships, models.Membership{
		GroupID:     g.ID,
		StudentID:   s.ID,
		StudentName: s.Name,
		Status:      models.MembershipAccepted,
	})
	RefreshStatus(g)
	return nil
}

// RemoveMember removes an accepted member other than the leader.
func RemoveMember(g *models.Group, studentID string) error {
	if studentID == g.LeaderID {
		return fmt.Errorf("%w: the leader cannot leave the group", ErrInvalidTransition)
	}
	if g.Status != models.GroupOpen && g.Status != models.GroupFull {
		return fmt.Errorf("%w: group is %s", ErrInvalidTransition, g.Status)
	}
	i := indexOf(g, studentID)
	if i < 0 || g.Memberships[i].Status != models.MembershipAccepted {
		return fmt.Errorf("%w: %s is not a removable member of group %s", ErrInvalidTransition, studentID, g.ID)
	}
	g.Memberships = append(g.Memberships[:i], g.Memberships[i+1:]...)
	RefreshStatus(g)
	return nil
}

// LockMembership moves an accepted membership to locked. Locked
// memberships never change again.
func LockMembership(g *models.Group, studentID string) error {
	i := indexOf(g, studentID)
	if i < 0 || g.Memberships[i].Status != models.MembershipAccepted {
		return fmt.Errorf("%w: %s has no accepted membership in group %s", ErrInvalidTransition, studentID, g.ID)
	}
	g.Memberships[i].Status = models.MembershipLocked
	return nil
}

// RefreshStatus moves an open or full group to the status matching its
// member count. Finalizing and locked groups are left alone.
func RefreshStatus(g *models.Group) {
	if g.Status != models.GroupOpen && g.Status != models.GroupFull {
		return
	}
	if g.IsFull() {
		g.Status = models.GroupFull
	} else {
		g.Status = models.GroupOpen
	}
}

func indexOf(g *models.Group, studentID string) int {
	for i, m := range g.Memberships {
		if m.StudentID == studentID {
			return i
		}
	}
	return -1
}
