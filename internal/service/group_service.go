package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/metrics"
	"github.com/mmynk/roomdraw/internal/middleware"
	"github.com/mmynk/roomdraw/internal/models"
	"github.com/mmynk/roomdraw/internal/storage"
	"github.com/mmynk/roomdraw/pkg/rpc"
	"github.com/mmynk/roomdraw/pkg/rpc/rpcconnect"
)

// GroupService implements the Connect GroupService.
//
// Every mutation loads the group, applies a housing transition, validates
// the result and saves it in one transaction. Any failure rolls all of it back.
type GroupService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

var _ rpcconnect.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, m *metrics.Metrics) *GroupService {
	return &GroupService{store: store, metrics: m}
}

// CreateGroup starts a group in the leader's draw.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	leaderID := callerOr(ctx, req.Msg.LeaderID)
	slog.Info("CreateGroup request received",
		"leader_id", leaderID,
		"size", req.Msg.Size,
		"transfers", req.Msg.Transfers,
	)

	if err := requireSelf(ctx, leaderID); err != nil {
		return nil, connectError(err)
	}
	if req.Msg.Transfers != 0 {
		if err := requireAdmin(ctx); err != nil {
			return nil, connectError(err)
		}
	}

	var g *models.Group
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		leader, err := tx.Student(ctx, leaderID)
		if err != nil {
			return err
		}
		if leader.DrawID == "" {
			return fmt.Errorf("%w: %s is not in a draw", housing.ErrNotEligible, leaderID)
		}

		g = housing.NewGroup(leader, req.Msg.Size, leader.DrawID, req.Msg.Transfers)
		if err := housing.CheckEligible(g, leader); err != nil {
			return err
		}
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		if err := ensureUngrouped(ctx, tx, leaderID, ""); err != nil {
			return err
		}
		if err := housing.ValidateGroup(ctx, tx, g); err != nil {
			return err
		}
		if err := tx.CreateGroup(ctx, g); err != nil {
			return err
		}
		_, err = tx.DeletePendingMemberships(ctx, leaderID, g.ID)
		return err
	})
	s.metrics.Transition("create", err)
	if err != nil {
		slog.Error("CreateGroup failed", "leader_id", leaderID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Group created", "group_id", g.ID, "draw_id", g.DrawID, "status", g.Status)

	return connect.NewResponse(&rpc.GroupResponse{Group: groupMessage(g)}), nil
}

// CreateDrawlessGroup builds a complete group outside any draw. Its members
// leave their draws until the group is dissolved.
func (s *GroupService) CreateDrawlessGroup(ctx context.Context, req *connect.Request[rpc.CreateDrawlessGroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	slog.Info("CreateDrawlessGroup request received",
		"leader_id", req.Msg.LeaderID,
		"members_count", len(req.Msg.MemberIDs),
		"size", req.Msg.Size,
	)

	if err := requireAdmin(ctx); err != nil {
		return nil, connectError(err)
	}
	if req.Msg.LeaderID == "" {
		return nil, invalidArgument("leader_id required")
	}

	var g *models.Group
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		leader, err := tx.Student(ctx, req.Msg.LeaderID)
		if err != nil {
			return err
		}

		g = housing.NewGroup(leader, req.Msg.Size, "", req.Msg.Transfers)
		for _, id := range req.Msg.MemberIDs {
			member, err := tx.Student(ctx, id)
			if err != nil {
				return err
			}
			if err := housing.AddMember(g, member); err != nil {
				return err
			}
		}

		members := g.Members()
		for _, id := range members {
			if err := ensureUngrouped(ctx, tx, id, ""); err != nil {
				return err
			}
		}
		if err := housing.ValidateGroup(ctx, tx, g); err != nil {
			return err
		}
		if err := tx.CreateGroup(ctx, g); err != nil {
			return err
		}
		for _, id := range members {
			if err := pullIntoGroup(ctx, tx, id, g.ID); err != nil {
				return err
			}
		}
		return nil
	})
	s.metrics.Transition("create_drawless", err)
	if err != nil {
		slog.Error("CreateDrawlessGroup failed", "leader_id", req.Msg.LeaderID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Drawless group created", "group_id", g.ID, "status", g.Status)

	return connect.NewResponse(&rpc.GroupResponse{Group: groupMessage(g)}), nil
}

// EditGroup changes a group's size, transfers or members. Either every
// change applies or none does. Drawless groups are edited by administrators only.
func (s *GroupService) EditGroup(ctx context.Context, req *connect.Request[rpc.EditGroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	msg := req.Msg
	slog.Info("EditGroup request received",
		"group_id", msg.GroupID,
		"add_count", len(msg.AddMemberIDs),
		"remove_count", len(msg.RemoveMemberIDs),
	)

	membersChange := len(msg.AddMemberIDs) > 0 || len(msg.RemoveMemberIDs) > 0
	if membersChange || msg.Transfers != nil {
		if err := requireAdmin(ctx); err != nil {
			return nil, connectError(err)
		}
	}

	g, err := s.update(ctx, "edit", msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeader(ctx, g); err != nil {
			return err
		}
		if g.Drawless() {
			if err := requireAdmin(ctx); err != nil {
				return err
			}
		}
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		if membersChange && !g.Drawless() {
			return fmt.Errorf("%w: draw groups gain members through requests and invitations", housing.ErrInvalidTransition)
		}
		if g.Status != models.GroupOpen && g.Status != models.GroupFull {
			return fmt.Errorf("%w: group is %s", housing.ErrInvalidTransition, g.Status)
		}

		for _, id := range msg.RemoveMemberIDs {
			if err := housing.RemoveMember(g, id); err != nil {
				return err
			}
			if err := tx.RestoreDraw(ctx, id); err != nil {
				return err
			}
		}

		if msg.Size != nil {
			g.Size = *msg.Size
		}
		if msg.Transfers != nil {
			g.Transfers = *msg.Transfers
		}
		housing.RefreshStatus(g)

		for _, id := range msg.AddMemberIDs {
			member, err := tx.Student(ctx, id)
			if err != nil {
				return err
			}
			if err := ensureUngrouped(ctx, tx, id, g.ID); err != nil {
				return err
			}
			if err := housing.AddMember(g, member); err != nil {
				return err
			}
			if err := pullIntoGroup(ctx, tx, id, g.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&rpc.GroupResponse{Group: groupMessage(g)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	g, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&rpc.GroupResponse{Group: groupMessage(g)}), nil
}

// ListGroups retrieves the groups of a draw, or the drawless groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[rpc.ListGroupsRequest]) (*connect.Response[rpc.ListGroupsResponse], error) {
	slog.Info("ListGroups request received", "draw_id", req.Msg.DrawID)

	groups, err := s.store.ListGroups(ctx, req.Msg.DrawID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connectError(err)
	}

	out := make([]*rpc.Group, len(groups))
	for i, g := range groups {
		out[i] = groupMessage(g)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&rpc.ListGroupsResponse{Groups: out}), nil
}

// RequestToJoin records the caller's request to join a group.
func (s *GroupService) RequestToJoin(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	studentID := callerOr(ctx, req.Msg.StudentID)
	slog.Info("RequestToJoin request received", "group_id", req.Msg.GroupID, "student_id", studentID)

	if err := requireSelf(ctx, studentID); err != nil {
		return nil, connectError(err)
	}

	return s.respond(s.update(ctx, "request", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		student, err := tx.Student(ctx, studentID)
		if err != nil {
			return err
		}
		if err := ensureUngrouped(ctx, tx, studentID, ""); err != nil {
			return err
		}
		return housing.Request(g, student)
	}))
}

// InviteToJoin records the leader's invitation of a student.
func (s *GroupService) InviteToJoin(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	studentID := req.Msg.StudentID
	slog.Info("InviteToJoin request received", "group_id", req.Msg.GroupID, "student_id", studentID)

	if studentID == "" {
		return nil, invalidArgument("student_id required")
	}

	return s.respond(s.update(ctx, "invite", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeader(ctx, g); err != nil {
			return err
		}
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		student, err := tx.Student(ctx, studentID)
		if err != nil {
			return err
		}
		if err := ensureUngrouped(ctx, tx, studentID, ""); err != nil {
			return err
		}
		return housing.Invite(g, student)
	}))
}

// AcceptRequest lets the leader accept a student's request. The student's
// other pending memberships are dropped.
func (s *GroupService) AcceptRequest(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	studentID := req.Msg.StudentID
	slog.Info("AcceptRequest request received", "group_id", req.Msg.GroupID, "student_id", studentID)

	if studentID == "" {
		return nil, invalidArgument("student_id required")
	}

	return s.respond(s.update(ctx, "accept_request", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeader(ctx, g); err != nil {
			return err
		}
		return accept(ctx, tx, g, studentID, housing.AcceptRequest)
	}))
}

// AcceptInvitation lets the caller accept an invitation. Their other pending
// memberships are dropped.
func (s *GroupService) AcceptInvitation(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	studentID := callerOr(ctx, req.Msg.StudentID)
	slog.Info("AcceptInvitation request received", "group_id", req.Msg.GroupID, "student_id", studentID)

	if err := requireSelf(ctx, studentID); err != nil {
		return nil, connectError(err)
	}

	return s.respond(s.update(ctx, "accept_invitation", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		return accept(ctx, tx, g, studentID, housing.AcceptInvitation)
	}))
}

// RejectPending removes a request or invitation. The leader rejects and
// withdraws; the student declines and withdraws.
func (s *GroupService) RejectPending(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	studentID := callerOr(ctx, req.Msg.StudentID)
	slog.Info("RejectPending request received", "group_id", req.Msg.GroupID, "student_id", studentID)

	return s.respond(s.update(ctx, "reject", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeaderOrSelf(ctx, g, studentID); err != nil {
			return err
		}
		return housing.RejectPending(g, studentID)
	}))
}

// RemoveMember takes an accepted member out of a group. Members may leave
// on their own; the leader never leaves.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	studentID := callerOr(ctx, req.Msg.StudentID)
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "student_id", studentID)

	return s.respond(s.update(ctx, "remove", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeaderOrSelf(ctx, g, studentID); err != nil {
			return err
		}
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		if err := housing.RemoveMember(g, studentID); err != nil {
			return err
		}
		if g.Drawless() {
			return tx.RestoreDraw(ctx, studentID)
		}
		return nil
	}))
}

// Finalize starts the confirmation phase of a full draw group.
func (s *GroupService) Finalize(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	slog.Info("Finalize request received", "group_id", req.Msg.GroupID)

	return s.respond(s.update(ctx, "finalize", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeader(ctx, g); err != nil {
			return err
		}
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		return housing.Finalize(g)
	}))
}

// FinalizeMembership confirms the caller's place in a finalizing group. The
// last confirmation locks the group.
func (s *GroupService) FinalizeMembership(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	studentID := callerOr(ctx, req.Msg.StudentID)
	slog.Info("FinalizeMembership request received", "group_id", req.Msg.GroupID, "student_id", studentID)

	if err := requireSelf(ctx, studentID); err != nil {
		return nil, connectError(err)
	}

	return s.respond(s.update(ctx, "finalize_membership", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		return housing.FinalizeMembership(g, studentID)
	}))
}

// Lock locks a group. Administrators lock every membership at once; the
// leader may only lock a group whose members have all confirmed.
func (s *GroupService) Lock(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	slog.Info("Lock request received", "group_id", req.Msg.GroupID)

	return s.respond(s.update(ctx, "lock", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeader(ctx, g); err != nil {
			return err
		}
		if err := checkFormation(ctx, tx, g); err != nil {
			return err
		}
		if middleware.IsAdmin(ctx) {
			return housing.LockAll(g)
		}
		return housing.Lock(g)
	}))
}

// SelectSuite gives a locked group a suite of its size.
func (s *GroupService) SelectSuite(ctx context.Context, req *connect.Request[rpc.SelectSuiteRequest]) (*connect.Response[rpc.SelectSuiteResponse], error) {
	slog.Info("SelectSuite request received", "group_id", req.Msg.GroupID, "suite_id", req.Msg.SuiteID)

	g, err := s.update(ctx, "select_suite", req.Msg.GroupID, func(tx storage.Tx, g *models.Group) error {
		if err := requireLeader(ctx, g); err != nil {
			return err
		}
		if g.Status != models.GroupLocked {
			return fmt.Errorf("%w: group %s is %s, not locked", housing.ErrInvalidTransition, g.ID, g.Status)
		}
		if g.SuiteID != "" {
			return fmt.Errorf("%w: group %s already has suite %s", housing.ErrInvalidTransition, g.ID, g.SuiteID)
		}
		if !g.Drawless() {
			draw, err := tx.GetDraw(ctx, g.DrawID)
			if err != nil {
				return err
			}
			if draw.Status != models.DrawSuiteSelection {
				return fmt.Errorf("%w: draw %s is in %s", housing.ErrInvalidTransition, draw.ID, draw.Status)
			}
			if g.LotteryNumber == 0 {
				return fmt.Errorf("%w: group %s has no lottery number", housing.ErrInvalidTransition, g.ID)
			}
		}

		suiteID, err := tx.AssignSuite(ctx, g, req.Msg.SuiteID)
		if err != nil {
			return err
		}
		g.SuiteID = suiteID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&rpc.SelectSuiteResponse{
		Group:   groupMessage(g),
		SuiteID: g.SuiteID,
	}), nil
}

// DeleteGroup dissolves a group. Members of a drawless group return to
// the draws they came from.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		g, err := tx.GetGroup(ctx, req.Msg.GroupID)
		if err != nil {
			return err
		}
		if err := requireLeader(ctx, g); err != nil {
			return err
		}
		if !middleware.IsAdmin(ctx) {
			if err := checkFormation(ctx, tx, g); err != nil {
				return err
			}
		}
		if err := housing.Destroy(ctx, tx, g); err != nil {
			return err
		}
		return tx.DeleteGroup(ctx, g)
	})
	s.metrics.Transition("delete", err)
	if err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&rpc.DeleteGroupResponse{}), nil
}

// update runs change against a freshly loaded group and saves the result,
// all inside one transaction.
func (s *GroupService) update(ctx context.Context, op, groupID string, change func(tx storage.Tx, g *models.Group) error) (*models.Group, error) {
	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	var g *models.Group
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		g, err = tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := change(tx, g); err != nil {
			return err
		}
		if err := housing.ValidateGroup(ctx, tx, g); err != nil {
			return err
		}
		return tx.SaveGroup(ctx, g)
	})
	s.metrics.Transition(op, err)
	if err != nil {
		slog.Error("Group update failed", "op", op, "group_id", groupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Group updated", "op", op, "group_id", g.ID, "status", g.Status, "version", g.Version)
	return g, nil
}

func (s *GroupService) respond(g *models.Group, err error) (*connect.Response[rpc.GroupResponse], error) {
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&rpc.GroupResponse{Group: groupMessage(g)}), nil
}

// accept moves a pending membership to accepted and drops the student's
// pending memberships elsewhere.
func accept(ctx context.Context, tx storage.Tx, g *models.Group, studentID string, transition func(*models.Group, string) error) error {
	if err := checkFormation(ctx, tx, g); err != nil {
		return err
	}
	if err := ensureUngrouped(ctx, tx, studentID, g.ID); err != nil {
		return err
	}
	if err := transition(g, studentID); err != nil {
		return err
	}
	n, err := tx.DeletePendingMemberships(ctx, studentID, g.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Debug("Dropped pending memberships", "student_id", studentID, "count", n)
	}
	return nil
}

// checkFormation refuses changes to a draw group once its draw's lottery has started.
func checkFormation(ctx context.Context, tx storage.Tx, g *models.Group) error {
	if g.Drawless() {
		return nil
	}
	return checkDrawForming(ctx, tx, g.DrawID)
}

// checkDrawForming fails unless the draw is still in draft or pre-lottery.
func checkDrawForming(ctx context.Context, tx storage.Tx, drawID string) error {
	draw, err := tx.GetDraw(ctx, drawID)
	if err != nil {
		return err
	}
	if draw.Status != models.DrawDraft && draw.Status != models.DrawPreLottery {
		return fmt.Errorf("%w: draw %s is in %s", housing.ErrInvalidTransition, draw.ID, draw.Status)
	}
	return nil
}

// ensureUngrouped fails when the student holds a full membership in a group
// other than groupID.
func ensureUngrouped(ctx context.Context, tx storage.Tx, studentID, groupID string) error {
	m, err := tx.FullMembershipOf(ctx, studentID)
	if err != nil {
		return err
	}
	if m != nil && m.GroupID != groupID {
		return fmt.Errorf("%w: %s already belongs to group %s", housing.ErrNotEligible, studentID, m.GroupID)
	}
	return nil
}

// pullIntoGroup detaches a drawless group's member from their draw.
func pullIntoGroup(ctx context.Context, tx storage.Tx, studentID, groupID string) error {
	if _, err := tx.DeletePendingMemberships(ctx, studentID, groupID); err != nil {
		return err
	}
	return tx.PullFromDraw(ctx, studentID)
}
