package rpcconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/roomdraw/pkg/rpc"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "roomdraw.v1.GroupService"

// Procedure paths of the GroupService RPCs.
const (
	GroupServiceCreateGroupProcedure         = "/roomdraw.v1.GroupService/CreateGroup"
	GroupServiceCreateDrawlessGroupProcedure = "/roomdraw.v1.GroupService/CreateDrawlessGroup"
	GroupServiceEditGroupProcedure           = "/roomdraw.v1.GroupService/EditGroup"
	GroupServiceGetGroupProcedure            = "/roomdraw.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure          = "/roomdraw.v1.GroupService/ListGroups"
	GroupServiceRequestToJoinProcedure       = "/roomdraw.v1.GroupService/RequestToJoin"
	GroupServiceInviteToJoinProcedure        = "/roomdraw.v1.GroupService/InviteToJoin"
	GroupServiceAcceptRequestProcedure       = "/roomdraw.v1.GroupService/AcceptRequest"
	GroupServiceAcceptInvitationProcedure    = "/roomdraw.v1.GroupService/AcceptInvitation"
	GroupServiceRejectPendingProcedure       = "/roomdraw.v1.GroupService/RejectPending"
	GroupServiceRemoveMemberProcedure        = "/roomdraw.v1.GroupService/RemoveMember"
	GroupServiceFinalizeProcedure            = "/roomdraw.v1.GroupService/Finalize"
	GroupServiceFinalizeMembershipProcedure  = "/roomdraw.v1.GroupService/FinalizeMembership"
	GroupServiceLockProcedure                = "/roomdraw.v1.GroupService/Lock"
	GroupServiceSelectSuiteProcedure         = "/roomdraw.v1.GroupService/SelectSuite"
	GroupServiceDeleteGroupProcedure         = "/roomdraw.v1.GroupService/DeleteGroup"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.GroupResponse], error)
	CreateDrawlessGroup(context.Context, *connect.Request[rpc.CreateDrawlessGroupRequest]) (*connect.Response[rpc.GroupResponse], error)
	EditGroup(context.Context, *connect.Request[rpc.EditGroupRequest]) (*connect.Response[rpc.GroupResponse], error)
	GetGroup(context.Context, *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error)
	ListGroups(context.Context, *connect.Request[rpc.ListGroupsRequest]) (*connect.Response[rpc.ListGroupsResponse], error)
	RequestToJoin(context.Context, *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error)
	InviteToJoin(context.Context, *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error)
	AcceptRequest(context.Context, *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error)
	AcceptInvitation(context.Context, *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error)
	RejectPending(context.Context, *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error)
	RemoveMember(context.Context, *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error)
	Finalize(context.Context, *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error)
	FinalizeMembership(context.Context, *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error)
	Lock(context.Context, *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error)
	SelectSuite(context.Context, *connect.Request[rpc.SelectSuiteRequest]) (*connect.Response[rpc.SelectSuiteResponse], error)
	DeleteGroup(context.Context, *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.DeleteGroupResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceCreateDrawlessGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateDrawlessGroupProcedure, svc.CreateDrawlessGroup, opts...))
	mux.Handle(GroupServiceEditGroupProcedure, connect.NewUnaryHandler(GroupServiceEditGroupProcedure, svc.EditGroup, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GroupServiceRequestToJoinProcedure, connect.NewUnaryHandler(GroupServiceRequestToJoinProcedure, svc.RequestToJoin, opts...))
	mux.Handle(GroupServiceInviteToJoinProcedure, connect.NewUnaryHandler(GroupServiceInviteToJoinProcedure, svc.InviteToJoin, opts...))
	mux.Handle(GroupServiceAcceptRequestProcedure, connect.NewUnaryHandler(GroupServiceAcceptRequestProcedure, svc.AcceptRequest, opts...))
	mux.Handle(GroupServiceAcceptInvitationProcedure, connect.NewUnaryHandler(GroupServiceAcceptInvitationProcedure, svc.AcceptInvitation, opts...))
	mux.Handle(GroupServiceRejectPendingProcedure, connect.NewUnaryHandler(GroupServiceRejectPendingProcedure, svc.RejectPending, opts...))
	mux.Handle(GroupServiceRemoveMemberProcedure, connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(GroupServiceFinalizeProcedure, connect.NewUnaryHandler(GroupServiceFinalizeProcedure, svc.Finalize, opts...))
	mux.Handle(GroupServiceFinalizeMembershipProcedure, connect.NewUnaryHandler(GroupServiceFinalizeMembershipProcedure, svc.FinalizeMembership, opts...))
	mux.Handle(GroupServiceLockProcedure, connect.NewUnaryHandler(GroupServiceLockProcedure, svc.Lock, opts...))
	mux.Handle(GroupServiceSelectSuiteProcedure, connect.NewUnaryHandler(GroupServiceSelectSuiteProcedure, svc.SelectSuite, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	return "/" + GroupServiceName + "/", mux
}

// GroupServiceClient is a client for the roomdraw.v1.GroupService service.
type GroupServiceClient struct {
	createGroup         *connect.Client[rpc.CreateGroupRequest, rpc.GroupResponse]
	createDrawlessGroup *connect.Client[rpc.CreateDrawlessGroupRequest, rpc.GroupResponse]
	editGroup           *connect.Client[rpc.EditGroupRequest, rpc.GroupResponse]
	getGroup            *connect.Client[rpc.GroupRequest, rpc.GroupResponse]
	listGroups          *connect.Client[rpc.ListGroupsRequest, rpc.ListGroupsResponse]
	requestToJoin       *connect.Client[rpc.MembershipRequest, rpc.GroupResponse]
	inviteToJoin        *connect.Client[rpc.MembershipRequest, rpc.GroupResponse]
	acceptRequest       *connect.Client[rpc.MembershipRequest, rpc.GroupResponse]
	acceptInvitation    *connect.Client[rpc.MembershipRequest, rpc.GroupResponse]
	rejectPending       *connect.Client[rpc.MembershipRequest, rpc.GroupResponse]
	removeMember        *connect.Client[rpc.MembershipRequest, rpc.GroupResponse]
	finalize            *connect.Client[rpc.GroupRequest, rpc.GroupResponse]
	finalizeMembership  *connect.Client[rpc.MembershipRequest, rpc.GroupResponse]
	lock                *connect.Client[rpc.GroupRequest, rpc.GroupResponse]
	selectSuite         *connect.Client[rpc.SelectSuiteRequest, rpc.SelectSuiteResponse]
	deleteGroup         *connect.Client[rpc.GroupRequest, rpc.DeleteGroupResponse]
}

// NewGroupServiceClient constructs a client for the GroupService service.
// baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup:         connect.NewClient[rpc.CreateGroupRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		createDrawlessGroup: connect.NewClient[rpc.CreateDrawlessGroupRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceCreateDrawlessGroupProcedure, opts...),
		editGroup:           connect.NewClient[rpc.EditGroupRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceEditGroupProcedure, opts...),
		getGroup:            connect.NewClient[rpc.GroupRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:          connect.NewClient[rpc.ListGroupsRequest, rpc.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		requestToJoin:       connect.NewClient[rpc.MembershipRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceRequestToJoinProcedure, opts...),
		inviteToJoin:        connect.NewClient[rpc.MembershipRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceInviteToJoinProcedure, opts...),
		acceptRequest:       connect.NewClient[rpc.MembershipRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceAcceptRequestProcedure, opts...),
		acceptInvitation:    connect.NewClient[rpc.MembershipRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceAcceptInvitationProcedure, opts...),
		rejectPending:       connect.NewClient[rpc.MembershipRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceRejectPendingProcedure, opts...),
		removeMember:        connect.NewClient[rpc.MembershipRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		finalize:            connect.NewClient[rpc.GroupRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceFinalizeProcedure, opts...),
		finalizeMembership:  connect.NewClient[rpc.MembershipRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceFinalizeMembershipProcedure, opts...),
		lock:                connect.NewClient[rpc.GroupRequest, rpc.GroupResponse](httpClient, baseURL+GroupServiceLockProcedure, opts...),
		selectSuite:         connect.NewClient[rpc.SelectSuiteRequest, rpc.SelectSuiteResponse](httpClient, baseURL+GroupServiceSelectSuiteProcedure, opts...),
		deleteGroup:         connect.NewClient[rpc.GroupRequest, rpc.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) CreateDrawlessGroup(ctx context.Context, req *connect.Request[rpc.CreateDrawlessGroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.createDrawlessGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) EditGroup(ctx context.Context, req *connect.Request[rpc.EditGroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.editGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[rpc.ListGroupsRequest]) (*connect.Response[rpc.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RequestToJoin(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.requestToJoin.CallUnary(ctx, req)
}

func (c *GroupServiceClient) InviteToJoin(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.inviteToJoin.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AcceptRequest(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.acceptRequest.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RejectPending(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.rejectPending.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *GroupServiceClient) Finalize(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.finalize.CallUnary(ctx, req)
}

func (c *GroupServiceClient) FinalizeMembership(ctx context.Context, req *connect.Request[rpc.MembershipRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.finalizeMembership.CallUnary(ctx, req)
}

func (c *GroupServiceClient) Lock(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.GroupResponse], error) {
	return c.lock.CallUnary(ctx, req)
}

func (c *GroupServiceClient) SelectSuite(ctx context.Context, req *connect.Request[rpc.SelectSuiteRequest]) (*connect.Response[rpc.SelectSuiteResponse], error) {
	return c.selectSuite.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[rpc.GroupRequest]) (*connect.Response[rpc.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}
