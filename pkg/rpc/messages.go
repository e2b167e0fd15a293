// Package rpc defines the messages of the roomdraw.v1 Connect services.
// They travel as JSON; see package rpcconnect for the service bindings.
package rpc

// Membership is one student's place in a group.
type Membership struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
}

// Group is the wire form of a group.
type Group struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Size          int          `json:"size"`
	Status        string       `json:"status"`
	LeaderID      string       `json:"leader_id"`
	DrawID        string       `json:"draw_id,omitempty"`
	Transfers     int          `json:"transfers"`
	SuiteID       string       `json:"suite_id,omitempty"`
	LotteryNumber int          `json:"lottery_number,omitempty"`
	Members       []string     `json:"members"`
	Requests      []string     `json:"requests"`
	Invitations   []string     `json:"invitations"`
	Removable     []string     `json:"removable"`
	Lockable      bool         `json:"lockable"`
	Memberships   []Membership `json:"memberships"`
	CreatedAt     int64        `json:"created_at"`
	Version       int64        `json:"version"`
}

// Draw is the wire form of a draw.
type Draw struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	LotteryAssigned bool   `json:"lottery_assigned"`
	CreatedAt       int64  `json:"created_at"`
}

// GroupResponse carries the group as it was saved.
type GroupResponse struct {
	Group *Group `json:"group"`
}

// CreateGroupRequest starts a group in the leader's draw. The leader is the
// caller unless an administrator names one.
type CreateGroupRequest struct {
	LeaderID  string `json:"leader_id,omitempty"`
	Size      int    `json:"size"`
	Transfers int    `json:"transfers,omitempty"`
}

// CreateDrawlessGroupRequest builds a group outside any draw. Administrators only.
type CreateDrawlessGroupRequest struct {
	LeaderID  string   `json:"leader_id"`
	MemberIDs []string `json:"member_ids,omitempty"`
	Size      int      `json:"size"`
	Transfers int      `json:"transfers,omitempty"`
}

// EditGroupRequest changes a group. Nil fields are left alone.
type EditGroupRequest struct {
	GroupID         string   `json:"group_id"`
	Size            *int     `json:"size,omitempty"`
	Transfers       *int     `json:"transfers,omitempty"`
	AddMemberIDs    []string `json:"add_member_ids,omitempty"`
	RemoveMemberIDs []string `json:"remove_member_ids,omitempty"`
}

// GroupRequest names a group.
type GroupRequest struct {
	GroupID string `json:"group_id"`
}

// ListGroupsRequest selects the groups of a draw. An empty DrawID lists
// drawless groups.
type ListGroupsRequest struct {
	DrawID string `json:"draw_id,omitempty"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// MembershipRequest names a student in a group. An empty StudentID means
// the caller.
type MembershipRequest struct {
	GroupID   string `json:"group_id"`
	StudentID string `json:"student_id,omitempty"`
}

// SelectSuiteRequest picks a suite for a locked group. An empty SuiteID
// takes any free suite of the group's size.
type SelectSuiteRequest struct {
	GroupID string `json:"group_id"`
	SuiteID string `json:"suite_id,omitempty"`
}

type SelectSuiteResponse struct {
	Group   *Group `json:"group"`
	SuiteID string `json:"suite_id"`
}

type DeleteGroupResponse struct{}

type CreateDrawRequest struct {
	Name string `json:"name"`
}

// DrawRequest names a draw.
type DrawRequest struct {
	DrawID string `json:"draw_id"`
}

type DrawResponse struct {
	Draw *Draw `json:"draw"`
}

// LotteryNumber is the rank of one entrant: a group or a student on their own.
type LotteryNumber struct {
	GroupID   string `json:"group_id,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	Number    int    `json:"number"`
}

type AssignLotteryNumbersResponse struct {
	Draw    *Draw           `json:"draw"`
	Numbers []LotteryNumber `json:"numbers"`
}

type OpenSuiteSizesResponse struct {
	Sizes []int `json:"sizes"`
}

type SizeSummary struct {
	Size      int `json:"size"`
	Available int `json:"available"`
	Assigned  int `json:"assigned"`
}

type SuiteSummaryResponse struct {
	Sizes []SizeSummary `json:"sizes"`
}

type StudentSummaryResponse struct {
	ByIntent  map[string]int `json:"by_intent"`
	Grouped   int            `json:"grouped"`
	Ungrouped int            `json:"ungrouped"`
}

// RegisterStudentRequest adds a student to the directory. Administrators only.
type RegisterStudentRequest struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	Intent string `json:"intent,omitempty"`
	DrawID string `json:"draw_id,omitempty"`
}

type RegisterStudentResponse struct {
	StudentID string `json:"student_id"`
}

// AddSuiteRequest adds a suite to the catalog. Administrators only.
type AddSuiteRequest struct {
	Number   string `json:"number"`
	Building string `json:"building"`
	Size     int    `json:"size"`
	DrawID   string `json:"draw_id,omitempty"`
}

type AddSuiteResponse struct {
	SuiteID string `json:"suite_id"`
}

// Student is the wire form of a student.
type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Intent        string `json:"intent"`
	DrawID        string `json:"draw_id,omitempty"`
	LotteryNumber int    `json:"lottery_number,omitempty"`
}

// UpdateStudentRequest changes a student's housing intent or draw. The
// student is the caller unless named. Only administrators move students
// between draws; a nil DrawID leaves the draw alone and an empty one takes
// the student out of every draw.
type UpdateStudentRequest struct {
	StudentID string  `json:"student_id,omitempty"`
	Intent    string  `json:"intent,omitempty"`
	DrawID    *string `json:"draw_id,omitempty"`
}

type UpdateStudentResponse struct {
	Student *Student `json:"student"`
}

// OfferSuitesRequest adds unassigned suites to a draw or withdraws them.
// Administrators only.
type OfferSuitesRequest struct {
	DrawID         string   `json:"draw_id"`
	AddSuiteIDs    []string `json:"add_suite_ids,omitempty"`
	RemoveSuiteIDs []string `json:"remove_suite_ids,omitempty"`
}
