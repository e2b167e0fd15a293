package models

// DrawStatus is the phase a draw is in.
type DrawStatus string

const (
	DrawDraft          DrawStatus = "draft"
	DrawPreLottery     DrawStatus = "pre_lottery"
	DrawLottery        DrawStatus = "lottery"
	DrawSuiteSelection DrawStatus = "suite_selection"
	DrawResults        DrawStatus = "results"
)

// Draw is a housing draw that groups and solo students compete in.
type Draw struct {
	// ID is the unique identifier for the draw (UUID format).
	ID string

	// Name is the display name of the draw (e.g., "Junior Draw").
	Name string

	// Status is the current phase of the draw.
	Status DrawStatus

	// LotteryAssigned is set once lottery numbers have been handed out.
	// It is never cleared.
	LotteryAssigned bool

	// CreatedAt is the Unix timestamp when the draw was created.
	CreatedAt int64
}

// Suite is a set of rooms that one group can claim.
type Suite struct {
	// ID is the unique identifier for the suite.
	ID string

	// Number is the suite's label within its building (e.g., "L01").
	Number string

	// Building is the name of the building holding the suite.
	Building string

	// Size is the number of beds in the suite.
	Size int

	// DrawID is the draw offering the suite. Empty when not offered in a draw.
	DrawID string

	// GroupID is the group the suite is assigned to. Empty while available.
	GroupID string
}

// Entrant is a participant of the lottery: either a group or a student
// entering alone.
type Entrant struct {
	GroupID   string
	StudentID string
}

// Key identifies the entrant regardless of kind.
func (e Entrant) Key() string {
	if e.GroupID != "" {
		return "group:" + e.GroupID
	}
	return "student:" + e.StudentID
}

// SizeSummary counts the suites of one size in a draw.
type SizeSummary struct {
	Size      int
	Available int
	Assigned  int
}

// StudentSummary counts the students of a draw.
type StudentSummary struct {
	ByIntent  map[Intent]int
	Grouped   int
	Ungrouped int
}
