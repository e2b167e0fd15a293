package models

// Role is what a user may do beyond managing their own memberships.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Intent is a student's stated housing plan.
type Intent string

const (
	IntentOnCampus   Intent = "on_campus"
	IntentOffCampus  Intent = "off_campus"
	IntentUndeclared Intent = "undeclared"
)

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	switch i {
	case IntentOnCampus, IntentOffCampus, IntentUndeclared:
		return true
	}
	return false
}

// Student represents a user as seen by the housing engine.
//
// Accounts are owned by the user directory; roomdraw only reads them and moves
// students between draws when drawless groups are created or dissolved.
type Student struct {
	// ID is the unique identifier for the student.
	ID string

	// Name is the display name of the student.
	Name string

	// Email is the student's email address (unique).
	Email string

	// Role decides whether the student may run administrative operations.
	Role Role

	// Intent is the student's housing plan. Only on-campus students join groups.
	Intent Intent

	// DrawID is the draw the student currently belongs to. Empty when drawless.
	DrawID string

	// OldDrawID is the draw the student left when pulled into a drawless group.
	OldDrawID string

	// LotteryNumber is the rank of a student entering the lottery alone.
	LotteryNumber int

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// Admin reports whether the student has administrative rights.
func (s *Student) Admin() bool {
	return s.Role == RoleAdmin
}
