// Package housing holds the rules of the housing lottery: who may join a
// group, when a group is full or lockable, which suite sizes a group may
// have, and how memberships move between states.
//
// Every transition works on a *models.Group in memory and leaves it untouched
// when it fails. Persisting the result, and doing so atomically, is the
// caller's job.
package housing

import (
	"context"

	"github.com/mmynk/roomdraw/internal/models"
)

// UserDirectory is the source of student identity and draw placement.
type UserDirectory interface {
	// Student returns the student with the given ID.
	Student(ctx context.Context, studentID string) (*models.Student, error)

	// RestoreDraw moves a former member of a dissolved drawless group back
	// to the draw they were in before joining it.
	RestoreDraw(ctx context.Context, studentID string) error

	// RestoreLeader does the same for the leader of a dissolved drawless group.
	RestoreLeader(ctx context.Context, studentID string) error
}

// SuiteCatalog knows which suites exist and which are still free.
type SuiteCatalog interface {
	// SuiteSizes returns every suite size known to the catalog.
	SuiteSizes(ctx context.Context) ([]int, error)

	// OpenSuiteSizes returns the sizes with at least one unassigned suite in the draw.
	OpenSuiteSizes(ctx context.Context, drawID string) ([]int, error)

	// AssignSuite gives the group a suite of the given size. suiteID may name a
	// specific suite; when empty any matching suite is used. It returns the
	// assigned suite ID or ErrNoSuiteAvailable.
	AssignSuite(ctx context.Context, g *models.Group, suiteID string) (string, error)
}

// LotteryRandomizer produces a random total order over lottery entrants.
type LotteryRandomizer interface {
	Order(ctx context.Context, entrants []models.Entrant) ([]models.Entrant, error)
}
