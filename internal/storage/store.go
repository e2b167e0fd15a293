// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a record changed since it was read.
	ErrConflict = errors.New("concurrent modification")
)

// Reader defines the read operations shared by the store and its transactions.
type Reader interface {
	// GetGroup retrieves a group with its memberships in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves the groups of a draw. An empty drawID lists drawless groups.
	ListGroups(ctx context.Context, drawID string) ([]*models.Group, error)

	// GetDraw retrieves a draw by ID.
	GetDraw(ctx context.Context, drawID string) (*models.Draw, error)

	// GetStudent retrieves a student by ID.
	GetStudent(ctx context.Context, studentID string) (*models.Student, error)

	// ListStudents retrieves the students currently in a draw.
	ListStudents(ctx context.Context, drawID string) ([]*models.Student, error)

	// ListSuites retrieves the suites offered in a draw.
	ListSuites(ctx context.Context, drawID string) ([]*models.Suite, error)

	// GetSuite retrieves a suite by ID.
	GetSuite(ctx context.Context, suiteID string) (*models.Suite, error)

	// FullMembershipOf returns the accepted or locked membership of a student.
	// Returns nil and no error when the student has none.
	FullMembershipOf(ctx context.Context, studentID string) (*models.Membership, error)
}

// Tx is a unit of work. Everything written through a Tx is committed
// together or not at all.
//
// A Tx is also the user directory and suite catalog the housing rules
// consult, so their reads and writes join the same transaction.
type Tx interface {
	Reader
	housing.UserDirectory
	housing.SuiteCatalog

	// CreateGroup persists a new group and its memberships.
	// The group and membership IDs are populated by the store.
	CreateGroup(ctx context.Context, g *models.Group) error

	// SaveGroup writes the group and reconciles its memberships: new ones are
	// inserted, changed ones updated, missing ones deleted. Returns ErrConflict
	// when the group's version moved since it was read.
	SaveGroup(ctx context.Context, g *models.Group) error

	// DeleteGroup removes the group and its memberships.
	DeleteGroup(ctx context.Context, g *models.Group) error

	// DeletePendingMemberships removes the student's requested and invited
	// memberships in every group except exceptGroupID.
	DeletePendingMemberships(ctx context.Context, studentID, exceptGroupID string) (int64, error)

	// PullFromDraw remembers the student's draw and detaches them from it.
	PullFromDraw(ctx context.Context, studentID string) error

	// CreateStudent persists a new student.
	CreateStudent(ctx context.Context, s *models.Student) error

	// UpdateStudent writes the student's intent and draw.
	UpdateStudent(ctx context.Context, s *models.Student) error

	// CreateSuite persists a new suite.
	CreateSuite(ctx context.Context, s *models.Suite) error

	// OfferSuite moves an unassigned suite into a draw, or out of every draw
	// when drawID is empty.
	OfferSuite(ctx context.Context, suiteID, drawID string) error

	// CreateDraw persists a new draw in the draft phase.
	CreateDraw(ctx context.Context, d *models.Draw) error

	// TransitionDraw moves a draw from one phase to the next. Returns
	// ErrConflict when the draw is not in phase from.
	TransitionDraw(ctx context.Context, drawID string, from, to models.DrawStatus) error

	// MarkLotteryAssigned sets the draw's one-shot lottery flag. Returns
	// ErrConflict when it was already set.
	MarkLotteryAssigned(ctx context.Context, drawID string) error

	// SetLotteryNumber stores the rank of a lottery entrant.
	SetLotteryNumber(ctx context.Context, e models.Entrant, n int) error
}

// Store defines the interface for housing storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	Reader

	// InTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}
