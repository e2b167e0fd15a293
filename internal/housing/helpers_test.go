package housing

import (
	"context"
	"maps"
	"slices"

	"github.com/mmynk/roomdraw/internal/models"
)

type fakeCatalog struct {
	sizes     []int
	openSizes map[string][]int
	err       error
}

func (c *fakeCatalog) SuiteSizes(context.Context) ([]int, error) {
	return c.sizes, c.err
}

func (c *fakeCatalog) OpenSuiteSizes(_ context.Context, drawID string) ([]int, error) {
	return c.openSizes[drawID], c.err
}

func (c *fakeCatalog) AssignSuite(context.Context, *models.Group, string) (string, error) {
	return "", ErrNoSuiteAvailable
}

type spyDirectory struct {
	restored []string
	leaders  []string
}

func (d *spyDirectory) Student(_ context.Context, id string) (*models.Student, error) {
	return &models.Student{ID: id}, nil
}

func (d *spyDirectory) RestoreDraw(_ context.Context, id string) error {
	d.restored = append(d.restored, id)
	return nil
}

func (d *spyDirectory) RestoreLeader(_ context.Context, id string) error {
	d.leaders = append(d.leaders, id)
	return nil
}

func student(id, drawID string) *models.Student {
	return &models.Student{ID: id, Name: id, Intent: models.IntentOnCampus, DrawID: drawID}
}

// groupWith builds a draw group led by "leader" whose other members hold
// the given statuses, keyed by student ID.
func groupWith(size int, members map[string]models.MembershipStatus) *models.Group {
	g := NewGroup(student("leader", "draw-1"), size, "draw-1", 0)
	g.ID = "group-1"
	for _, id := range slices.Sorted(maps.Keys(members)) {
		g.Memberships = append(g.Memberships, models.Membership{GroupID: g.ID, StudentID: id, Status: members[id]})
	}
	RefreshStatus(g)
	return g
}
