package housing

import (
	"context"
	"fmt"
	"slices"

	"github.com/mmynk/roomdraw/internal/models"
)

// ValidSizes returns the sizes the group may have.
//
// Draw groups may pick any size that still has an open suite in their draw,
// plus the size they were last saved with so an existing group is never
// invalidated when the last suite of its size goes. Drawless groups may pick
// any size the catalog knows.
func ValidSizes(ctx context.Context, catalog SuiteCatalog, g *models.Group) ([]int, error) {
	var (
		sizes []int
		err   error
	)
	if g.Drawless() {
		sizes, err = catalog.SuiteSizes(ctx)
	} else {
		sizes, err = catalog.OpenSuiteSizes(ctx, g.DrawID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suite sizes: %w", err)
	}

	sizes = slices.Clone(sizes)
	if !g.Drawless() && g.StoredSize > 0 {
		sizes = append(sizes, g.StoredSize)
	}
	slices.Sort(sizes)
	return slices.Compact(sizes), nil
}

// CheckSize returns ErrInvalidSize when the group's size is not valid for its context.
func CheckSize(ctx context.Context, catalog SuiteCatalog, g *models.Group) error {
	sizes, err := ValidSizes(ctx, catalog, g)
	if err != nil {
		return err
	}
	if !slices.Contains(sizes, g.Size) {
		return fmt.Errorf("%w: %d not in %v", ErrInvalidSize, g.Size, sizes)
	}
	return nil
}
