package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/models"
	"github.com/mmynk/roomdraw/internal/storage"
)

// CreateSuite inserts a new suite.
func (t *txStore) CreateSuite(ctx context.Context, s *models.Suite) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO suites (id, number, building, size, draw_id, group_id) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Number, s.Building, s.Size, nullable(s.DrawID), nullable(s.GroupID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert suite: %w", err)
	}
	return nil
}

// SuiteSizes returns every suite size in the catalog.
func (t *txStore) SuiteSizes(ctx context.Context) ([]int, error) {
	return t.sizes(ctx, "SELECT DISTINCT size FROM suites ORDER BY size")
}

// OpenSuiteSizes returns the sizes with an unassigned suite in the draw.
func (t *txStore) OpenSuiteSizes(ctx context.Context, drawID string) ([]int, error) {
	return t.sizes(ctx,
		"SELECT DISTINCT size FROM suites WHERE draw_id = ? AND group_id IS NULL ORDER BY size", drawID)
}

func (t *txStore) sizes(ctx context.Context, query string, args ...any) ([]int, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get suite sizes: %w", err)
	}
	defer rows.Close()

	var sizes []int
	for rows.Next() {
		var size int
		if err := rows.Scan(&size); err != nil {
			return nil, fmt.Errorf("failed to scan suite size: %w", err)
		}
		sizes = append(sizes, size)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suite sizes: %w", err)
	}
	return sizes, nil
}

// AssignSuite gives the group a free suite of its size. Draw groups only
// get suites offered in their draw.
func (t *txStore) AssignSuite(ctx context.Context, g *models.Group, suiteID string) (string, error) {
	scope := ""
	args := []any{g.Size}
	if !g.Drawless() {
		scope = " AND draw_id = ?"
		args = append(args, g.DrawID)
	}

	if suiteID == "" {
		err := t.tx.QueryRowContext(ctx,
			"SELECT id FROM suites WHERE size = ? AND group_id IS NULL"+scope+" ORDER BY building, number LIMIT 1",
			args...,
		).Scan(&suiteID)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: size %d", housing.ErrNoSuiteAvailable, g.Size)
		}
		if err != nil {
			return "", fmt.Errorf("failed to find suite: %w", err)
		}
	}

	res, err := t.tx.ExecContext(ctx,
		"UPDATE suites SET group_id = ? WHERE id = ? AND size = ? AND group_id IS NULL"+scope,
		append([]any{g.ID, suiteID}, args...)...,
	)
	if err != nil {
		return "", fmt.Errorf("failed to assign suite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: suite %s does not fit group %s", housing.ErrNoSuiteAvailable, suiteID, g.ID)
	}
	return suiteID, nil
}

// OfferSuite moves an unassigned suite into a draw or out of every draw.
func (t *txStore) OfferSuite(ctx context.Context, suiteID, drawID string) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE suites SET draw_id = ? WHERE id = ? AND group_id IS NULL",
		nullable(drawID), suiteID,
	)
	if err != nil {
		return fmt.Errorf("failed to offer suite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: suite %s is unknown or assigned", storage.ErrConflict, suiteID)
	}
	return nil
}

// GetSuite retrieves a suite by ID.
func (q queries) GetSuite(ctx context.Context, suiteID string) (*models.Suite, error) {
	s := &models.Suite{}
	var draw, group sql.NullString
	err := q.q.QueryRowContext(ctx,
		"SELECT id, number, building, size, draw_id, group_id FROM suites WHERE id = ?", suiteID,
	).Scan(&s.ID, &s.Number, &s.Building, &s.Size, &draw, &group)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("suite %s: %w", suiteID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suite: %w", err)
	}
	s.DrawID = draw.String
	s.GroupID = group.String
	return s, nil
}

// ListSuites retrieves the suites offered in a draw.
func (q queries) ListSuites(ctx context.Context, drawID string) ([]*models.Suite, error) {
	rows, err := q.q.QueryContext(ctx,
		`SELECT id, number, building, size, draw_id, group_id FROM suites
		 WHERE draw_id = ? ORDER BY size, building, number`,
		drawID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list suites: %w", err)
	}
	defer rows.Close()

	var suites []*models.Suite
	for rows.Next() {
		s := &models.Suite{}
		var draw, group sql.NullString
		if err := rows.Scan(&s.ID, &s.Number, &s.Building, &s.Size, &draw, &group); err != nil {
			return nil, fmt.Errorf("failed to scan suite: %w", err)
		}
		s.DrawID = draw.String
		s.GroupID = group.String
		suites = append(suites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suites: %w", err)
	}
	return suites, nil
}
