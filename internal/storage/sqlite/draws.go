package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/roomdraw/internal/models"
	"github.com/mmynk/roomdraw/internal/storage"
)

// CreateDraw persists a new draw to the database.
func (t *txStore) CreateDraw(ctx context.Context, d *models.Draw) error {
	// Generate ID if not set
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = time.Now().Unix()
	}
	if d.Status == "" {
		d.Status = models.DrawDraft
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO draws (id, name, status, lottery_assigned, created_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, string(d.Status), d.LotteryAssigned, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// TransitionDraw moves a draw from one phase to another.
func (t *txStore) TransitionDraw(ctx context.Context, drawID string, from, to models.DrawStatus) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE draws SET status = ? WHERE id = ? AND status = ?", string(to), drawID, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update draw: %w", err)
	}
	return t.drawAffected(ctx, res, drawID)
}

// MarkLotteryAssigned flips the draw's lottery flag exactly once.
func (t *txStore) MarkLotteryAssigned(ctx context.Context, drawID string) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE draws SET lottery_assigned = 1 WHERE id = ? AND lottery_assigned = 0", drawID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark lottery assigned: %w", err)
	}
	return t.drawAffected(ctx, res, drawID)
}

// SetLotteryNumber stores the rank of a group or solo student.
func (t *txStore) SetLotteryNumber(ctx context.Context, e models.Entrant, n int) error {
	query, id := "UPDATE groups SET lottery_number = ?, version = version + 1 WHERE id = ?", e.GroupID
	if e.GroupID == "" {
		query, id = "UPDATE students SET lottery_number = ? WHERE id = ?", e.StudentID
	}
	res, err := t.tx.ExecContext(ctx, query, n, id)
	if err != nil {
		return fmt.Errorf("failed to set lottery number: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entrant %s: %w", e.Key(), storage.ErrNotFound)
	}
	return nil
}

// drawAffected turns a zero-row write into ErrNotFound or ErrConflict.
func (t *txStore) drawAffected(ctx context.Context, res sql.Result, drawID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := t.GetDraw(ctx, drawID); err != nil {
		return err
	}
	return fmt.Errorf("draw %s: %w", drawID, storage.ErrConflict)
}

// GetDraw retrieves a draw by ID.
func (q queries) GetDraw(ctx context.Context, drawID string) (*models.Draw, error) {
	d := &models.Draw{}
	err := q.q.QueryRowContext(ctx,
		"SELECT id, name, status, lottery_assigned, created_at FROM draws WHERE id = ?", drawID,
	).Scan(&d.ID, &d.Name, &d.Status, &d.LotteryAssigned, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draw %s: %w", drawID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	return d, nil
}
