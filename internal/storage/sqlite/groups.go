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

const groupColumns = `
	g.id, g.size, g.status, g.leader_id, s.name, g.draw_id, g.transfers,
	g.lottery_number, g.created_at, g.version, su.id`

const groupFrom = `
	FROM groups g
	JOIN students s ON s.id = g.leader_id
	LEFT JOIN suites su ON su.group_id = g.id`

// CreateGroup persists a new group and its memberships.
func (t *txStore) CreateGroup(ctx context.Context, g *models.Group) error {
	// Generate ID if not set
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt == 0 {
		g.CreatedAt = time.Now().Unix()
	}
	g.Version = 1

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO groups (id, size, status, leader_id, draw_id, transfers, lottery_number, created_at, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Size, string(g.Status), g.LeaderID, nullable(g.DrawID), g.Transfers, g.LotteryNumber, g.CreatedAt, g.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i := range g.Memberships {
		if err := t.insertMembership(ctx, g, &g.Memberships[i], int64(i+1)); err != nil {
			return err
		}
	}

	g.StoredSize = g.Size
	return nil
}

// SaveGroup updates the group row and reconciles its memberships.
func (t *txStore) SaveGroup(ctx context.Context, g *models.Group) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE groups SET size = ?, status = ?, transfers = ?, lottery_number = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		g.Size, string(g.Status), g.Transfers, g.LotteryNumber, g.ID, g.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if err := t.checkVersion(ctx, res, g.ID); err != nil {
		return err
	}

	current, err := t.membershipStatuses(ctx, g.ID)
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(g.Memberships))
	for _, m := range g.Memberships {
		if m.ID != "" {
			keep[m.ID] = true
		}
	}
	for id := range current {
		if keep[id] {
			continue
		}
		if _, err := t.tx.ExecContext(ctx, "DELETE FROM memberships WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete membership: %w", err)
		}
	}

	var nextSeq int64
	err = t.tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM memberships WHERE group_id = ?", g.ID,
	).Scan(&nextSeq)
	if err != nil {
		return fmt.Errorf("failed to get membership sequence: %w", err)
	}

	for i := range g.Memberships {
		m := &g.Memberships[i]
		if m.ID == "" {
			nextSeq++
			if err := t.insertMembership(ctx, g, m, nextSeq); err != nil {
				return err
			}
			continue
		}
		if current[m.ID] == m.Status {
			continue
		}
		if _, err := t.tx.ExecContext(ctx,
			"UPDATE memberships SET status = ? WHERE id = ?", string(m.Status), m.ID,
		); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}
	}

	g.Version++
	g.StoredSize = g.Size
	return nil
}

// DeleteGroup removes a group. Memberships go with it and its suite is released.
func (t *txStore) DeleteGroup(ctx context.Context, g *models.Group) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ? AND version = ?", g.ID, g.Version)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return t.checkVersion(ctx, res, g.ID)
}

// DeletePendingMemberships removes the student's pending memberships in other groups.
func (t *txStore) DeletePendingMemberships(ctx context.Context, studentID, exceptGroupID string) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM memberships
		 WHERE student_id = ? AND group_id != ? AND status IN (?, ?)`,
		studentID, exceptGroupID, string(models.MembershipRequested), string(models.MembershipInvited),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending memberships: %w", err)
	}
	return res.RowsAffected()
}

func (t *txStore) insertMembership(ctx context.Context, g *models.Group, m *models.Membership, seq int64) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().Unix()
	}
	m.GroupID = g.ID
	m.Seq = seq

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO memberships (id, group_id, student_id, status, seq, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.GroupID, m.StudentID, string(m.Status), m.Seq, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// checkVersion turns a zero-row write into ErrNotFound or ErrConflict.
func (t *txStore) checkVersion(ctx context.Context, res sql.Result, groupID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = t.tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return fmt.Errorf("group %s: %w", groupID, storage.ErrConflict)
}

func (t *txStore) membershipStatuses(ctx context.Context, groupID string) (map[string]models.MembershipStatus, error) {
	rows, err := t.tx.QueryContext(ctx, "SELECT id, status FROM memberships WHERE group_id = ?", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]models.MembershipStatus)
	for rows.Next() {
		var (
			id     string
			status models.MembershipStatus
		)
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		statuses[id] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return statuses, nil
}

// GetGroup retrieves a group by ID, including its memberships.
func (q queries) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	g, err := scanGroup(q.q.QueryRowContext(ctx,
		"SELECT "+groupColumns+groupFrom+" WHERE g.id = ?", groupID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := q.loadMemberships(ctx, []*models.Group{g}); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGroups retrieves the groups of a draw, or the drawless groups when drawID is empty.
func (q queries) ListGroups(ctx context.Context, drawID string) ([]*models.Group, error) {
	query := "SELECT " + groupColumns + groupFrom
	var args []any
	if drawID == "" {
		query += " WHERE g.draw_id IS NULL"
	} else {
		query += " WHERE g.draw_id = ?"
		args = append(args, drawID)
	}
	query += " ORDER BY g.created_at, g.id"

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	if err := q.loadMemberships(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// FullMembershipOf returns the student's accepted or locked membership, or nil.
func (q queries) FullMembershipOf(ctx context.Context, studentID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := q.q.QueryRowContext(ctx,
		`SELECT m.id, m.group_id, m.student_id, s.name, m.status, m.seq, m.created_at
		 FROM memberships m JOIN students s ON s.id = m.student_id
		 WHERE m.student_id = ? AND m.status IN (?, ?)`,
		studentID, string(models.MembershipAccepted), string(models.MembershipLocked),
	).Scan(&m.ID, &m.GroupID, &m.StudentID, &m.StudentName, &m.Status, &m.Seq, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No full membership
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// loadMemberships fills in the memberships of the given groups in one query.
func (q queries) loadMemberships(ctx context.Context, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	byID := make(map[string]*models.Group, len(groups))
	args := make([]any, len(groups))
	for i, g := range groups {
		byID[g.ID] = g
		args[i] = g.ID
	}

	rows, err := q.q.QueryContext(ctx,
		`SELECT m.id, m.group_id, m.student_id, s.name, m.status, m.seq, m.created_at
		 FROM memberships m JOIN students s ON s.id = m.student_id
		 WHERE m.group_id IN (?`+repeatPlaceholder(len(groups)-1)+`)
		 ORDER BY m.group_id, m.seq`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ID, &m.GroupID, &m.StudentID, &m.StudentName, &m.Status, &m.Seq, &m.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan membership: %w", err)
		}
		g := byID[m.GroupID]
		g.Memberships = append(g.Memberships, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	g := &models.Group{}
	var drawID, suiteID sql.NullString
	err := row.Scan(&g.ID, &g.Size, &g.Status, &g.LeaderID, &g.LeaderName, &drawID, &g.Transfers,
		&g.LotteryNumber, &g.CreatedAt, &g.Version, &suiteID)
	if err != nil {
		return nil, err
	}
	g.DrawID = drawID.String
	g.SuiteID = suiteID.String
	g.StoredSize = g.Size
	return g, nil
}
