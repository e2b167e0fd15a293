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

const studentColumns = `id, name, email, role, intent, draw_id, old_draw_id, lottery_number, created_at`

// CreateStudent inserts a new student into the database.
func (t *txStore) CreateStudent(ctx context.Context, s *models.Student) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = time.Now().Unix()
	}
	if s.Role == "" {
		s.Role = models.RoleStudent
	}
	if s.Intent == "" {
		s.Intent = models.IntentUndeclared
	}

	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := t.tx.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Email,
		string(s.Role),
		string(s.Intent),
		nullable(s.DrawID),
		nullable(s.OldDrawID),
		s.LotteryNumber,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// UpdateStudent writes the student's intent and draw.
func (t *txStore) UpdateStudent(ctx context.Context, s *models.Student) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE students SET intent = ?, draw_id = ? WHERE id = ?",
		string(s.Intent), nullable(s.DrawID), s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return studentAffected(res, s.ID)
}

// Student implements housing.UserDirectory.
func (t *txStore) Student(ctx context.Context, studentID string) (*models.Student, error) {
	return t.GetStudent(ctx, studentID)
}

// RestoreDraw moves the student back to the draw they left for a drawless group.
func (t *txStore) RestoreDraw(ctx context.Context, studentID string) error {
	return t.restore(ctx, studentID)
}

// RestoreLeader moves a drawless group's leader back to their draw.
func (t *txStore) RestoreLeader(ctx context.Context, studentID string) error {
	return t.restore(ctx, studentID)
}

func (t *txStore) restore(ctx context.Context, studentID string) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE students SET draw_id = COALESCE(old_draw_id, draw_id), old_draw_id = NULL WHERE id = ?`,
		studentID,
	)
	if err != nil {
		return fmt.Errorf("failed to restore draw: %w", err)
	}
	return studentAffected(res, studentID)
}

// PullFromDraw detaches the student from their draw, remembering it for later.
func (t *txStore) PullFromDraw(ctx context.Context, studentID string) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE students SET old_draw_id = COALESCE(draw_id, old_draw_id), draw_id = NULL WHERE id = ?`,
		studentID,
	)
	if err != nil {
		return fmt.Errorf("failed to pull student from draw: %w", err)
	}
	return studentAffected(res, studentID)
}

func studentAffected(res sql.Result, studentID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("student %s: %w", studentID, storage.ErrNotFound)
	}
	return nil
}

// GetStudent retrieves a student by their ID.
func (q queries) GetStudent(ctx context.Context, studentID string) (*models.Student, error) {
	s, err := scanStudent(q.q.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id = ?", studentID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %s: %w", studentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

// ListStudents retrieves the students currently in a draw.
func (q queries) ListStudents(ctx context.Context, drawID string) ([]*models.Student, error) {
	rows, err := q.q.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE draw_id = ? ORDER BY name, id", drawID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	var drawID, oldDrawID sql.NullString
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Role,
		&s.Intent,
		&drawID,
		&oldDrawID,
		&s.LotteryNumber,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.DrawID = drawID.String
	s.OldDrawID = oldDrawID.String
	return s, nil
}
