package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: draws and students must be created before groups due to foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS draws (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    lottery_assigned INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL,
    intent TEXT NOT NULL,
    draw_id TEXT,
    old_draw_id TEXT,
    lottery_number INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (draw_id) REFERENCES draws(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    size INTEGER NOT NULL CHECK (size > 0),
    status TEXT NOT NULL,
    leader_id TEXT NOT NULL UNIQUE,
    draw_id TEXT,
    transfers INTEGER NOT NULL DEFAULT 0 CHECK (transfers >= 0),
    lottery_number INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    version INTEGER NOT NULL,
    FOREIGN KEY (leader_id) REFERENCES students(id),
    FOREIGN KEY (draw_id) REFERENCES draws(id)
);

CREATE TABLE IF NOT EXISTS memberships (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    student_id TEXT NOT NULL,
    status TEXT NOT NULL,
    seq INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (group_id, student_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS suites (
    id TEXT PRIMARY KEY,
    number TEXT NOT NULL,
    building TEXT NOT NULL,
    size INTEGER NOT NULL CHECK (size > 0),
    draw_id TEXT,
    group_id TEXT UNIQUE,
    FOREIGN KEY (draw_id) REFERENCES draws(id) ON DELETE SET NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE SET NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_full_student
    ON memberships(student_id) WHERE status IN ('accepted', 'locked');
CREATE INDEX IF NOT EXISTS idx_memberships_group_id ON memberships(group_id, seq);
CREATE INDEX IF NOT EXISTS idx_groups_draw_id ON groups(draw_id);
CREATE INDEX IF NOT EXISTS idx_students_draw_id ON students(draw_id);
CREATE INDEX IF NOT EXISTS idx_suites_draw_id ON suites(draw_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
