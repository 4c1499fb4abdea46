package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. The partial unique indexes carry the
// workflow invariants; every conflicting create hits one of them inside
// its transaction instead of relying on read-then-write discipline.
func (db *DB) RunMigrations() error {
	migration := `
-- Recruitment processes
CREATE TABLE processes (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('active', 'completed', 'cancelled')),
    started_by TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ended_by TEXT,
    ended_at TIMESTAMP
);
-- At most one active process.
CREATE UNIQUE INDEX idx_single_active_process ON processes(status) WHERE status = 'active';
CREATE INDEX idx_processes_started_at ON processes(started_at);

-- Participants, unique per (process, user)
CREATE TABLE participants (
    id TEXT PRIMARY KEY,
    process_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('pending', 'interviewing', 'approved', 'rejected', 'withdrawn')),
    phase TEXT NOT NULL DEFAULT '',
    score INTEGER,
    notes TEXT NOT NULL DEFAULT '',
    joined_at TIMESTAMP NOT NULL,
    FOREIGN KEY (process_id) REFERENCES processes(id),
    UNIQUE (process_id, user_id)
);
CREATE INDEX idx_participants_process ON participants(process_id);
CREATE INDEX idx_participants_user ON participants(user_id);

-- Invites; rows are never deleted, terminal statuses kept for audit
CREATE TABLE invites (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    message_id TEXT NOT NULL,
    sent_by TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('pending', 'accepted', 'declined', 'expired', 'entered', 'confirmed', 'cancelled')),
    sent_at TIMESTAMP NOT NULL,
    responded_at TIMESTAMP,
    expires_at TIMESTAMP,
    invite_url TEXT,
    confirmation_channel_id TEXT,
    confirmation_message_id TEXT
);
-- At most one pending invite per candidate.
CREATE UNIQUE INDEX idx_single_pending_invite ON invites(user_id) WHERE status = 'pending';
CREATE INDEX idx_invites_user ON invites(user_id);
CREATE INDEX idx_invites_sent_at ON invites(sent_at);
CREATE INDEX idx_invites_confirmation ON invites(confirmation_message_id);

-- Interviews
CREATE TABLE interviews (
    id TEXT PRIMARY KEY,
    process_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    interviewer_id TEXT NOT NULL,
    interviewer_name TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('scheduled', 'in_progress', 'completed', 'cancelled')),
    started_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP,
    result TEXT NOT NULL DEFAULT 'pending' CHECK(result IN ('pending', 'approved', 'rejected')),
    score INTEGER,
    comments TEXT NOT NULL DEFAULT '',
    feedback TEXT NOT NULL DEFAULT '',
    duration_minutes INTEGER,
    FOREIGN KEY (process_id) REFERENCES processes(id),
    FOREIGN KEY (participant_id) REFERENCES participants(id)
);
-- At most one non-cancelled interview per participant.
CREATE UNIQUE INDEX idx_single_interview ON interviews(participant_id) WHERE status != 'cancelled';
CREATE INDEX idx_interviews_process ON interviews(process_id);
CREATE INDEX idx_interviews_user ON interviews(user_id);

-- Support tickets
CREATE TABLE tickets (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    thread_id TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL CHECK(status IN ('open', 'closed')),
    created_at TIMESTAMP NOT NULL,
    closed_at TIMESTAMP,
    closed_by TEXT
);
-- At most one open ticket per user.
CREATE UNIQUE INDEX idx_single_open_ticket ON tickets(user_id) WHERE status = 'open';
CREATE INDEX idx_tickets_created_at ON tickets(created_at);

-- Ticket transcript, append-only
CREATE TABLE ticket_messages (
    id TEXT PRIMARY KEY,
    ticket_id TEXT NOT NULL,
    author_id TEXT NOT NULL,
    author_name TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('user', 'staff', 'system')),
    attachments TEXT,
    embeds TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (ticket_id) REFERENCES tickets(id)
);
CREATE INDEX idx_ticket_messages_ticket ON ticket_messages(ticket_id, created_at);

-- Archival record, written once at close
CREATE TABLE ticket_summaries (
    ticket_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    closed_at TIMESTAMP NOT NULL,
    closed_by TEXT NOT NULL,
    total_messages INTEGER NOT NULL,
    staff_messages INTEGER NOT NULL,
    user_messages INTEGER NOT NULL,
    resolution_minutes INTEGER NOT NULL,
    FOREIGN KEY (ticket_id) REFERENCES tickets(id)
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
