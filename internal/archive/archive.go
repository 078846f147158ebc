// Package archive keeps a write-only SQLite transcript of optimizer sessions.
// Transcripts are never loaded back into a live session.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ThinkWhy/internal/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	start_time DATETIME,
	saved_at DATETIME,
	audience TEXT,
	theme TEXT,
	tone TEXT,
	hashtag_count INTEGER
);
CREATE TABLE IF NOT EXISTS turns (
	session_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	PRIMARY KEY (session_id, position),
	FOREIGN KEY(session_id) REFERENCES sessions(id)
);`

// Archive stores session transcripts
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the archive database at path
func Open(path string, logger *slog.Logger) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive tables: %w", err)
	}
	return &Archive{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}

// Save writes the current state of sess, replacing any earlier copy of it
func (a *Archive) Save(ctx context.Context, sess *session.Session) error {
	history := sess.History()
	if len(history) == 0 {
		return nil
	}
	p := sess.Params()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, start_time, saved_at, audience, theme, tone, hashtag_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.StartTime, a.now(), p.Audience, p.Theme, p.Tone, p.HashtagCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM turns WHERE session_id = ?", sess.ID); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}
	for i, turn := range history {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO turns (session_id, position, role, content) VALUES (?, ?, ?, ?)",
			sess.ID, i, string(turn.Role), turn.Content,
		)
		if err != nil {
			return fmt.Errorf("failed to save turn %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	a.logger.Info("session archived", "session_id", sess.ID, "turn_count", len(history))
	return nil
}

// Transcript returns the archived turns of a session in log order
func (a *Archive) Transcript(ctx context.Context, sessionID string) ([]session.Turn, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT role, content FROM turns WHERE session_id = ? ORDER BY position", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	defer rows.Close()

	var turns []session.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, session.Turn{Role: session.Role(role), Content: content})
	}
	return turns, rows.Err()
}
