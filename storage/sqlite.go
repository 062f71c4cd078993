package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteRegistry struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteRegistry, error) {
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS tickets (
		channel_id  TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		claimant_id TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL,
		base_name   TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tickets_owner ON tickets(owner_id);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	log.Printf("[DB] SQLite ticket registry initialised at %s", path)
	return &SQLiteRegistry{db: db}, nil
}

func (s *SQLiteRegistry) RecordOwner(t Ticket) error {
	_, err := s.db.Exec(
		"INSERT INTO tickets (channel_id, owner_id, claimant_id, category, base_name, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		t.ChannelID, t.OwnerID, t.ClaimantID, t.Category, t.BaseName, t.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteRegistry) Get(channelID string) (*Ticket, error) {
	row := s.db.QueryRow(
		"SELECT channel_id, owner_id, claimant_id, category, base_name, created_at FROM tickets WHERE channel_id = ?",
		channelID,
	)
	var t Ticket
	var created string
	err := row.Scan(&t.ChannelID, &t.OwnerID, &t.ClaimantID, &t.Category, &t.BaseName, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &t, nil
}

func (s *SQLiteRegistry) SetClaimant(channelID, userID string) error {
	res, err := s.db.Exec("UPDATE tickets SET claimant_id = ? WHERE channel_id = ?", userID, channelID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no open ticket for channel %s", channelID)
	}
	return nil
}

func (s *SQLiteRegistry) ClearClaimant(channelID string) error {
	return s.SetClaimant(channelID, "")
}

func (s *SQLiteRegistry) Remove(channelID string) error {
	_, err := s.db.Exec("DELETE FROM tickets WHERE channel_id = ?", channelID)
	return err
}

func (s *SQLiteRegistry) CountOpenFor(userID string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tickets WHERE owner_id = ?", userID).Scan(&n)
	return n, err
}

func (s *SQLiteRegistry) ListOpen() ([]Ticket, error) {
	rows, err := s.db.Query(
		"SELECT channel_id, owner_id, claimant_id, category, base_name, created_at FROM tickets ORDER BY channel_id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		var created string
		if err := rows.Scan(&t.ChannelID, &t.OwnerID, &t.ClaimantID, &t.Category, &t.BaseName, &created); err != nil {
			continue
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, created)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *SQLiteRegistry) Close() error {
	return s.db.Close()
}
