package main

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var db *sql.DB

type StoredMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// openDatabase opens the sqlite file at path and creates the message table.
// Visitor tables are owned by initVisitorTracking.
func openDatabase(path string) (*sql.DB, error) {
	// _time_format=sqlite stores times in a layout DATE() and datetime()
	// understand.
	dsn := path + "?_time_format=sqlite"
	if strings.Contains(path, "?") {
		dsn = path + "&_time_format=sqlite"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Single connection: sqlite allows one writer.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	_, err = conn.Exec(`
	CREATE TABLE IF NOT EXISTS contact_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		delivered INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create contact_messages: %w", err)
	}
	return conn, nil
}

// saveContactMessage archives a submission. It is a no-op without a database.
func saveContactMessage(msg ContactMessage, delivered bool) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`
		INSERT INTO contact_messages (name, email, message, delivered, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.Name, msg.Email, msg.Message, delivered, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	return nil
}

func listContactMessages(limit int) ([]StoredMessage, error) {
	if db == nil {
		return nil, nil
	}
	rows, err := db.Query(`
		SELECT id, name, email, message, delivered, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Delivered, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// deleteContactMessage reports whether a row was removed.
func deleteContactMessage(id int64) (bool, error) {
	if db == nil {
		return false, nil
	}
	result, err := db.Exec("DELETE FROM contact_messages WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete contact message %d: %w", id, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
