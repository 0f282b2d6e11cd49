// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library maintains a SQLite catalog of the conversations in an
// export: one row per conversation with its title, timestamps, month,
// and visible message count. The catalog answers per-month statistics
// without reparsing the export.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/chatbook/internal/linearize"
	"github.com/pdiddy/chatbook/internal/split"
	"github.com/pdiddy/chatbook/pkg/types"
)

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at dbPath, creating the
// schema if it does not exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			create_time REAL,
			update_time REAL,
			month TEXT NOT NULL,
			message_count INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_month ON conversations(month)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds the outcome of an ingest run.
type IngestSummary struct {
	Ingested int
	Failed   int
}

// Ingest catalogs the given conversations. Conversations whose payload
// does not decode are counted as failed with a notice on w; the rest of
// the batch continues.
func (s *Store) Ingest(ctx context.Context, convs []split.RawConversation, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO conversations
		(title, create_time, update_time, month, message_count)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range convs {
		var conv types.Conversation
		if err := json.Unmarshal(convs[i].Raw, &conv); err != nil {
			fmt.Fprintf(w, "Skipping conversation %d: %v\n", i, err)
			summary.Failed++
			continue
		}

		month := split.BucketKey(split.Timestamp(&convs[i]), types.ModeMonth, nil)
		count := len(linearize.Conversation(&conv))

		var createTime, updateTime any
		if conv.CreateTime != nil {
			createTime = *conv.CreateTime
		}
		if conv.UpdateTime != nil {
			updateTime = *conv.UpdateTime
		}

		if _, err := stmt.ExecContext(ctx, conv.Title, createTime, updateTime, month, count); err != nil {
			return summary, fmt.Errorf("inserting conversation %d: %w", i, err)
		}
		summary.Ingested++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "Cataloged %d conversations (%d failed)\n", summary.Ingested, summary.Failed)
	return summary, nil
}

// Stats prints per-month conversation and message totals in month order,
// followed by overall totals.
func (s *Store) Stats(ctx context.Context, w io.Writer) error {
	rows, err := s.db.QueryContext(ctx, `SELECT month, COUNT(*), SUM(message_count)
		FROM conversations GROUP BY month ORDER BY month`)
	if err != nil {
		return fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	totalConvs := 0
	totalMsgs := 0
	for rows.Next() {
		var month string
		var convCount, msgCount int
		if err := rows.Scan(&month, &convCount, &msgCount); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		fmt.Fprintf(w, "%-10s %6d conversations %8d messages\n", month, convCount, msgCount)
		totalConvs += convCount
		totalMsgs += msgCount
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading rows: %w", err)
	}

	fmt.Fprintf(w, "%-10s %6d conversations %8d messages\n", "total", totalConvs, totalMsgs)
	return nil
}
