package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Index is a local SQLite projection of parsed expense rows, used for
// fast summaries without re-reading every month note. Like the
// structure caches it is disposable: rebuild it from the remote
// hierarchy at any time.
type Index struct {
	db     *sql.DB
	dbPath string
}

// NewIndex creates an unopened index.
func NewIndex() *Index {
	return &Index{}
}

// DefaultPath returns the index location under the XDG data directory.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "joplin-expenses", "index.db")
}

// Open initializes the database at dbPath, creating the schema when
// needed.
func (idx *Index) Open(dbPath string) error {
	if dbPath == "" {
		dbPath = DefaultPath()
	}
	idx.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS entries (
			note_id TEXT NOT NULL,
			year TEXT NOT NULL,
			month INTEGER NOT NULL,
			price TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			date TEXT NOT NULL,
			shop TEXT NOT NULL,
			recurring TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_year_month ON entries(year, month);
		CREATE INDEX IF NOT EXISTS idx_entries_note ON entries(note_id);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// ReplaceMonth swaps the indexed rows of one month note for the given
// entries in a single transaction.
func (idx *Index) ReplaceMonth(noteID, year string, month int, entries []domain.ExpenseEntry) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("failed to clear month rows: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (note_id, year, month, price, description, category, date, shop, recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.Exec(noteID, year, month, e.Price.String(), e.Description, e.Category, e.Date, e.Shop, e.Recurring)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	return tx.Commit()
}

// SumByCategory totals indexed prices per category for a year. A month
// of 0 covers the whole year.
func (idx *Index) SumByCategory(year string, month int) (map[string]decimal.Decimal, error) {
	query := `SELECT category, price FROM entries WHERE year = ?`
	args := []any{year}
	if month > 0 {
		query += ` AND month = ?`
		args = append(args, month)
	}

	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category, price string
		if err := rows.Scan(&category, &price); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(price)
		if err != nil {
			continue
		}
		sums[category] = sums[category].Add(value)
	}
	return sums, rows.Err()
}

// CountEntries reports how many rows are indexed for a year.
func (idx *Index) CountEntries(year string) (int, error) {
	var count int
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM entries WHERE year = ?`, year).Scan(&count)
	return count, err
}
