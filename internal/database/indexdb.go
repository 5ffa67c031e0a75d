package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/zotsearch/zotsearch/internal/model"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBFileName is the SQLite database file created inside Options.Dir.
const DBFileName = "zotsearch.db"

// IndexDB is the persistent inverted index.
type IndexDB struct {
	// db is the underlying connection pool.
	db *sqlx.DB

	// driver is DriverSQLite or DriverPostgres.
	driver string

	// dbPath is the SQLite file path; empty for PostgreSQL.
	dbPath string
}

// Options configures Open.
type Options struct {
	// Driver is DriverSQLite (default) or DriverPostgres.
	Driver string

	// Dir is the directory of the SQLite database file.
	Dir string

	// DSN is the PostgreSQL connection string.
	DSN string

	// CreateIfNotExists creates the SQLite directory and file when missing.
	CreateIfNotExists bool

	// EnableWAL turns on SQLite write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns options for a SQLite index in dir.
func DefaultOptions(dir string) Options {
	return Options{
		Driver:            DriverSQLite,
		Dir:               dir,
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the index described by opts and creates its schema.
func Open(opts Options) (*IndexDB, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		return openSQLite(opts)
	case DriverPostgres:
		return openPostgres(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}
}

func openSQLite(opts Options) (*IndexDB, error) {
	dbPath := filepath.Join(opts.Dir, DBFileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(opts.Dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	idx := &IndexDB{db: db, driver: DriverSQLite, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := idx.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return idx, nil
}

func openPostgres(opts Options) (*IndexDB, error) {
	if opts.DSN == "" {
		return nil, errors.New("postgres driver requires a DSN")
	}

	db, err := sqlx.Open(DriverPostgres, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	idx := &IndexDB{db: db, driver: DriverPostgres}
	if err := idx.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return idx, nil
}

// Close closes the database connection.
func (idx *IndexDB) Close() error {
	return idx.db.Close()
}

// Path returns the SQLite file path, or "" for PostgreSQL.
func (idx *IndexDB) Path() string {
	return idx.dbPath
}

// schema is valid for both SQLite and PostgreSQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		title TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		content_hash TEXT NOT NULL DEFAULT '',
		indexed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS postings (
		term TEXT NOT NULL,
		title TEXT NOT NULL REFERENCES documents(title),
		frequency INTEGER NOT NULL,
		PRIMARY KEY (term, title)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_postings_term ON postings(term)`,
}

func (idx *IndexDB) createTables(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := idx.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// PutDocumentIfAbsent inserts doc unless a document with the same title
// exists. It reports whether a row was inserted.
func (idx *IndexDB) PutDocumentIfAbsent(ctx context.Context, doc *model.Document) (bool, error) {
	query := idx.db.Rebind(`
	INSERT INTO documents (title, url, content, content_hash)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (title) DO NOTHING
	`)

	result, err := idx.db.ExecContext(ctx, query, doc.Title, doc.URL, doc.Content, doc.ContentHash)
	if err != nil {
		return false, storageError("put document", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, storageError("put document", err)
	}
	return n > 0, nil
}

const upsertPostingQuery = `
	INSERT INTO postings (term, title, frequency)
	VALUES (?, ?, ?)
	ON CONFLICT (term, title) DO UPDATE SET frequency = excluded.frequency
	`

// UpsertPosting inserts or replaces the posting for (term, title).
func (idx *IndexDB) UpsertPosting(ctx context.Context, term, title string, frequency int) error {
	_, err := idx.db.ExecContext(ctx, idx.db.Rebind(upsertPostingQuery), term, title, frequency)
	return storageError("upsert posting", err)
}

// UpsertPostings upserts one posting per entry of frequencies for title.
// The rows are written in a single transaction in term order.
func (idx *IndexDB) UpsertPostings(ctx context.Context, title string, frequencies map[string]int) error {
	if len(frequencies) == 0 {
		return nil
	}

	terms := make([]string, 0, len(frequencies))
	for term := range frequencies {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	tx, err := idx.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageError("upsert postings", err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(upsertPostingQuery))
	if err != nil {
		_ = tx.Rollback()
		return storageError("upsert postings", err)
	}
	defer stmt.Close()

	for _, term := range terms {
		if _, err := stmt.ExecContext(ctx, term, title, frequencies[term]); err != nil {
			_ = tx.Rollback()
			return storageError("upsert postings", err)
		}
	}

	return storageError("upsert postings", tx.Commit())
}

// PostingsForTerm returns every posting for term, highest frequency first.
// Ties are ordered by title.
func (idx *IndexDB) PostingsForTerm(ctx context.Context, term string) ([]model.Posting, error) {
	query := idx.db.Rebind(`
	SELECT term, title, frequency FROM postings
	WHERE term = ?
	ORDER BY frequency DESC, title ASC
	`)

	postings := make([]model.Posting, 0)
	if err := idx.db.SelectContext(ctx, &postings, query, term); err != nil {
		return nil, storageError("postings for term", err)
	}
	return postings, nil
}

// GetDocument returns the document titled title, or nil if there is none.
func (idx *IndexDB) GetDocument(ctx context.Context, title string) (*model.Document, error) {
	query := idx.db.Rebind(`
	SELECT title, url, content, content_hash, indexed_at FROM documents
	WHERE title = ?
	`)

	var row documentRow
	err := idx.db.GetContext(ctx, &row, query, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get document", err)
	}

	return &model.Document{
		Title:       row.Title,
		URL:         row.URL,
		Content:     row.Content,
		ContentHash: row.ContentHash,
		IndexedAt:   parseTimestamp(row.IndexedAt),
	}, nil
}

// documentRow is a documents row as scanned. indexed_at is read as text
// because drivers disagree on how they return timestamps.
type documentRow struct {
	Title       string `db:"title"`
	URL         string `db:"url"`
	Content     string `db:"content"`
	ContentHash string `db:"content_hash"`
	IndexedAt   string `db:"indexed_at"`
}

// TextForTitle returns the stored text of title, or "" if unknown.
func (idx *IndexDB) TextForTitle(ctx context.Context, title string) (string, error) {
	return idx.documentColumn(ctx, "text for title", "content", title)
}

// URLForTitle returns the stored URL of title, or "" if unknown.
func (idx *IndexDB) URLForTitle(ctx context.Context, title string) (string, error) {
	return idx.documentColumn(ctx, "url for title", "url", title)
}

// ContentHashForTitle returns the stored content hash of title, or "" if unknown.
func (idx *IndexDB) ContentHashForTitle(ctx context.Context, title string) (string, error) {
	return idx.documentColumn(ctx, "content hash for title", "content_hash", title)
}

// documentColumn reads a single column of a document. column is always
// one of the constants passed by the methods above.
func (idx *IndexDB) documentColumn(ctx context.Context, op, column, title string) (string, error) {
	query := idx.db.Rebind("SELECT " + column + " FROM documents WHERE title = ?")

	var value string
	err := idx.db.GetContext(ctx, &value, query, title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storageError(op, err)
	}
	return value, nil
}

// DocumentCount returns the number of indexed documents.
func (idx *IndexDB) DocumentCount(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM documents"); err != nil {
		return 0, storageError("document count", err)
	}
	return n, nil
}

// TermCount returns the number of distinct indexed terms.
func (idx *IndexDB) TermCount(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.GetContext(ctx, &n, "SELECT COUNT(DISTINCT term) FROM postings"); err != nil {
		return 0, storageError("term count", err)
	}
	return n, nil
}

// PostingCount returns the number of posting rows.
func (idx *IndexDB) PostingCount(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM postings"); err != nil {
		return 0, storageError("posting count", err)
	}
	return n, nil
}

// timestampFormats contains the timestamp formats drivers may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite CURRENT_TIMESTAMP
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // time.Time converted to string by database/sql
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp parses s with the first matching format and returns the
// zero time when none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
