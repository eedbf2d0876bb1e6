package document

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// SQLiteDocument is a Document backed by a SQLite database file. Setups are
// ordered by an explicit position column; attributes live in a two-part-key
// table.
type SQLiteDocument struct {
	db   *sql.DB
	path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS setups (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	suppressed INTEGER NOT NULL DEFAULT 0,
	operation_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS attributes (
	group_name TEXT NOT NULL,
	attr_name TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (group_name, attr_name)
);
`

// OpenSQLite opens (or creates) a SQLite document at path.
func OpenSQLite(path string) (*SQLiteDocument, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open document %s", path)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to initialize document schema in %s", path)
	}

	return &SQLiteDocument{db: db, path: path}, nil
}

// Path returns the document file path.
func (d *SQLiteDocument) Path() string {
	return d.path
}

// Setups returns the setups ordered by position.
func (d *SQLiteDocument) Setups() ([]Setup, error) {
	rows, err := d.db.Query(`SELECT name, suppressed, operation_count FROM setups ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query setups")
	}
	defer func() {
		_ = rows.Close()
	}()

	var setups []Setup
	for rows.Next() {
		var s Setup
		var suppressed int
		if err := rows.Scan(&s.Name, &suppressed, &s.Operations); err != nil {
			return nil, errors.Wrap(err, "failed to scan setup row")
		}
		s.Suppressed = suppressed != 0
		setups = append(setups, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate setups")
	}
	return setups, nil
}

// AppendSetup adds a setup after all existing ones.
func (d *SQLiteDocument) AppendSetup(s Setup) error {
	suppressed := 0
	if s.Suppressed {
		suppressed = 1
	}
	_, err := d.db.Exec(
		`INSERT INTO setups (position, name, suppressed, operation_count)
		 VALUES ((SELECT COALESCE(MAX(position), 0) + 1 FROM setups), ?, ?, ?)`,
		s.Name, suppressed, s.Operations,
	)
	return errors.Wrapf(err, "failed to append setup %q", s.Name)
}

// Attributes returns the document's attribute store.
func (d *SQLiteDocument) Attributes() AttributeStore {
	return &sqliteAttrs{db: d.db}
}

// Close closes the underlying database.
func (d *SQLiteDocument) Close() error {
	return d.db.Close()
}

type sqliteAttrs struct {
	db *sql.DB
}

// Get returns the value stored under (group, name).
func (a *sqliteAttrs) Get(group, name string) (string, bool, error) {
	var value string
	err := a.db.QueryRow(
		`SELECT value FROM attributes WHERE group_name = ? AND attr_name = ?`,
		group, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read attribute %s/%s", group, name)
	}
	return value, true, nil
}

// Set stores value under (group, name), overwriting any prior value.
func (a *sqliteAttrs) Set(group, name, value string) error {
	_, err := a.db.Exec(
		`INSERT INTO attributes (group_name, attr_name, value) VALUES (?, ?, ?)
		 ON CONFLICT (group_name, attr_name) DO UPDATE SET value = excluded.value`,
		group, name, value,
	)
	return errors.Wrapf(err, "failed to write attribute %s/%s", group, name)
}
