package snowymage

import (
	"database/sql"
	"fmt"

	"github.com/snowymage/snowymage/sni"

	_ "github.com/mattn/go-sqlite3"
)

// DB caches the smallest SNI encoding found for a source file. Entries are
// keyed by the SHA-1 of the source bytes and the settings used to encode it.
type DB struct {
	db *sql.DB
}

// NewDB opens or creates the cache database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; batch workers share the one connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS encoding (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, settings TEXT NOT NULL, flags INTEGER NOT NULL, data BLOB NOT NULL, UNIQUE(sha1, settings))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Find returns the cached encoding and its flags for the source with the
// given SHA-1 and settings, if there is one.
func (db *DB) Find(sha, settings string) ([]byte, sni.Flags, bool, error) {
	var data []byte
	var flags int64
	switch err := db.db.QueryRow("SELECT data, flags FROM encoding WHERE sha1 = ? AND settings = ?", sha, settings).Scan(&data, &flags); err {
	case sql.ErrNoRows:
		return nil, 0, false, nil
	case nil:
		return data, sni.Flags(flags), true, nil
	default:
		return nil, 0, false, err
	}
}

// Store caches an encoding, replacing any previous entry.
func (db *DB) Store(sha, settings string, flags sni.Flags, data []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO encoding (sha1, settings, flags, data) VALUES (?, ?, ?, ?)", sha, settings, int64(flags), data); err != nil {
		return err
	}
	return nil
}

// Length returns the number of cached encodings.
func (db *DB) Length() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM encoding").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
