// Package sqlitestore implements cachekit.StorageBackend over a SQLite
// database via mattn/go-sqlite3, giving the engine a durable alternative
// to the in-memory reference backend. Entry values are serialized with
// encoding/gob; callers storing concrete types other than the predeclared
// basic kinds must gob.Register them once at startup.
package sqlitestore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"math"
	"time"

	"github.com/agilira/cachekit"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	key           TEXT PRIMARY KEY,
	value         BLOB NOT NULL,
	creation_time INTEGER NOT NULL,
	access_time   INTEGER NOT NULL,
	update_time   INTEGER NOT NULL,
	hit_count     INTEGER NOT NULL,
	expiry_time   INTEGER NOT NULL
);`

// Store implements cachekit.StorageBackend on top of a SQLite table. One
// Store corresponds to one named cache. Every Store uses the same fixed
// table name, entries, over its own *sql.DB opened by Open; two Stores on
// the same database file therefore share one table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database at path and prepares
// its entries table. path may be ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, cachekit.NewErrBackendFailed("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, cachekit.NewErrBackendFailed("migrate", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Size(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	if err != nil {
		return 0, cachekit.NewErrBackendFailed("size", "", err)
	}
	return n, nil
}

func (s *Store) ContainsKey(ctx context.Context, key string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM entries WHERE key = ?`, key).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, cachekit.NewErrBackendFailed("contains", key, err)
	}
	return true, nil
}

func (s *Store) GetEntry(ctx context.Context, key string) (cachekit.Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value, creation_time, access_time, update_time, hit_count, expiry_time
		   FROM entries WHERE key = ?`, key)

	var blob []byte
	var creation, access, update, expiry int64
	var hits uint64
	if err := row.Scan(&blob, &creation, &access, &update, &hits, &expiry); err != nil {
		if err == sql.ErrNoRows {
			return cachekit.Entry{}, false, nil
		}
		return cachekit.Entry{}, false, cachekit.NewErrBackendFailed("get", key, err)
	}

	value, err := decodeValue(blob)
	if err != nil {
		return cachekit.Entry{}, false, cachekit.NewErrBackendFailed("decode", key, err)
	}
	return cachekit.Entry{
		Value:        value,
		CreationTime: time.Unix(0, creation),
		AccessTime:   time.Unix(0, access),
		UpdateTime:   time.Unix(0, update),
		HitCount:     hits,
		ExpiryTime:   expiryFromNanos(expiry),
	}, true, nil
}

func (s *Store) PutEntry(ctx context.Context, key string, entry cachekit.Entry) error {
	blob, err := encodeValue(entry.Value)
	if err != nil {
		return cachekit.NewErrBackendFailed("encode", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (key, value, creation_time, access_time, update_time, hit_count, expiry_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			creation_time = excluded.creation_time,
			access_time = excluded.access_time,
			update_time = excluded.update_time,
			hit_count = excluded.hit_count,
			expiry_time = excluded.expiry_time`,
		key, blob,
		entry.CreationTime.UnixNano(), entry.AccessTime.UnixNano(),
		entry.UpdateTime.UnixNano(), entry.HitCount, expiryToNanos(entry.ExpiryTime),
	)
	if err != nil {
		return cachekit.NewErrBackendFailed("put", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return cachekit.NewErrBackendFailed("remove", key, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return cachekit.NewErrBackendFailed("clear", "", err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM entries`)
	if err != nil {
		return nil, cachekit.NewErrBackendFailed("keys", "", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, cachekit.NewErrBackendFailed("keys", "", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Store) Values(ctx context.Context) (map[string]cachekit.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, creation_time, access_time, update_time, hit_count, expiry_time FROM entries`)
	if err != nil {
		return nil, cachekit.NewErrBackendFailed("values", "", err)
	}
	defer rows.Close()

	out := make(map[string]cachekit.Entry)
	for rows.Next() {
		var key string
		var blob []byte
		var creation, access, update, expiry int64
		var hits uint64
		if err := rows.Scan(&key, &blob, &creation, &access, &update, &hits, &expiry); err != nil {
			return nil, cachekit.NewErrBackendFailed("values", "", err)
		}
		value, err := decodeValue(blob)
		if err != nil {
			return nil, cachekit.NewErrBackendFailed("decode", key, err)
		}
		out[key] = cachekit.Entry{
			Value:        value,
			CreationTime: time.Unix(0, creation),
			AccessTime:   time.Unix(0, access),
			UpdateTime:   time.Unix(0, update),
			HitCount:     hits,
			ExpiryTime:   expiryFromNanos(expiry),
		}
	}
	return out, rows.Err()
}

// expiryToNanos converts an expiry time to a storable nanosecond count.
// cachekit.Never (and any instant at or beyond it, such as one computed
// from cachekit.Forever) is clamped to math.MaxInt64 instead of calling
// UnixNano() directly: Never is year 9999, far outside the range
// time.Time.UnixNano() can represent without silently overflowing.
func expiryToNanos(t time.Time) int64 {
	if !t.Before(cachekit.Never) {
		return math.MaxInt64
	}
	return t.UnixNano()
}

// expiryFromNanos is the inverse of expiryToNanos.
func expiryFromNanos(nanos int64) time.Time {
	if nanos == math.MaxInt64 {
		return cachekit.Never
	}
	return time.Unix(0, nanos)
}

func encodeValue(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeValue(blob []byte) (interface{}, error) {
	var v interface{}
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

var _ cachekit.StorageBackend = (*Store)(nil)
