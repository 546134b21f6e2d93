// Package metadata implements the client's local key/value storage.
//
// Two backends satisfy Repository:
//
//   - SQLiteRepository: a single `metadata` table in the local SQLite file
//     (schema in internal/client/migrations). Default.
//   - RedisRepository: keys under a namespace prefix in Redis, for setups that
//     share state between several client processes.
//
// Get returns (nil, nil) for a missing key so callers can tell "absent" from
// a storage failure. Apply is the only multi-key operation and is atomic on
// both backends (SQL transaction, Redis MULTI/EXEC).
package metadata
