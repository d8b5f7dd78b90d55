// Package database owns read-only access to the signal store.
//
// The store is a SQLite file written by a separate ingestion/execution
// process. This service never writes to it; the connection is opened in
// read-only mode and the schema contract is resolved once at startup.
//
// Availability beats strictness here: if the file is missing or the
// schema cannot be resolved, the store enters degraded mode and every
// read returns an empty result instead of an error, so the dashboard
// always renders.
package database

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the read-only signal store connection and its resolved
// schema contract. A degraded Store (missing file, no usable table)
// carries a nil connection.
type Store struct {
	db     *gorm.DB
	schema *Contract
}

// Open opens the SQLite signal store at path in read-only mode and
// resolves the schema contract. Open never fails the process: any
// problem is logged and yields a degraded Store.
func Open(path string) *Store {
	if _, err := os.Stat(path); err != nil {
		log.Printf("⚠️  Signal store not found at %s: %v (degraded mode)", path, err)
		return &Store{}
	}

	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		log.Printf("⚠️  Failed to open signal store %s: %v (degraded mode)", path, err)
		return &Store{}
	}

	store := NewStore(db)
	if store.Available() {
		log.Printf("✅ Signal store opened: %s (table %s, %d columns)",
			path, store.schema.Table, len(store.schema.columns))
	}
	return store
}

// NewStore wraps an existing connection and resolves the schema
// contract against it. Used by Open and by tests that build their own
// in-memory store.
func NewStore(db *gorm.DB) *Store {
	contract, err := resolveContract(db)
	if err != nil {
		log.Printf("⚠️  Schema contract not resolved: %v (degraded mode)", err)
		return &Store{}
	}
	return &Store{db: db, schema: contract}
}

// Available reports whether the store can serve queries.
func (s *Store) Available() bool {
	return s.db != nil && s.schema != nil
}

// DB returns the underlying GORM instance. Callers must check
// Available first.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Schema returns the resolved schema contract, nil when degraded.
func (s *Store) Schema() *Contract {
	return s.schema
}

// Close releases the store handle. Best-effort: the store is read-only,
// an unclean release cannot corrupt data.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	log.Println("📡 Closing signal store...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
