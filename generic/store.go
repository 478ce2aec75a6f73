/*
store.go - Persistence interface for timesheet data

PURPOSE:
  Defines the boundary between the engine and whatever keeps its data.
  The engine never touches ambient state: every read and write goes through
  an injected Repository, so tests swap in the in-memory implementation.

KEY INTERFACES:
  Repository:     Opaque key-value capability (Get, Put)
  ScanRepository: Repository plus prefix scans, needed for admin overviews

ATOMICITY:
  A month of entries is stored under one key. A bulk edit therefore lands
  with a single Put: either every expanded day is persisted or none is.

KEYS:
  Keys are built by the workflow service (monthKey and statusKey in
  workflow/service.go, presetsKey in workflow/presets.go), e.g.
  "timesheet/emp-1/2024-03". Values are JSON produced by the factory package.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite-backed, used by the server
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - workflow/service.go: the only consumer
  - factory/entry.go: value encoding
*/
package generic

import "context"

// Repository is an opaque key-value store.
type Repository interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}

// ScanRepository extends Repository with prefix listing.
type ScanRepository interface {
	Repository

	// Scan returns every key/value whose key starts with prefix.
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}
