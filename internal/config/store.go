package config

import (
	"fmt"
	"strings"
)

// StoreKind names a backing medium
type StoreKind string

const (
	StoreCSV     StoreKind = "csv"     // flat file, saved on demand
	StoreSQLite  StoreKind = "sqlite"  // embedded document store
	StoreMongoDB StoreKind = "mongodb" // remote document store
)

// StoreKinds lists the accepted kinds
var StoreKinds = []StoreKind{StoreCSV, StoreSQLite, StoreMongoDB}

// ParseStoreKind converts a string to StoreKind. "mongo" and "file" are
// accepted as aliases.
func ParseStoreKind(s string) (StoreKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "file":
		return StoreCSV, nil
	case "sqlite", "sqlite3":
		return StoreSQLite, nil
	case "mongodb", "mongo":
		return StoreMongoDB, nil
	default:
		names := make([]string, len(StoreKinds))
		for i, k := range StoreKinds {
			names[i] = string(k)
		}
		return "", fmt.Errorf("unknown store kind %q (want one of %s)", s, strings.Join(names, ", "))
	}
}

// IsDocumentStore returns true for write-through kinds
func (k StoreKind) IsDocumentStore() bool {
	return k == StoreSQLite || k == StoreMongoDB
}
