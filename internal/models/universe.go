package models

import "time"

// Universe curation statuses. The scanner only reads ACTIVE entries;
// curation itself happens elsewhere.
const (
	UniverseActive   = "ACTIVE"
	UniverseExcluded = "EXCLUDED"
	UniversePending  = "PENDING"
)

type UniverseEntry struct {
	SymbolID    int64
	Ticker      string
	Status      string
	RefreshedAt time.Time
}
