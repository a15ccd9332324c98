package domain

import "time"

// MaxSyncAttempts bounds outbox delivery retries. An item that has failed
// this many times is dead: excluded from the pending queue until an
// operator resets it.
const MaxSyncAttempts = 5

// SyncQueueItem is one queued remote mutation awaiting delivery.
type SyncQueueItem struct {
	ID            int64
	EntityType    string
	EntityID      string
	Operation     SyncOperation
	Payload       []byte
	CreatedAt     time.Time
	Attempts      int
	LastAttemptAt *time.Time
	LastError     string
}

// Dead reports whether the item has exhausted its retry budget.
func (i *SyncQueueItem) Dead() bool {
	return i.Attempts >= MaxSyncAttempts
}
