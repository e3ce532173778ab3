// Package persistence pairs each durable store with a named slot in a
// key-value storage medium. Slots are loaded and migrated before the store
// is first read, and written after every committed mutation.
package persistence

import (
	"context"
	"errors"
)

// Slot names. Each holds one JSON document.
const (
	SlotUser          = "user-storage"
	SlotRelationships = "user-relationships"
	SlotNotes         = "notes-storage"
	SlotThoughts      = "thoughts-storage"
)

// ErrSlotNotFound is returned by Storage.Load when a slot was never written.
var ErrSlotNotFound = errors.New("persistence: slot not found")

// Storage is a key-value medium for slot documents.
type Storage interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
	Close() error
}
