package draftstore

import "context"

// Key identifies one in-progress registration draft in durable storage.
// There is one draft per registrant, so the key is derived from the subject.
type Key string

// Store persists the serialized draft between form steps so a registrant can
// resume after a reload. The payload is caller-defined JSON; the store treats
// it as an opaque blob. One writer per key is assumed (one registrant, one
// draft); concurrent writes are last-write-wins.
type Store interface {
	// Load returns the stored draft; ok is false when none exists.
	Load(ctx context.Context, key Key) (data []byte, ok bool, err error)

	Save(ctx context.Context, key Key, data []byte) error

	// Clear removes the draft; clearing a missing draft is not an error.
	Clear(ctx context.Context, key Key) error
}
