// Package storage provides the device-local key/value storage the favorite
// set and the recent-search list are persisted in.
//
// Every Store is a flat string -> bytes map. Writes are last-writer-wins:
// two processes sharing one file can still overwrite each other's
// read-modify-write cycles.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is the read/write contract of device-local key/value storage.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
