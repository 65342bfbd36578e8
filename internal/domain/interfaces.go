package domain

import (
	"context"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// Infrastructure implements these; the engagement engine depends on them.

// JokeSource fetches one joke. Implemented by infra/jokeapi.Client.
type JokeSource interface {
	Fetch(ctx context.Context) (Joke, error)
}

// KVReader reads typed values. ok is false when the key has never been set.
type KVReader interface {
	GetInt(key string) (v int, ok bool, err error)
	GetBool(key string) (v bool, ok bool, err error)
	GetString(key string) (v string, ok bool, err error)
	GetData(key string) (v []byte, ok bool, err error)
	GetTime(key string) (v time.Time, ok bool, err error)
}

// KVWriter writes typed values. Each call is independent.
type KVWriter interface {
	SetInt(key string, v int) error
	SetBool(key string, v bool) error
	SetString(key string, v string) error
	SetData(key string, v []byte) error
	SetTime(key string, v time.Time) error
}

// KVStore is the persistent store adapter. Implemented by infra/sqlite.DB.
type KVStore interface {
	KVReader
	KVWriter

	// Update applies every write in fn atomically.
	Update(fn func(w KVWriter) error) error
}
