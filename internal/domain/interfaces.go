// internal/domain/interfaces.go

package domain

import (
	"context"
	"time"
)

// Store holds at most one Record per identity. Implementations are
// best-effort: failures degrade to "absent" on read and no-op on write.
type Store interface {
	Get(ctx context.Context, identity string) (Record, bool)
	Put(ctx context.Context, identity string, record Record)
	Delete(ctx context.Context, identity string)
}

// Medium is the session-scoped key/value backing for serialized blobs
type Medium interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, blob []byte) error
}

// MediumProvider hands out the medium bound to one session
type MediumProvider interface {
	Session(sessionID string) Medium
	Ping(ctx context.Context) error
}

type Clock interface {
	Now() time.Time
}

// RandomSource draws a uniform integer in [0, n)
type RandomSource interface {
	Int64N(n int64) int64
}

// EventSink receives observability events. Implementations must not block
// the caller on delivery.
type EventSink interface {
	Emit(ctx context.Context, event Event)
}
