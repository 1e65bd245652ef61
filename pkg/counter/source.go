package counter

import (
	"context"
	"errors"
)

// ErrRemoteFetch is the single recoverable failure of the controller: the
// remote source could not be reached, answered with a non-success status, or
// returned a snapshot that cannot be mirrored.
var ErrRemoteFetch = errors.New("counter: remote fetch failed")

// Source is the remote source of truth polled in sync mode.
type Source interface {
	FetchSnapshot(ctx context.Context) (Snapshot, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) (Snapshot, error)

// FetchSnapshot calls f.
func (f SourceFunc) FetchSnapshot(ctx context.Context) (Snapshot, error) { return f(ctx) }
