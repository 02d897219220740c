package objectstore

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when no object exists under the given key.
var ErrObjectNotFound = errors.New("objectstore: object not found")

// Store is the narrow document-source collaborator. Upload URL issuance and
// bucket management live outside this system; the pipeline only ever reads
// one object by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}
