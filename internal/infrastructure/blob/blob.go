// Package blob provides object storage for generated artifacts: the
// event stream, the user-profile answer key, and analysis reports.
package blob

import "context"

// ObjectStore is the minimal surface the simulator needs to mirror its
// artifacts to storage.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
