// Package scenariostore defines where compiled scenario documents live
// between the compiler and the renderers.
//
// # Why a Store
//
// Authoring, compilation and serving run at different times and, in a
// deployment, in different processes. The store is the hand-off point: the
// compiler or the file watcher publishes documents, the HTTP server reads
// them. Documents are opaque JSON to the store; validation happens before
// Put and again on every read by scenario.Parse.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. The watcher publishes
// while the server reads.
//
// See internal/inmemorystore and internal/redisstore for the implementations.
package scenariostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get and Delete for unknown names.
var ErrNotFound = errors.New("scenario not found")

// Store persists scenario documents by name.
type Store interface {
	// Put stores doc under name, replacing any previous version.
	Put(ctx context.Context, name string, doc []byte) error
	// Get returns the document stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns every stored name in sorted order.
	List(ctx context.Context) ([]string, error)
	// Delete removes the document stored under name, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName rejects names that cannot be used in URLs and storage keys.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid scenario name %q", name)
	}
	return nil
}

// Notifier is implemented by stores that announce changes, including
// changes made by other processes sharing the same backend.
type Notifier interface {
	// Subscribe delivers the name of every scenario put or deleted until ctx
	// is cancelled, after which the channel is closed.
	Subscribe(ctx context.Context) (<-chan string, error)
}
