// Package store provides the persistence port for the contact collection.
//
// The collection is one flat JSON array on disk. Every request loads the
// whole file and mutating requests write the whole file back; there is no
// in-process shared state and no locking, so concurrent conflicting writers
// are last-writer-wins. That read-modify-write race is the documented
// behavior of the service, not an oversight: the store is assumed small and
// low-concurrency, and serializing writers would change the externally
// observable ordering.
package store

import (
	"context"

	"github.com/contactkit/contactd/internal/contact"
)

// Store is the storage port used by the HTTP handlers. Load returns the
// full collection; Persist replaces it.
type Store interface {
	Load(ctx context.Context) ([]contact.Contact, error)
	Persist(ctx context.Context, contacts []contact.Contact) error
}
