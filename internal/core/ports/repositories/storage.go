package repositories

import "context"

// Storage is the byte-addressable primitive the journal and the blob
// repositories sit on top of. Keys are relative path-like strings
// supplied by the caller; implementations must never interpret them
// beyond joining onto their own root.
//
// Read returns apperrors.ErrNotFound when no content exists at the
// key. Storage failures are propagated unchanged; retry policy
// belongs to the adapter or its caller, never to the core.
type Storage interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, content []byte) error
	// List returns every key under the given prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}
