// internal/cache/store.go
package cache

import "context"

// Store persists the StyleKey -> description mapping across runs.
//
// Load returns an empty mapping when no prior storage exists; that is not an
// error. Save performs a full overwrite of the stored document, so the last
// writer wins. Concurrent runs against the same store are not supported.
type Store interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
}
