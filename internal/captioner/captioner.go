// internal/captioner/captioner.go
package captioner

import "context"

// Captioner turns one product photo into a short natural-language caption.
// Implementations may fail; callers absorb failures into the owning record.
type Captioner interface {
	Caption(ctx context.Context, imageBytes []byte, extension string) (string, error)
}
