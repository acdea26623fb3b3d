package challenge

import "context"

// Repository stores one DaySet per date key.
type Repository interface {
	GetByDate(ctx context.Context, dateKey string) (DaySet, bool, error)
	// Replace overwrites any existing DaySet for set.Date.
	Replace(ctx context.Context, set DaySet) error
}

// Rendered is the output of the opaque image-rendering capability.
type Rendered struct {
	Image       []byte
	Solution    string
	ContentType string
}

// Renderer produces captcha images. The visual configuration (glyph count,
// noise, colors, math operand range) is fixed at construction time.
type Renderer interface {
	RenderText(ctx context.Context) (Rendered, error)
	RenderMath(ctx context.Context) (Rendered, error)
}

// BlobStore persists rendered images and knows the bucket-internal URL scheme
// for a stored path. The client-facing media URL is a separate addressing
// scheme owned by the reader side.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	ObjectURL(path string) string
}
