package toolcall

import "context"

// ImageRenderer rasterizes card markup for clients that cannot display
// HTML. Implementations typically drive a headless browser; rendering is
// best-effort and a failure never fails the call.
type ImageRenderer interface {
	RenderPNG(ctx context.Context, markup string) ([]byte, error)
}
