package port

import (
	"context"

	"github.com/imgpipe/images-ms-go/internal/model"
)

// Transcoder turns a staged source image into derivative artifacts. Both
// operations are side-effect-free on their input and write their result to a
// fresh staged path.
type Transcoder interface {
	// Process decodes the staged file, corrects orientation, strips all
	// embedded metadata, resizes to fit within the target bounding box
	// without upscaling, and re-encodes to the requested format.
	Process(ctx context.Context, stagedPath string, opts model.ProcessingOptions) (string, error)
	// Thumbnail produces an exact square variant by scaling to fill and
	// centre-cropping.
	Thumbnail(ctx context.Context, stagedPath string, size int, format model.OutputFormat) (string, error)
}
