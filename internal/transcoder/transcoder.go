package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
)

// Transcoder decodes staged source files into raster form and re-encodes
// derivatives from the pixel data alone. Because every output is re-encoded
// from decoded pixels, no embedded metadata (EXIF, GPS, camera tags) can
// survive into an artifact, whether or not a resize happens.
type Transcoder struct {
	stagingDir string
}

// compile-time check: *Transcoder must satisfy port.Transcoder
var _ port.Transcoder = (*Transcoder)(nil)

func NewTranscoder(stagingDir string) *Transcoder {
	log.Println("initialising transcoder...")
	return &Transcoder{stagingDir: stagingDir}
}

// Process produces the display-optimised primary artifact: orientation
// corrected, metadata stripped, resized to fit within the target bounding box
// without ever upscaling, re-encoded to the requested format.
func (t *Transcoder) Process(ctx context.Context, stagedPath string, opts model.ProcessingOptions) (string, error) {
	img, err := t.load(stagedPath)
	if err != nil {
		return "", err
	}

	img = fitWithin(img, opts.TargetWidth, opts.TargetHeight)

	return t.encodeToStaging(img, opts.OutputFormat, opts.Quality)
}

// Thumbnail produces an exact square variant: scale to fill, centre-crop.
// This fit policy is deliberately different from Process and must stay so.
func (t *Transcoder) Thumbnail(ctx context.Context, stagedPath string, size int, format model.OutputFormat) (string, error) {
	if size <= 0 {
		return "", &pipeline.TranscodeError{Reason: fmt.Sprintf("invalid thumbnail size %d", size)}
	}

	img, err := t.load(stagedPath)
	if err != nil {
		return "", err
	}

	img = fillCrop(img, size)

	return t.encodeToStaging(img, format, thumbnailQuality)
}

// thumbnailQuality is fixed: thumbnails are small enough that quality tuning
// is not worth a knob.
const thumbnailQuality = 85

// load reads the staged file, decodes it and applies the embedded EXIF
// orientation so the returned raster is upright. The returned image carries
// pixel data only.
func (t *Transcoder) load(stagedPath string) (image.Image, error) {
	data, err := os.ReadFile(stagedPath)
	if err != nil {
		return nil, &pipeline.StorageError{Op: "reading staged file", Err: err}
	}

	orientation := jpegOrientation(data)

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &pipeline.TranscodeError{Reason: "unsupported or corrupt image", Err: err}
	}

	return applyOrientation(img, orientation), nil
}

// encodeToStaging writes the encoded result to a fresh staged path. The
// original staged input is never touched; cleanup ordering belongs to the
// orchestrator.
func (t *Transcoder) encodeToStaging(img image.Image, format model.OutputFormat, quality int) (string, error) {
	ext, err := pipeline.MimeTypeToExtension(format.MimeType())
	if err != nil {
		return "", &pipeline.TranscodeError{Reason: "unknown output format", Err: err}
	}

	out, err := os.CreateTemp(t.stagingDir, "transcode_*"+ext)
	if err != nil {
		return "", &pipeline.StorageError{Op: "creating staged output", Err: err}
	}

	if err := encode(out, img, format, quality); err != nil {
		_ = out.Close()
		if rmErr := os.Remove(out.Name()); rmErr != nil {
			log.Printf("failed to remove staged output %q: %v", out.Name(), rmErr)
		}
		return "", err
	}

	if err := out.Close(); err != nil {
		if rmErr := os.Remove(out.Name()); rmErr != nil {
			log.Printf("failed to remove staged output %q: %v", out.Name(), rmErr)
		}
		return "", &pipeline.StorageError{Op: "closing staged output", Err: err}
	}

	return out.Name(), nil
}

// encode writes img in the requested format. Quality only applies to lossy
// formats and is ignored for lossless ones.
func encode(w io.Writer, img image.Image, format model.OutputFormat, quality int) error {
	switch format {
	case model.FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return &pipeline.TranscodeError{Reason: "failed to encode PNG", Err: err}
		}
	case model.FormatWebP:
		if err := webp.Encode(w, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return &pipeline.TranscodeError{Reason: "failed to encode WebP", Err: err}
		}
	case model.FormatJPEG:
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return &pipeline.TranscodeError{Reason: "failed to encode JPEG", Err: err}
		}
	default:
		return &pipeline.TranscodeError{Reason: fmt.Sprintf("unsupported output format %q", format)}
	}
	return nil
}
