package model

// OutputFormat identifies the target encoding of the primary artifact.
type OutputFormat string

const (
	FormatJPEG OutputFormat = "jpeg"
	FormatPNG  OutputFormat = "png"
	FormatWebP OutputFormat = "webp"
)

// Lossy reports whether the format takes a quality setting. Quality is
// silently ignored for lossless formats, never an error.
func (f OutputFormat) Lossy() bool {
	return f == FormatJPEG || f == FormatWebP
}

func (f OutputFormat) MimeType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ProcessingOptions is the per-invocation configuration of the transcoder.
// Ranges are validated once before any transformation begins.
type ProcessingOptions struct {
	TargetWidth   int          `json:"target_width" validate:"gt=0"`
	TargetHeight  int          `json:"target_height" validate:"gt=0"`
	Quality       int          `json:"quality" validate:"gte=1,lte=100"`
	OutputFormat  OutputFormat `json:"output_format" validate:"oneof=jpeg png webp"`
	ThumbnailSize int          `json:"thumbnail_size" validate:"gt=0"`
}
