package pipeline

import (
	"fmt"
	"net/http"

	"github.com/imgpipe/images-ms-go/internal/model"
)

const MaxFileSize = 10 * 1024 * 1024 // 10 MiB default ceiling

// sniffLen is how many leading bytes the signature check looks at, matching
// what http.DetectContentType consumes.
const sniffLen = 512

var AllowedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

func IsMimeTypeAllowed(mimeType string) bool {
	return AllowedMimeTypes[mimeType]
}

func MimeTypeToExtension(mimeType string) (string, error) {
	switch mimeType {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("no extension known for mime-type %q", mimeType)
	}
}

func MimeTypeToFormat(mimeType string) model.OutputFormat {
	switch mimeType {
	case "image/png":
		return model.FormatPNG
	case "image/webp":
		return model.FormatWebP
	default:
		return model.FormatJPEG
	}
}

// SniffMimeType detects the actual content type from the first bytes of the
// file, independently of what the client declared.
func SniffMimeType(head []byte) string {
	return http.DetectContentType(head)
}
