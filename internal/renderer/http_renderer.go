package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type httpRenderer struct {
	cache port.Cache
}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

// NewHTTPRenderer creates a new HTTPRenderer implementation.
func NewHTTPRenderer(cache port.Cache) port.HTTPRenderer {
	return &httpRenderer{cache: cache}
}

// RenderGetArtifact fetches artifact details either from cache or from the
// wrapped use case. It returns the JSON encoded output and a quoted ETag
// string.
func (r *httpRenderer) RenderGetArtifact(ctx context.Context, getter port.ArtifactGetter, id uuid.UUID) ([]byte, string, error) {
	raw, err := r.cache.GetArtifactDetails(ctx, id)
	etag, errEtag := r.cache.GetEtagArtifactDetails(ctx, id)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		return raw, etag, nil
	}

	out, err := getter.GetArtifact(ctx, id)
	if err != nil {
		return nil, "", err
	}

	raw, err = json.Marshal(out)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}

	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
	r.cache.SetArtifactDetails(ctx, id, raw, out.ValidUntil)
	r.cache.SetEtagArtifactDetails(ctx, id, etag, out.ValidUntil)

	return raw, etag, nil
}
