package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/imgpipe/images-ms-go/internal/api_context"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
)

func GetArtifactHandler(renderer port.HTTPRenderer, svc port.ArtifactGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		raw, etag, err := renderer.RenderGetArtifact(r.Context(), svc, id)
		if err != nil {
			if errors.Is(err, pipeline.ErrArtifactNotFound) {
				WriteError(w, http.StatusNotFound, "Artifact not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not get artifact details", err)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=300")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			log.Printf("✅  Returning cached artifact #%s", id)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		log.Printf("✅  Successfully returned details for artifact #%s", id)
	}
}
