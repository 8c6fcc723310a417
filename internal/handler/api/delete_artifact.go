package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/imgpipe/images-ms-go/internal/api_context"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
)

// DeleteArtifactHandler deletes an artifact by ID: the published file, its
// database record and any cache entries.
func DeleteArtifactHandler(svc port.ArtifactDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.DeleteArtifact(r.Context(), id); err != nil {
			if errors.Is(err, pipeline.ErrArtifactNotFound) {
				WriteError(w, http.StatusNotFound, "Artifact not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Failed to delete artifact", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		log.Printf("✅  Successfully deleted artifact #%s", id)
	}
}
