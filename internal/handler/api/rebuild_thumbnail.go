package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/imgpipe/images-ms-go/internal/api_context"
	"github.com/imgpipe/images-ms-go/internal/port"
	idkit "github.com/imgpipe/images-ms-go/internal/uuid"
	"github.com/imgpipe/images-ms-go/internal/validation"
)

type RebuildThumbnailRequest struct {
	ThumbnailID string `json:"thumbnail_id" validate:"required,uuid"`
}

// RebuildThumbnailHandler enqueues an asynchronous thumbnail rebuild for a
// published original. The work itself happens on the worker; this endpoint
// only accepts the request.
func RebuildThumbnailHandler(dispatcher port.TaskDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		originalID, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req RebuildThumbnailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			log.Printf("❌  Validation failed: %s", errsJSON)
			return
		}

		thumbnailID := idkit.UUID(uuid.MustParse(req.ThumbnailID))
		if err := dispatcher.EnqueueRebuildThumbnail(r.Context(), originalID, thumbnailID); err != nil {
			WriteError(w, http.StatusInternalServerError, "could not enqueue thumbnail rebuild", err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		log.Printf("✅  Enqueued thumbnail rebuild for artifact #%s", originalID)
	}
}
