package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
)

// multipartMemLimit caps how much of the form body is buffered in memory;
// the file part itself is streamed to the pipeline, not held here.
const multipartMemLimit = 1 << 20

// UploadHandler ingests one multipart upload, runs it through the processing
// pipeline and persists the returned descriptor pair. The "file" part is
// mandatory; width, height, quality, format and thumbnail_size form fields
// override the configured defaults when present.
func UploadHandler(svc port.UploadProcessor, repo port.ArtifactRepository, defaults model.ProcessingOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart payload", err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "file part is required", err)
			return
		}
		defer func() { _ = file.Close() }()

		opts, err := optionsFromForm(r, defaults)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		in := port.ProcessUploadInput{
			Reader:            file,
			DeclaredMimeType:  header.Header.Get("Content-Type"),
			DeclaredSizeBytes: header.Size,
			OriginalFilename:  header.Filename,
			Options:           opts,
		}
		out, err := svc.ProcessUpload(r.Context(), in)
		if err != nil {
			writePipelineError(w, err)
			return
		}

		for _, a := range []*model.Artifact{out.Original, out.Thumbnail} {
			if err := repo.Create(r.Context(), a); err != nil {
				WriteError(w, http.StatusInternalServerError, "could not save artifact record", err)
				return
			}
		}

		RespondJSON(w, http.StatusCreated, out)
		log.Printf("✅  Successfully processed upload %q into artifact #%s", header.Filename, out.Original.ID)
	}
}

// optionsFromForm overlays provided form fields on the configured defaults.
// Returning nil options means no field was given and the pipeline defaults
// apply untouched.
func optionsFromForm(r *http.Request, defaults model.ProcessingOptions) (*model.ProcessingOptions, error) {
	opts := defaults
	overridden := false

	for field, dst := range map[string]*int{
		"width":          &opts.TargetWidth,
		"height":         &opts.TargetHeight,
		"quality":        &opts.Quality,
		"thumbnail_size": &opts.ThumbnailSize,
	} {
		raw := r.FormValue(field)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("field " + field + " must be an integer")
		}
		*dst = v
		overridden = true
	}
	if raw := r.FormValue("format"); raw != "" {
		opts.OutputFormat = model.OutputFormat(raw)
		overridden = true
	}

	if !overridden {
		return nil, nil
	}
	return &opts, nil
}

// writePipelineError maps the pipeline error taxonomy onto HTTP statuses.
// Invalid input and transcode reasons are safe to echo; storage details are
// logged server-side only.
func writePipelineError(w http.ResponseWriter, err error) {
	var invalid *pipeline.InvalidInputError
	if errors.As(err, &invalid) {
		WriteError(w, http.StatusBadRequest, invalid.Reason, nil)
		return
	}
	var transcode *pipeline.TranscodeError
	if errors.As(err, &transcode) {
		WriteError(w, http.StatusUnprocessableEntity, transcode.Reason, err)
		return
	}
	WriteError(w, http.StatusInternalServerError, "could not process upload", err)
}
