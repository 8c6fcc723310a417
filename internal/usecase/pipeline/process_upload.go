package pipeline

import (
	"context"
	"log"

	"golang.org/x/sync/semaphore"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/validation"
)

type uploadProcessorSrv struct {
	strg     port.Storage
	trans    port.Transcoder
	genID    port.UUIDGen
	defaults model.ProcessingOptions
	maxBytes int64
	// sem bounds the number of simultaneously decoded rasters; decode buffers
	// dominate the memory footprint of the whole service.
	sem *semaphore.Weighted
}

// compile-time check: *uploadProcessorSrv must satisfy port.UploadProcessor
var _ port.UploadProcessor = (*uploadProcessorSrv)(nil)

// NewUploadProcessor constructs the pipeline orchestrator. Option ranges are
// validated here, once, not re-checked ad hoc at each call site.
func NewUploadProcessor(strg port.Storage, trans port.Transcoder, genID port.UUIDGen, defaults model.ProcessingOptions, maxBytes int64, maxConcurrentTransforms int64) (port.UploadProcessor, error) {
	if err := validation.ValidateStruct(defaults); err != nil {
		return nil, &InvalidInputError{Reason: "invalid default processing options: " + err.Error()}
	}
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	if maxConcurrentTransforms <= 0 {
		maxConcurrentTransforms = 1
	}
	return &uploadProcessorSrv{
		strg:     strg,
		trans:    trans,
		genID:    genID,
		defaults: defaults,
		maxBytes: maxBytes,
		sem:      semaphore.NewWeighted(maxConcurrentTransforms),
	}, nil
}

// ProcessUpload walks one upload through
// Received → Validated → Staged → Transformed → Published → Done.
// Any step failing rolls back every artifact staged or published for this
// upload before the error surfaces; the pipeline is all-or-nothing. There is
// no automatic retry: transformation and storage failures are deterministic
// given the same bytes, so resubmission is the caller's decision.
func (s *uploadProcessorSrv) ProcessUpload(ctx context.Context, in port.ProcessUploadInput) (*port.ProcessUploadOutput, error) {
	status := model.UploadStatusReceived

	opts := s.defaults
	if in.Options != nil {
		opts = *in.Options
		if err := validation.ValidateStruct(opts); err != nil {
			return nil, &InvalidInputError{Reason: "invalid processing options: " + err.Error()}
		}
	}

	// Rollback bookkeeping. Everything staged for this upload is discarded on
	// the way out; published artifacts are removed again if a later step fails.
	var (
		finalErr  error
		staged    []string
		published []*model.Artifact
	)
	defer func() {
		for _, p := range staged {
			s.strg.Discard(ctx, p)
		}
		if finalErr == nil {
			return
		}
		for _, a := range published {
			if err := s.strg.Remove(ctx, a.ID); err != nil {
				log.Printf("rollback failed for published artifact #%s: %v", a.ID, err)
			}
		}
		log.Printf("upload %q failed at status %q: %v", in.OriginalFilename, status, finalErr)
	}()

	r, err := validateCandidate(in, s.maxBytes)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}
	status = model.UploadStatusValidated

	srcPath, err := s.strg.Stage(ctx, r)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}
	staged = append(staged, srcPath)
	status = model.UploadStatusStaged

	if err := s.sem.Acquire(ctx, 1); err != nil {
		finalErr = &StorageError{Op: "acquiring transform slot", Err: err}
		return nil, finalErr
	}
	primaryPath, err := s.trans.Process(ctx, srcPath, opts)
	if err != nil {
		s.sem.Release(1)
		finalErr = err
		return nil, finalErr
	}
	staged = append(staged, primaryPath)

	thumbPath, err := s.trans.Thumbnail(ctx, srcPath, opts.ThumbnailSize, opts.OutputFormat)
	s.sem.Release(1)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}
	staged = append(staged, thumbPath)
	status = model.UploadStatusTransformed

	mimeType := opts.OutputFormat.MimeType()

	original, err := s.strg.Publish(ctx, primaryPath, s.genID(), model.ArtifactKindOriginal, mimeType)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}
	// the rename consumed the staged file
	staged = remove(staged, primaryPath)
	published = append(published, original)

	thumbnail, err := s.strg.Publish(ctx, thumbPath, s.genID(), model.ArtifactKindThumbnail, mimeType)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}
	staged = remove(staged, thumbPath)
	published = append(published, thumbnail)
	status = model.UploadStatusDone

	return &port.ProcessUploadOutput{Original: original, Thumbnail: thumbnail}, nil
}

func remove(paths []string, path string) []string {
	out := paths[:0]
	for _, p := range paths {
		if p != path {
			out = append(out, p)
		}
	}
	return out
}
