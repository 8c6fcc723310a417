package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

func defaultOpts() model.ProcessingOptions {
	return model.ProcessingOptions{
		TargetWidth:   1920,
		TargetHeight:  1080,
		Quality:       85,
		OutputFormat:  model.FormatJPEG,
		ThumbnailSize: 200,
	}
}

func newTestProcessor(t *testing.T, strg *mockStorage, trans *mockTranscoder) port.UploadProcessor {
	t.Helper()
	svc, err := NewUploadProcessor(strg, trans, uuid.NewUUID, defaultOpts(), MaxFileSize, 2)
	if err != nil {
		t.Fatalf("NewUploadProcessor: %v", err)
	}
	return svc
}

func jpegInput() port.ProcessUploadInput {
	body := append(append([]byte{}, jpegHeader...), bytes.Repeat([]byte{0xAB}, 1024)...)
	return port.ProcessUploadInput{
		Reader:            bytes.NewReader(body),
		DeclaredMimeType:  "image/jpeg",
		DeclaredSizeBytes: int64(len(body)),
		OriginalFilename:  "holiday.jpg",
	}
}

func TestProcessUpload_Success(t *testing.T) {
	strg := &mockStorage{}
	trans := &mockTranscoder{}
	svc := newTestProcessor(t, strg, trans)

	out, err := svc.ProcessUpload(context.Background(), jpegInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Original == nil || out.Original.Kind != model.ArtifactKindOriginal {
		t.Fatalf("expected original artifact, got %+v", out.Original)
	}
	if out.Thumbnail == nil || out.Thumbnail.Kind != model.ArtifactKindThumbnail {
		t.Fatalf("expected thumbnail artifact, got %+v", out.Thumbnail)
	}
	if out.Original.ID == out.Thumbnail.ID {
		t.Error("original and thumbnail should have distinct identifiers")
	}
	if !strings.HasSuffix(out.Original.StoragePath, ".jpg") {
		t.Errorf("storage path %q should use the verified-type extension", out.Original.StoragePath)
	}
	// the staged source must be gone once the pipeline completes
	if !strg.wasDiscarded("staging/src-1") {
		t.Error("expected staged source to be discarded after publish")
	}
	// the derivative staged files were consumed by the publish rename
	if strg.wasDiscarded("staging/src-1.primary") || strg.wasDiscarded("staging/src-1.thumb") {
		t.Error("published intermediates should not be discarded")
	}
	if len(strg.removed) != 0 {
		t.Errorf("nothing should be rolled back on success, removed %v", strg.removed)
	}
}

func TestProcessUpload_RejectsUnknownMimeType(t *testing.T) {
	strg := &mockStorage{}
	svc := newTestProcessor(t, strg, &mockTranscoder{})

	in := jpegInput()
	in.DeclaredMimeType = "application/pdf"
	_, err := svc.ProcessUpload(context.Background(), in)

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if strg.stagedCount != 0 || len(strg.published) != 0 {
		t.Error("no file may be written for a rejected candidate")
	}
}

func TestProcessUpload_RejectsMissingMimeType(t *testing.T) {
	strg := &mockStorage{}
	svc := newTestProcessor(t, strg, &mockTranscoder{})

	in := jpegInput()
	in.DeclaredMimeType = ""
	_, err := svc.ProcessUpload(context.Background(), in)

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestProcessUpload_RejectsOversizeDeclaration(t *testing.T) {
	strg := &mockStorage{}
	svc := newTestProcessor(t, strg, &mockTranscoder{})

	in := jpegInput()
	in.DeclaredSizeBytes = MaxFileSize + 1
	_, err := svc.ProcessUpload(context.Background(), in)

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if strg.stagedCount != 0 {
		t.Error("oversize candidates must be rejected before staging")
	}
}

func TestProcessUpload_RejectsSpoofedSignature(t *testing.T) {
	strg := &mockStorage{}
	svc := newTestProcessor(t, strg, &mockTranscoder{})

	// PNG bytes declared as image/jpeg
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x01}, 256)...)
	in := port.ProcessUploadInput{
		Reader:            bytes.NewReader(body),
		DeclaredMimeType:  "image/jpeg",
		DeclaredSizeBytes: int64(len(body)),
	}
	_, err := svc.ProcessUpload(context.Background(), in)

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if strg.stagedCount != 0 || len(strg.published) != 0 {
		t.Error("no file may be written for a spoofed candidate")
	}
}

func TestProcessUpload_RejectsInvalidOptionOverride(t *testing.T) {
	strg := &mockStorage{}
	svc := newTestProcessor(t, strg, &mockTranscoder{})

	in := jpegInput()
	opts := defaultOpts()
	opts.Quality = 150
	in.Options = &opts
	_, err := svc.ProcessUpload(context.Background(), in)

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if strg.stagedCount != 0 {
		t.Error("invalid options must be rejected before any work")
	}
}

func TestProcessUpload_StageError(t *testing.T) {
	strg := &mockStorage{stageErr: &StorageError{Op: "staging upload", Err: errors.New("disk full")}}
	svc := newTestProcessor(t, strg, &mockTranscoder{})

	_, err := svc.ProcessUpload(context.Background(), jpegInput())

	var stErr *StorageError
	if !errors.As(err, &stErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if len(strg.published) != 0 {
		t.Error("nothing may be published after a staging failure")
	}
}

func TestProcessUpload_TranscodeErrorRollsBackStaging(t *testing.T) {
	strg := &mockStorage{}
	trans := &mockTranscoder{processErr: &TranscodeError{Reason: "unsupported or corrupt image"}}
	svc := newTestProcessor(t, strg, trans)

	_, err := svc.ProcessUpload(context.Background(), jpegInput())

	var tErr *TranscodeError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TranscodeError, got %v", err)
	}
	if !strg.wasDiscarded("staging/src-1") {
		t.Error("staged source must be discarded after a transcode failure")
	}
	if len(strg.published) != 0 {
		t.Error("nothing may be published after a transcode failure")
	}
}

func TestProcessUpload_ThumbnailErrorDiscardsPrimaryIntermediate(t *testing.T) {
	strg := &mockStorage{}
	trans := &mockTranscoder{thumbnailErr: &TranscodeError{Reason: "thumbnail failed"}}
	svc := newTestProcessor(t, strg, trans)

	_, err := svc.ProcessUpload(context.Background(), jpegInput())

	var tErr *TranscodeError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TranscodeError, got %v", err)
	}
	if !strg.wasDiscarded("staging/src-1") || !strg.wasDiscarded("staging/src-1.primary") {
		t.Errorf("all staged intermediates must be discarded, got %v", strg.discarded)
	}
}

func TestProcessUpload_ThumbnailPublishFailureRollsBackPrimary(t *testing.T) {
	strg := &mockStorage{publishErrOn: map[model.ArtifactKind]error{
		model.ArtifactKindThumbnail: &StorageError{Op: "publishing", Err: errors.New("rename failed")},
	}}
	svc := newTestProcessor(t, strg, &mockTranscoder{})

	_, err := svc.ProcessUpload(context.Background(), jpegInput())

	var stErr *StorageError
	if !errors.As(err, &stErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if len(strg.published) != 1 {
		t.Fatalf("expected exactly the primary publish to have happened, got %d", len(strg.published))
	}
	// all-or-nothing: the already published primary must be removed again
	if len(strg.removed) != 1 || strg.removed[0] != strg.published[0].ID {
		t.Errorf("expected published primary %s to be rolled back, removed %v", strg.published[0].ID, strg.removed)
	}
	if !strg.wasDiscarded("staging/src-1.thumb") {
		t.Error("staged thumbnail must be discarded after its publish failed")
	}
}

func TestProcessUpload_ConcurrentUploadsAreIndependent(t *testing.T) {
	strg := &mockStorage{}
	trans := &mockTranscoder{}
	svc := newTestProcessor(t, strg, trans)

	var wg sync.WaitGroup
	outs := make([]*port.ProcessUploadOutput, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = svc.ProcessUpload(context.Background(), jpegInput())
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("upload %d failed: %v", i, errs[i])
		}
	}
	if outs[0].Original.ID == outs[1].Original.ID {
		t.Error("concurrent uploads must receive distinct identifiers")
	}
	if outs[0].Original.StoragePath == outs[1].Original.StoragePath {
		t.Error("concurrent uploads must not share artifact paths")
	}
}
