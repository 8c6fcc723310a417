package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/task"
	idkit "github.com/imgpipe/images-ms-go/internal/uuid"
)

type mockRebuilder struct {
	in     port.RebuildThumbnailInput
	called bool
	err    error
}

func (m *mockRebuilder) RebuildThumbnail(ctx context.Context, in port.RebuildThumbnailInput) error {
	m.called = true
	m.in = in
	return m.err
}

func TestRebuildThumbnailHandler_InvalidID(t *testing.T) {
	svc := &mockRebuilder{}
	p := task.RebuildThumbnailPayload{OriginalID: "invalid", ThumbnailID: "also-invalid"}
	if err := RebuildThumbnailHandler(context.Background(), p, svc); err == nil {
		t.Fatal("expected error for invalid UUID")
	}
	if svc.called {
		t.Error("service should not be called on invalid id")
	}
}

func TestRebuildThumbnailHandler_ServiceError(t *testing.T) {
	originalID := idkit.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	thumbID := idkit.UUID(uuid.MustParse("11111111-2222-3333-4444-555555555555"))
	svcErr := errors.New("svc fail")
	svc := &mockRebuilder{err: svcErr}

	p := task.RebuildThumbnailPayload{OriginalID: originalID.String(), ThumbnailID: thumbID.String()}
	if err := RebuildThumbnailHandler(context.Background(), p, svc); !errors.Is(err, svcErr) {
		t.Fatalf("got error %v; want %v", err, svcErr)
	}
	if !svc.called {
		t.Error("service not called")
	}
	if svc.in.OriginalID != originalID || svc.in.ThumbnailID != thumbID {
		t.Errorf("service got ids %s/%s; want %s/%s", svc.in.OriginalID, svc.in.ThumbnailID, originalID, thumbID)
	}
}

func TestRebuildThumbnailHandler_Success(t *testing.T) {
	originalID := idkit.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	thumbID := idkit.UUID(uuid.MustParse("11111111-2222-3333-4444-555555555555"))
	svc := &mockRebuilder{}

	p := task.RebuildThumbnailPayload{OriginalID: originalID.String(), ThumbnailID: thumbID.String()}
	if err := RebuildThumbnailHandler(context.Background(), p, svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.called {
		t.Error("service not called")
	}
}
