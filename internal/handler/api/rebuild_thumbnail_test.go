package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	googleuuid "github.com/google/uuid"

	"github.com/imgpipe/images-ms-go/internal/api_context"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type mockDispatcher struct {
	originalID  uuid.UUID
	thumbnailID uuid.UUID
	called      bool
	err         error
}

func (m *mockDispatcher) EnqueueRebuildThumbnail(ctx context.Context, originalID, thumbnailID uuid.UUID) error {
	m.called = true
	m.originalID = originalID
	m.thumbnailID = thumbnailID
	return m.err
}
func (m *mockDispatcher) EnqueueSweepStaging(ctx context.Context) error { return nil }

func TestRebuildThumbnailHandler(t *testing.T) {
	originalID := uuid.UUID(googleuuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	thumbID := uuid.UUID(googleuuid.MustParse("11111111-2222-3333-4444-555555555555"))

	tests := []struct {
		name           string
		ctxID          *uuid.UUID
		body           string
		dispatchErr    error
		wantStatus     int
		wantDispatched bool
	}{
		{
			name:       "missing id",
			ctxID:      nil,
			body:       `{"thumbnail_id":"` + thumbID.String() + `"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid body",
			ctxID:      &originalID,
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid thumbnail id",
			ctxID:      &originalID,
			body:       `{"thumbnail_id":"not-a-uuid"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "dispatch error",
			ctxID:       &originalID,
			body:        `{"thumbnail_id":"` + thumbID.String() + `"}`,
			dispatchErr: errors.New("redis down"),
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name:           "happy path",
			ctxID:          &originalID,
			body:           `{"thumbnail_id":"` + thumbID.String() + `"}`,
			wantStatus:     http.StatusAccepted,
			wantDispatched: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := &mockDispatcher{err: tc.dispatchErr}
			h := RebuildThumbnailHandler(d)

			req := httptest.NewRequest(http.MethodPost, "/artifacts/"+originalID.String()+"/rebuild_thumbnail", strings.NewReader(tc.body))
			if tc.ctxID != nil {
				req = req.WithContext(context.WithValue(req.Context(), api_context.IDKey, *tc.ctxID))
			}
			rec := httptest.NewRecorder()

			h(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantDispatched {
				if !d.called {
					t.Fatal("expected the task to be enqueued")
				}
				if d.originalID != originalID || d.thumbnailID != thumbID {
					t.Errorf("enqueued ids %s/%s; want %s/%s", d.originalID, d.thumbnailID, originalID, thumbID)
				}
			} else if d.called && tc.wantStatus != http.StatusInternalServerError {
				t.Error("task should not be enqueued on validation failure")
			}
		})
	}
}
