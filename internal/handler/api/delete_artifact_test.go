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
	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type mockDeleter struct {
	id  uuid.UUID
	err error
}

func (m *mockDeleter) DeleteArtifact(ctx context.Context, id uuid.UUID) error {
	m.id = id
	return m.err
}

func TestDeleteArtifactHandler(t *testing.T) {
	validID := uuid.UUID(googleuuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	tests := []struct {
		name           string
		ctxID          *uuid.UUID
		svcErr         error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:           "missing id",
			ctxID:          nil,
			svcErr:         nil,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "ID is required",
		},
		{
			name:           "not found",
			ctxID:          &validID,
			svcErr:         pipeline.ErrArtifactNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "Artifact not found",
		},
		{
			name:           "service error",
			ctxID:          &validID,
			svcErr:         errors.New("boom"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "Failed to delete artifact",
		},
		{
			name:       "happy path",
			ctxID:      &validID,
			svcErr:     nil,
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := &mockDeleter{err: tc.svcErr}
			h := DeleteArtifactHandler(mockSvc)

			req := httptest.NewRequest(http.MethodDelete, "/artifacts/"+validID.String(), nil)
			if tc.ctxID != nil {
				req = req.WithContext(context.WithValue(req.Context(), api_context.IDKey, *tc.ctxID))
			}

			rec := httptest.NewRecorder()
			h(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}

			if tc.wantStatus == http.StatusNoContent {
				if rec.Body.Len() != 0 {
					t.Errorf("expected empty body, got %q", rec.Body.String())
				}
				if mockSvc.id != validID {
					t.Errorf("service got ID = %s; want %s", mockSvc.id, validID)
				}
			} else if !strings.Contains(rec.Body.String(), tc.wantBodySubstr) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantBodySubstr)
			}
		})
	}
}
