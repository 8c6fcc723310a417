package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	googleuuid "github.com/google/uuid"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

var mockID = uuid.UUID(googleuuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))

func TestArtifactRepository_Create_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewArtifactRepository(sqlDB)

	a := &model.Artifact{
		ID:          mockID,
		Kind:        model.ArtifactKindOriginal,
		StoragePath: "uploads/" + mockID.String() + ".jpg",
		MimeType:    "image/jpeg",
		SizeBytes:   12345,
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`
      INSERT INTO artifacts
        (id, kind, storage_path, mime_type, size_bytes, created_at)
      VALUES (?, ?, ?, ?, ?, ?)
    `)).
		WithArgs(
			a.ID,
			a.Kind,
			a.StoragePath,
			a.MimeType,
			a.SizeBytes,
			a.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Errorf("Create() returned unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestArtifactRepository_Create_ExecError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewArtifactRepository(sqlDB)

	a := &model.Artifact{
		ID:          mockID,
		Kind:        model.ArtifactKindThumbnail,
		StoragePath: "uploads/" + mockID.String() + ".png",
		MimeType:    "image/png",
		SizeBytes:   0,
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO artifacts`)).
		WillReturnError(errors.New("exec failed"))

	if err := repo.Create(context.Background(), a); err == nil {
		t.Error("expected error from Create(), got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestArtifactRepository_GetByID_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewArtifactRepository(sqlDB)

	created := time.Now().UTC().Truncate(time.Second)
	idBytes, _ := googleuuid.UUID(mockID).MarshalBinary()
	rows := sqlmock.NewRows([]string{"id", "kind", "storage_path", "mime_type", "size_bytes", "created_at"}).
		AddRow(idBytes, "original", "uploads/"+mockID.String()+".webp", "image/webp", int64(999), created)

	mock.ExpectQuery(regexp.QuoteMeta(`
      SELECT id, kind, storage_path, mime_type, size_bytes, created_at
      FROM artifacts
      WHERE id = ?
    `)).
		WithArgs(mockID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), mockID)
	if err != nil {
		t.Fatalf("GetByID() returned unexpected error: %v", err)
	}
	if got.ID != mockID {
		t.Errorf("expected id %q, got %q", mockID, got.ID)
	}
	if got.Kind != model.ArtifactKindOriginal {
		t.Errorf("expected kind %q, got %q", model.ArtifactKindOriginal, got.Kind)
	}
	if got.SizeBytes != 999 {
		t.Errorf("expected size 999, got %d", got.SizeBytes)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestArtifactRepository_GetByID_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewArtifactRepository(sqlDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, kind, storage_path, mime_type, size_bytes, created_at`)).
		WithArgs(mockID).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), mockID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestArtifactRepository_Delete(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewArtifactRepository(sqlDB)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM artifacts WHERE id = ?`)).
		WithArgs(mockID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), mockID); err != nil {
		t.Errorf("Delete() returned unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
