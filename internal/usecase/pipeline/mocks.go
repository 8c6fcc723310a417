package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type mockStorage struct {
	mu sync.Mutex

	stageErr      error
	publishErrOn  map[model.ArtifactKind]error
	removeErr     error
	getErr        error
	listStagedOut []string
	listStagedErr error

	stagedCount int
	staged      []string
	discarded   []string
	published   []*model.Artifact
	removed     []uuid.UUID
	getReader   io.ReadSeekCloser
}

func (m *mockStorage) Stage(ctx context.Context, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stageErr != nil {
		return "", m.stageErr
	}
	// drain the reader so the size cap is exercised like a real copy would
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.stagedCount++
	p := fmt.Sprintf("staging/src-%d", m.stagedCount)
	m.staged = append(m.staged, p)
	return p, nil
}

func (m *mockStorage) Publish(ctx context.Context, stagedPath string, id uuid.UUID, kind model.ArtifactKind, mimeType string) (*model.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.publishErrOn[kind]; err != nil {
		return nil, err
	}
	ext, err := MimeTypeToExtension(mimeType)
	if err != nil {
		return nil, err
	}
	a := &model.Artifact{
		ID:          id,
		Kind:        kind,
		StoragePath: "uploads/" + id.String() + ext,
		MimeType:    mimeType,
		SizeBytes:   42,
		CreatedAt:   time.Now(),
	}
	m.published = append(m.published, a)
	return a, nil
}

func (m *mockStorage) Discard(ctx context.Context, stagedPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded = append(m.discarded, stagedPath)
}

func (m *mockStorage) Remove(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockStorage) GetPublished(ctx context.Context, storagePath string) (io.ReadSeekCloser, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getReader, nil
}

func (m *mockStorage) ListStaged(ctx context.Context, before time.Time) ([]string, error) {
	if m.listStagedErr != nil {
		return nil, m.listStagedErr
	}
	return m.listStagedOut, nil
}

func (m *mockStorage) PublicDir() string { return "/tmp/uploads" }

func (m *mockStorage) wasDiscarded(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.discarded {
		if p == path {
			return true
		}
	}
	return false
}

type mockTranscoder struct {
	processErr   error
	thumbnailErr error

	processCalled   bool
	thumbnailCalled bool
	processOpts     model.ProcessingOptions
	thumbnailSize   int
}

func (m *mockTranscoder) Process(ctx context.Context, stagedPath string, opts model.ProcessingOptions) (string, error) {
	m.processCalled = true
	m.processOpts = opts
	if m.processErr != nil {
		return "", m.processErr
	}
	return stagedPath + ".primary", nil
}

func (m *mockTranscoder) Thumbnail(ctx context.Context, stagedPath string, size int, format model.OutputFormat) (string, error) {
	m.thumbnailCalled = true
	m.thumbnailSize = size
	if m.thumbnailErr != nil {
		return "", m.thumbnailErr
	}
	return stagedPath + ".thumb", nil
}

type mockRepo struct {
	artifactRecord *model.Artifact

	getErr    error
	createErr error
	deleteErr error

	created   []*model.Artifact
	deletedID uuid.UUID

	getCalled    bool
	deleteCalled bool
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Artifact, error) {
	m.getCalled = true
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.artifactRecord, nil
}

func (m *mockRepo) Create(ctx context.Context, a *model.Artifact) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, a)
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalled = true
	m.deletedID = id
	return m.deleteErr
}

type mockCache struct {
	delCalled     bool
	delEtagCalled bool
	delErr        error
}

func (c *mockCache) GetArtifactDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil
}
func (c *mockCache) GetEtagArtifactDetails(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}
func (c *mockCache) SetArtifactDetails(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
}
func (c *mockCache) SetEtagArtifactDetails(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
}
func (c *mockCache) DeleteArtifactDetails(ctx context.Context, id uuid.UUID) error {
	c.delCalled = true
	return c.delErr
}
func (c *mockCache) DeleteEtagArtifactDetails(ctx context.Context, id uuid.UUID) error {
	c.delEtagCalled = true
	return c.delErr
}
