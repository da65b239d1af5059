package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetvault/server/internal/module/asset/storage"
	"github.com/assetvault/server/internal/shared/logger"
	"github.com/assetvault/server/internal/utils/requestctx"
)

// --- Fakes ---

type fakeRecord struct {
	url      string
	uploaded bool
}

type fakeRepo struct {
	nextID  int64
	records map[int64]*fakeRecord
	failOn  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[int64]*fakeRecord)}
}

func (r *fakeRepo) Allocate(ctx context.Context) (int64, error) {
	if r.failOn == "allocate" {
		return 0, assert.AnError
	}
	r.nextID++
	r.records[r.nextID] = &fakeRecord{}
	return r.nextID, nil
}

func (r *fakeRepo) GetURL(ctx context.Context, id int64) (string, error) {
	rec, ok := r.records[id]
	if !ok {
		return "", ErrAssetNotFound
	}
	return rec.url, nil
}

func (r *fakeRepo) GetStatus(ctx context.Context, id int64) (bool, error) {
	rec, ok := r.records[id]
	if !ok {
		return false, ErrAssetNotFound
	}
	return rec.uploaded, nil
}

func (r *fakeRepo) SetURL(ctx context.Context, id int64, url string) error {
	rec, ok := r.records[id]
	if !ok {
		return ErrAssetNotFound
	}
	rec.url = url
	return nil
}

func (r *fakeRepo) SetStatus(ctx context.Context, id int64, uploaded bool) error {
	rec, ok := r.records[id]
	if !ok {
		return ErrAssetNotFound
	}
	rec.uploaded = uploaded
	return nil
}

type fakeSigner struct {
	failPut bool
	failGet bool
}

func (s *fakeSigner) PresignUpload(ctx context.Context, key string) (*storage.PresignedURL, error) {
	if s.failPut {
		return nil, assert.AnError
	}
	return &storage.PresignedURL{
		URL:       fmt.Sprintf("https://storage.test/%s?method=PUT", key),
		Method:    "PUT",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (s *fakeSigner) PresignDownload(ctx context.Context, key string, expiry time.Duration) (*storage.PresignedURL, error) {
	if s.failGet {
		return nil, assert.AnError
	}
	return &storage.PresignedURL{
		URL:       fmt.Sprintf("https://storage.test/%s?method=GET&expires=%d", key, int(expiry.Seconds())),
		Method:    "GET",
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

type fakeRelay struct {
	status   int
	err      error
	lastURL  string
	lastBody string
}

func (r *fakeRelay) Put(ctx context.Context, url string, body io.Reader, size int64, contentType string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.lastURL = url
	data, _ := io.ReadAll(body)
	r.lastBody = string(data)
	return r.status, nil
}

func newTestService(repo *fakeRepo, signer *fakeSigner, relay *fakeRelay) *Service {
	return NewService(repo, signer, relay, nil, nil)
}

// --- Tests ---

func TestService_RequestUpload(t *testing.T) {
	t.Run("allocates distinct ids", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), &fakeSigner{}, &fakeRelay{})

		seen := make(map[int64]bool)
		for i := 0; i < 10; i++ {
			intent, err := svc.RequestUpload(context.Background())
			require.NoError(t, err)
			assert.False(t, seen[intent.ID], "id %d allocated twice", intent.ID)
			seen[intent.ID] = true
		}
	})

	t.Run("persists the signed upload url", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, intent.UploadURL)

		stored, err := repo.GetURL(context.Background(), intent.ID)
		require.NoError(t, err)
		assert.Equal(t, intent.UploadURL, stored)
	})

	t.Run("new asset starts unconfirmed", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		uploaded, err := repo.GetStatus(context.Background(), intent.ID)
		require.NoError(t, err)
		assert.False(t, uploaded)
	})

	t.Run("propagates signing failure", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), &fakeSigner{failPut: true}, &fakeRelay{})

		_, err := svc.RequestUpload(context.Background())
		assert.Error(t, err)
	})
}

func TestService_RequestDownload(t *testing.T) {
	t.Run("unknown asset", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), &fakeSigner{}, &fakeRelay{})

		_, err := svc.RequestDownload(context.Background(), 999, time.Minute)
		assert.ErrorIs(t, err, ErrAssetNotFound)
	})

	t.Run("asset without upload", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		_, err = svc.RequestDownload(context.Background(), intent.ID, time.Minute)
		assert.ErrorIs(t, err, ErrFileNotAvailable)
	})

	t.Run("uploaded asset gets a fresh url with the requested expiry", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)
		require.NoError(t, repo.SetStatus(context.Background(), intent.ID, true))

		url, err := svc.RequestDownload(context.Background(), intent.ID, 30*time.Second)
		require.NoError(t, err)
		assert.Contains(t, url, "expires=30")
		assert.NotEqual(t, intent.UploadURL, url)
	})

	t.Run("zero expiry falls back to the default", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)
		require.NoError(t, repo.SetStatus(context.Background(), intent.ID, true))

		url, err := svc.RequestDownload(context.Background(), intent.ID, 0)
		require.NoError(t, err)
		assert.Contains(t, url, "expires=60")
	})
}

func TestService_LogsCarryRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(&logger.Config{Level: "info", Format: "json", Output: buf})
	svc := NewService(newFakeRepo(), &fakeSigner{}, &fakeRelay{status: 200}, log, nil)

	ctx := requestctx.WithRequestID(context.Background(), "req-abc-123")
	_, err := svc.RequestUpload(ctx)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "req-abc-123")

	t.Run("absent request id leaves logs bare", func(t *testing.T) {
		buf.Reset()
		_, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		assert.NotContains(t, buf.String(), "request_id")
	})
}

func TestService_ConfirmUpload(t *testing.T) {
	t.Run("unknown asset wins over missing payload", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), &fakeSigner{}, &fakeRelay{status: 200})

		err := svc.ConfirmUpload(context.Background(), 42, nil, 0, "")
		assert.ErrorIs(t, err, ErrAssetNotFound)
	})

	t.Run("missing payload on existing asset", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{status: 200})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		err = svc.ConfirmUpload(context.Background(), intent.ID, nil, 0, "")
		assert.ErrorIs(t, err, ErrMissingFile)

		uploaded, err := repo.GetStatus(context.Background(), intent.ID)
		require.NoError(t, err)
		assert.False(t, uploaded, "missing payload must not mutate upload state")
	})

	t.Run("relays to the stored url and marks uploaded", func(t *testing.T) {
		repo := newFakeRepo()
		relay := &fakeRelay{status: 200}
		svc := newTestService(repo, &fakeSigner{}, relay)

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		err = svc.ConfirmUpload(context.Background(), intent.ID, strings.NewReader("hello"), 5, "text/plain")
		require.NoError(t, err)
		assert.Equal(t, intent.UploadURL, relay.lastURL)
		assert.Equal(t, "hello", relay.lastBody)

		uploaded, err := repo.GetStatus(context.Background(), intent.ID)
		require.NoError(t, err)
		assert.True(t, uploaded)
	})

	t.Run("rejected relay keeps the asset unconfirmed", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{status: 403})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		err = svc.ConfirmUpload(context.Background(), intent.ID, strings.NewReader("hello"), 5, "")
		var uploadErr *UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, 403, uploadErr.StatusCode)

		uploaded, err := repo.GetStatus(context.Background(), intent.ID)
		require.NoError(t, err)
		assert.False(t, uploaded)
	})

	t.Run("retry after rejected relay can succeed", func(t *testing.T) {
		repo := newFakeRepo()
		relay := &fakeRelay{status: 500}
		svc := newTestService(repo, &fakeSigner{}, relay)

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		err = svc.ConfirmUpload(context.Background(), intent.ID, strings.NewReader("hello"), 5, "")
		require.Error(t, err)

		relay.status = 200
		err = svc.ConfirmUpload(context.Background(), intent.ID, strings.NewReader("hello"), 5, "")
		require.NoError(t, err)

		uploaded, err := repo.GetStatus(context.Background(), intent.ID)
		require.NoError(t, err)
		assert.True(t, uploaded)
	})

	t.Run("transport error is not an upload error", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeSigner{}, &fakeRelay{err: errors.New("connection refused")})

		intent, err := svc.RequestUpload(context.Background())
		require.NoError(t, err)

		err = svc.ConfirmUpload(context.Background(), intent.ID, strings.NewReader("hello"), 5, "")
		require.Error(t, err)

		var uploadErr *UploadError
		assert.False(t, errors.As(err, &uploadErr))
	})
}
