package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/assetvault/server/internal/module/asset/storage"
	"github.com/assetvault/server/internal/shared/logger"
	"github.com/assetvault/server/internal/utils/metrics"
	"github.com/assetvault/server/internal/utils/requestctx"
)

// DefaultDownloadExpiry bounds the download URL validity window when the
// caller does not supply one.
const DefaultDownloadExpiry = 60 * time.Second

// Signer produces time-limited URLs for object storage operations.
type Signer interface {
	PresignUpload(ctx context.Context, key string) (*storage.PresignedURL, error)
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (*storage.PresignedURL, error)
}

// Relay forwards an upload payload to a presigned storage URL and reports
// the upstream status code.
type Relay interface {
	Put(ctx context.Context, url string, body io.Reader, size int64, contentType string) (int, error)
}

// Service orchestrates the asset record store, the URL signer and the
// upload relay.
type Service struct {
	repo    Repository
	signer  Signer
	relay   Relay
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewService creates a new asset service.
func NewService(repo Repository, signer Signer, relay Relay, log *logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.New(nil)
	}
	return &Service{
		repo:    repo,
		signer:  signer,
		relay:   relay,
		logger:  log,
		metrics: m,
	}
}

// log returns the service logger, enriched with the request id when the
// context carries one.
func (s *Service) log(ctx context.Context) *logger.Logger {
	if id := requestctx.RequestID(ctx); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

// RequestUpload allocates a new asset slot, signs an upload URL keyed by
// the new id and records that URL on the asset.
func (s *Service) RequestUpload(ctx context.Context) (*UploadIntent, error) {
	id, err := s.repo.Allocate(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate asset: %w", err)
	}

	signed, err := s.signer.PresignUpload(ctx, objectKey(id))
	if err != nil {
		return nil, fmt.Errorf("presign upload for asset %d: %w", id, err)
	}

	if err := s.repo.SetURL(ctx, id, signed.URL); err != nil {
		return nil, fmt.Errorf("record upload url for asset %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.RecordAssetCreated()
		s.metrics.RecordPresign("put")
	}
	s.log(ctx).InfoContext(ctx, "asset allocated", "asset_id", id)

	return &UploadIntent{ID: id, UploadURL: signed.URL}, nil
}

// RequestDownload signs a fresh download URL for an uploaded asset. The
// stored upload URL is never reused here; every call re-signs.
func (s *Service) RequestDownload(ctx context.Context, id int64, expiry time.Duration) (string, error) {
	uploaded, err := s.repo.GetStatus(ctx, id)
	if err != nil {
		return "", err
	}
	if !uploaded {
		return "", ErrFileNotAvailable
	}

	if expiry <= 0 {
		expiry = DefaultDownloadExpiry
	}

	signed, err := s.signer.PresignDownload(ctx, objectKey(id), expiry)
	if err != nil {
		return "", fmt.Errorf("presign download for asset %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.RecordPresign("get")
	}

	return signed.URL, nil
}

// ConfirmUpload relays the payload to the upload URL recorded at
// allocation and, on success, marks the asset uploaded. A rejected relay
// leaves the asset unconfirmed so the client can retry.
//
// A nil payload means the request carried no file: the existence check
// still runs first, so an unknown asset id reports not-found rather than
// a validation failure.
func (s *Service) ConfirmUpload(ctx context.Context, id int64, payload io.Reader, size int64, contentType string) error {
	url, err := s.repo.GetURL(ctx, id)
	if err != nil {
		return err
	}

	if payload == nil {
		return ErrMissingFile
	}

	start := time.Now()
	status, err := s.relay.Put(ctx, url, payload, size, contentType)
	if err != nil {
		return fmt.Errorf("relay upload for asset %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.RecordRelay(status, time.Since(start))
	}

	if status != http.StatusOK {
		s.log(ctx).WarnContext(ctx, "upload relay rejected",
			"asset_id", id,
			"upstream_status", status,
		)
		return &UploadError{StatusCode: status}
	}

	if err := s.repo.SetStatus(ctx, id, true); err != nil {
		return fmt.Errorf("mark asset %d uploaded: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.RecordUploadConfirmed()
	}
	s.log(ctx).InfoContext(ctx, "upload confirmed", "asset_id", id)

	return nil
}

// objectKey maps an asset id to its object storage key.
func objectKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
