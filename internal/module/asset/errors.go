package asset

import (
	"errors"
	"fmt"
)

// Module errors.
var (
	// ErrAssetNotFound indicates the asset id was never allocated.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrFileNotAvailable indicates the asset exists but nothing was
	// ever uploaded for it.
	ErrFileNotAvailable = errors.New("file not available")
	// ErrMissingFile indicates the confirm request carried no file payload.
	ErrMissingFile = errors.New("missing file payload")
)

// UploadError reports a relay transfer the storage backend rejected.
// StatusCode carries the upstream response code.
type UploadError struct {
	StatusCode int
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload relay failed with status %d", e.StatusCode)
}
