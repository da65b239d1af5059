package asset

// UploadIntent is the result of allocating a new asset slot.
type UploadIntent struct {
	ID        int64
	UploadURL string
}

// CreateAssetResponse is the body returned for a new asset request.
type CreateAssetResponse struct {
	UploadURL string `json:"upload_url"`
	ID        int64  `json:"id"`
}

// DownloadResponse is the body returned for a download URL request.
type DownloadResponse struct {
	DownloadURL string `json:"download_url"`
}

// StatusResponse is the body returned for a confirmed upload.
type StatusResponse struct {
	Status string `json:"status"`
}

// MessageResponse is the body returned for every error.
type MessageResponse struct {
	Message string `json:"message"`
}
