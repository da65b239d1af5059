package asset

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for assets.
type Handler struct {
	service *Service
}

// NewHandler creates a new asset handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the asset routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assets := r.Group("/asset")
	{
		assets.POST("/", h.Create)
		assets.GET("/:id", h.Download)
		assets.PUT("/:id", h.Confirm)
	}
}

// Create handles POST /asset/. It allocates an asset and returns the
// presigned upload URL together with the new id.
func (h *Handler) Create(c *gin.Context) {
	intent, err := h.service.RequestUpload(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateAssetResponse{
		UploadURL: intent.UploadURL,
		ID:        intent.ID,
	})
}

// Download handles GET /asset/:id. The optional timeout query parameter
// bounds the returned URL's validity in seconds (default 60).
func (h *Handler) Download(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	seconds, err := strconv.Atoi(c.DefaultQuery("timeout", "60"))
	if err != nil || seconds <= 0 {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid timeout value!"})
		return
	}

	url, err := h.service.RequestDownload(c.Request.Context(), id, time.Duration(seconds)*time.Second)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DownloadResponse{DownloadURL: url})
}

// Confirm handles PUT /asset/:id. The multipart field "file" is relayed
// to storage; on success the asset is marked uploaded.
func (h *Handler) Confirm(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	// A missing file field is resolved after the existence check, so the
	// payload stays nil here instead of failing fast.
	var payload io.Reader
	var size int64
	var contentType string

	file, err := c.FormFile("file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			handleError(c, err)
			return
		}
		defer f.Close()
		payload = f
		size = file.Size
		contentType = file.Header.Get("Content-Type")
	}

	if err := h.service.ConfirmUpload(c.Request.Context(), id, payload, size, contentType); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "uploaded"})
}

// assetID parses the id path parameter. A non-numeric id addresses no
// asset, so it reports not-found directly.
func assetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, MessageResponse{Message: "No asset exists!"})
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	var uploadErr *UploadError
	switch {
	case errors.Is(err, ErrAssetNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "No asset exists!"})
	case errors.Is(err, ErrFileNotAvailable):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "No file found!"})
	case errors.Is(err, ErrMissingFile):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "No 'file' object found in the request! Aborting!"})
	case errors.As(err, &uploadErr):
		c.JSON(uploadErr.StatusCode, MessageResponse{Message: "Error uploading a file!"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error occured! Please try after some time!"})
	}
}
