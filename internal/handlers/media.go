package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const MaxUploadSize = 10 << 20

// mediaFolders maps each upload folder to the prefix of the names stored in
// it. Only avatars may be written by non-admins.
var mediaFolders = map[string]string{
	"professionals": "professional",
	"blogs":         "blog",
	"communities":   "community",
	"avatars":       "avatar",
}

type MediaHandler struct {
	blobService BlobServiceInterface
	roleService RoleServiceInterface
	baseURL     string
	now         func() time.Time
}

func NewMediaHandler(blobService BlobServiceInterface, roleService RoleServiceInterface, baseURL string) *MediaHandler {
	return &MediaHandler{
		blobService: blobService,
		roleService: roleService,
		baseURL:     strings.TrimRight(baseURL, "/"),
		now:         time.Now,
	}
}

func (h *MediaHandler) Upload(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	folder := c.Param("folder")
	prefix, ok := mediaFolders[folder]
	if !ok {
		writeError(c, http.StatusNotFound, CodeNotFound, "unknown media folder")
		return
	}

	ctx := c.Request.Context()

	if folder != "avatars" {
		isAdmin, err := h.roleService.IsAdmin(ctx, userID)
		if err != nil {
			writeInternal(c, err, "admin check failed")
			return
		}
		if !isAdmin {
			writeError(c, http.StatusForbidden, CodeForbidden, msgForbidden)
			return
		}
	}

	var req dto.UploadRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}
	if !strings.HasPrefix(req.ContentType, "image/") {
		writeError(c, http.StatusUnsupportedMediaType, CodeBadRequest, "only images can be uploaded")
		return
	}
	if len(req.Data) == 0 {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "data is required")
		return
	}
	if len(req.Data) > MaxUploadSize {
		writeError(c, http.StatusRequestEntityTooLarge, CodeTooLarge, "image exceeds 10 MiB")
		return
	}

	path := fmt.Sprintf("%s/%s_%d", folder, prefix, h.now().UnixMilli())
	if _, err := h.blobService.Put(ctx, path, req.ContentType, req.Data); err != nil {
		writeInternal(c, err, "failed to store upload")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.UploadResponse{
		URL:  h.baseURL + "/media/" + path,
		Path: path,
	})
}

// Serve writes a stored image. Media is public so listings can embed it.
func (h *MediaHandler) Serve(c *drift.Context) {
	folder := c.Param("folder")
	if _, ok := mediaFolders[folder]; !ok {
		writeError(c, http.StatusNotFound, CodeNotFound, "not found")
		return
	}

	blob, err := h.blobService.Get(c.Request.Context(), folder+"/"+c.Param("name"))
	if errors.Is(err, services.ErrBlobNotFound) {
		writeError(c, http.StatusNotFound, CodeNotFound, "not found")
		return
	}
	if err != nil {
		writeInternal(c, err, "failed to load media")
		return
	}

	c.Response.Header().Set("Content-Type", blob.ContentType)
	c.Response.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	c.Response.WriteHeader(http.StatusOK)
	_, _ = c.Response.Write(blob.Data)
}
