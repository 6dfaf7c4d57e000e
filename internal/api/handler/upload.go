package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/upload"
)

// Storer stores one uploaded file.
type Storer interface {
	Put(ctx context.Context, category upload.Category, r io.Reader) (*upload.Result, error)
}

type Upload struct {
	store  Storer
	access *Access
}

// NewUpload returns the upload handler. A nil store disables uploads.
func NewUpload(store Storer, access *Access) *Upload {
	return &Upload{store: store, access: access}
}

// multipart framing allowance on top of the file itself
const formOverhead = 64 << 10

// Create godoc
//
//	@Summary		Upload an image
//	@Description	Accepts one image of at most 4MB in the multipart field "file".
//	@Tags			Uploads
//	@Security		SessionAuth
//	@Accept			multipart/form-data
//	@Param			category path string true "agencyLogo, subaccountLogo, avatar or media"
//	@Param			file formData file true "Image"
//	@Success		201 {object} upload.Result
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		413 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/uploads/{category} [post]
func (h *Upload) Create(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.WriteError(w, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}

	category := upload.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		response.WriteError(w, http.StatusBadRequest, "unknown upload category")
		return
	}

	u, ok := h.access.caller(w, r)
	if !ok {
		return
	}
	if category != upload.CategoryAvatar && !core.Allowed(u.Role, core.ResourceMedia, core.ActionWrite) {
		response.WriteError(w, http.StatusForbidden, "role "+string(u.Role)+" may not upload "+string(category))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+formOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, http.StatusRequestEntityTooLarge, upload.ErrTooLarge.Error())
			return
		}
		response.WriteError(w, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	res, err := h.store.Put(r.Context(), category, file)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, res)
}
