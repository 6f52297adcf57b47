// Package http provides http transport for policies
package http

import (
	"io"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"birdwatch/internal/modkit/httpkit"
	perr "birdwatch/internal/platform/errors"
	svc "birdwatch/internal/services/api/policies/service"
)

const maxUploadBytes = 1 << 20

// Register mounts policy endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Post("/upload", httpkit.Handle(h.upload))
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{name}", h.get)
}

type handlers struct{ svc svc.Service }

// @Summary Upload a policy document
// @Tags Policies
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Policy JSON file"
// @Success 201 {object} domain.PolicyInfo "created"
// @Router /policies/upload [post]
func (h *handlers) upload(r *stdhttp.Request) httpkit.Response {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return httpkit.Error(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "multipart form expected"))
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return httpkit.Error(perr.Newf(perr.ErrorCodeInvalidArgument, "file field is required"))
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return httpkit.Error(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "upload read failed"))
	}
	if len(data) > maxUploadBytes {
		return httpkit.Error(perr.Newf(perr.ErrorCodeInvalidArgument, "policy file exceeds %d bytes", maxUploadBytes))
	}

	info, err := h.svc.Upload(r.Context(), hdr.Filename, data)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Created(info)
}

// @Summary List stored policies
// @Tags Policies
// @Produce json
// @Success 200 {array} domain.PolicyInfo "ok"
// @Router /policies [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// @Summary Get one policy with resolved rules
// @Tags Policies
// @Produce json
// @Param name path string true "Policy name"
// @Success 200 {object} domain.PolicyDoc "ok"
// @Router /policies/{name} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "name"))
}
