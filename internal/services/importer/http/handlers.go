// Package http provides http transport for imports
package http

import (
	"errors"
	"io"
	stdhttp "net/http"
	"strconv"

	"compsync/internal/modkit/httpkit"
	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/logger"
	pnet "compsync/internal/platform/net"
	"compsync/internal/services/importer/domain"
)

// MaxUploadBytes caps a multipart upload
const MaxUploadBytes = 10 << 20

// Register mounts import endpoints on the given router
func Register(r httpkit.Router, s domain.ImporterPort) {
	h := &handlers{svc: s}

	// static csv, no org needed
	r.Get("/template", httpkit.Handle(h.template))

	r.Group(func(g httpkit.Router) {
		g.Use(httpkit.Org())
		g.Post("/", httpkit.Handle(h.start))
		httpkit.Get(g, "/{id}", h.status)
		httpkit.Delete(g, "/{id}", h.cancel)
	})
}

type handlers struct{ svc domain.ImporterPort }

// swagger:route POST /imports Imports importsStart
// @Summary Start an import
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param X-Org-ID header string true "Organization"
// @Param file formData file true "CSV or xlsx upload"
// @Param mode query string false "upsert (default) or replace"
// @Param confirm query bool false "required for replace"
// @Success 202 {object} domain.Accepted "accepted"
// @Failure 413 {object} httpkit.Envelope "row limit exceeded"
// @Failure 422 {object} httpkit.Envelope "invalid or empty upload"
// @Router /imports [post]
func (h *handlers) start(r *stdhttp.Request) httpkit.Response {
	mode, err := domain.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		return httpkit.Error(err)
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	data, name, ctype, err := readUpload(r)
	if err != nil {
		return httpkit.Error(err)
	}

	acc, err := h.svc.Start(r.Context(), domain.Request{
		OrgID:       pnet.OrgID(r.Context()),
		Data:        data,
		ContentType: ctype,
		Filename:    name,
		Mode:        mode,
		Confirmed:   confirmed,
	})
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Accepted(acc)
}

func readUpload(r *stdhttp.Request) (data []byte, name, ctype string, err error) {
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, "", "", perr.Newf(perr.ErrorCodeRowLimit, "upload exceeds %d bytes", MaxUploadBytes)
		}
		return nil, "", "", perr.WithField(perr.InvalidArgf("expected a multipart form with a file field"), "file")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, "", "", perr.WithField(perr.InvalidArgf("file is required"), "file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.C(r.Context()).Debug().Err(cerr).Msg("close upload")
		}
	}()
	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", perr.Wrap(err, perr.ErrorCodeInvalidFormat, "upload could not be read")
	}
	return data, hdr.Filename, hdr.Header.Get("Content-Type"), nil
}

// swagger:route GET /imports/{id} Imports importsStatus
// @Summary Import progress or result
// @Tags Imports
// @Produce json
// @Param X-Org-ID header string true "Organization"
// @Param id path string true "Run id"
// @Success 200 {object} domain.Status "ok"
// @Router /imports/{id} [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.owned(r)
}

// swagger:route DELETE /imports/{id} Imports importsCancel
// @Summary Cancel a running import
// @Tags Imports
// @Produce json
// @Param X-Org-ID header string true "Organization"
// @Param id path string true "Run id"
// @Success 202 {object} domain.Status "cancelling"
// @Router /imports/{id} [delete]
func (h *handlers) cancel(r *stdhttp.Request) (any, error) {
	st, err := h.owned(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Cancel(st.RunID); err != nil {
		return nil, err
	}
	return httpkit.Accepted(st), nil
}

// owned hides runs of other organizations
func (h *handlers) owned(r *stdhttp.Request) (domain.Status, error) {
	id := httpkit.URLParam(r, "id")
	st, err := h.svc.Status(id)
	if err != nil {
		return domain.Status{}, err
	}
	if st.OrgID != pnet.OrgID(r.Context()) {
		return domain.Status{}, perr.WithField(perr.NotFoundf("import run %s not found", id), "runId")
	}
	return st, nil
}

// swagger:route GET /imports/template Imports importsTemplate
// @Summary Blank upload template
// @Tags Imports
// @Produce text/csv
// @Success 200 {file} file "template"
// @Router /imports/template [get]
func (h *handlers) template(*stdhttp.Request) httpkit.Response {
	return httpkit.Attachment("text/csv; charset=utf-8", "employees_template.csv", h.svc.Template())
}
