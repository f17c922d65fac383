// Package http provides http transport for salary bands
package http

import (
	stdhttp "net/http"

	"compsync/internal/modkit/httpkit"
	pnet "compsync/internal/platform/net"
	"compsync/internal/services/bands/domain"
	svc "compsync/internal/services/bands/service"
)

// Register mounts band endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Use(httpkit.Org())

	// create or replace a band, then recompute its employees
	httpkit.PutJSON[domain.Input](r, "/", h.save)

	httpkit.Get(r, "/", h.list)
}

type handlers struct{ svc svc.Service }

// swagger:route PUT /bands Bands bandsSave
// @Summary Save a salary band
// @Tags Bands
// @Accept json
// @Produce json
// @Param X-Org-ID header string true "Organization"
// @Param payload body domain.Input true "Band"
// @Success 200 {object} domain.Saved "ok"
// @Router /bands [put]
func (h *handlers) save(r *stdhttp.Request, in domain.Input) (any, error) {
	return h.svc.Save(r.Context(), pnet.OrgID(r.Context()), in)
}

// swagger:route GET /bands Bands bandsList
// @Summary List salary bands
// @Tags Bands
// @Produce json
// @Param X-Org-ID header string true "Organization"
// @Success 200 {array} domain.Band "ok"
// @Router /bands [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), pnet.OrgID(r.Context()))
}
