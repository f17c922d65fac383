// Package http provides http transport for employees
package http

import (
	stdhttp "net/http"

	"compsync/internal/modkit/httpkit"
	perr "compsync/internal/platform/errors"
	pnet "compsync/internal/platform/net"
	"compsync/internal/services/employees/domain"
)

// Register mounts employee endpoints on the given router
func Register(r httpkit.Router, s domain.ReaderPort) {
	h := &handlers{svc: s}

	r.Use(httpkit.Org())

	// one record with its derived metrics
	httpkit.Get(r, "/{employeeId}", h.get)
}

type handlers struct{ svc domain.ReaderPort }

// swagger:route GET /employees/{employeeId} Employees employeesGet
// @Summary Employee by id
// @Tags Employees
// @Produce json
// @Param X-Org-ID header string true "Organization"
// @Param employeeId path string true "Employee id"
// @Success 200 {object} domain.Employee "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /employees/{employeeId} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := httpkit.URLParam(r, "employeeId")
	if id == "" {
		return nil, perr.WithField(perr.InvalidArgf("employeeId is required"), "employeeId")
	}
	return h.svc.Get(r.Context(), pnet.OrgID(r.Context()), id)
}
