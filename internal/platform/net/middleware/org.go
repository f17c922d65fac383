package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/logger"
	pnet "compsync/internal/platform/net"
)

// OrgHeader carries the acting organization. Authentication sits in front of
// this service and is trusted to have set it.
const OrgHeader = "X-Org-ID"

// Org requires a uuid X-Org-ID header and stores it on the request context.
// write renders the rejection, usually phttp.RespondError.
func Org(write func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(OrgHeader))
			if raw == "" {
				write(w, r, perr.WithField(perr.InvalidArgf("missing %s header", OrgHeader), OrgHeader))
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				write(w, r, perr.WithField(perr.InvalidArgf("%s must be a uuid", OrgHeader), OrgHeader))
				return
			}
			org := id.String()
			ctx := pnet.WithRequest(r.Context(), "", org)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), org)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
