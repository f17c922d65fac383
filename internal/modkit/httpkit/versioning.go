package httpkit

import (
	"net/http"
	"strings"
)

// MountAPI opens the /api/{version} scope, applies mw to it, then lets mount add module routes
// version may be given with or without a leading slash
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	ver := strings.Trim(version, "/")
	if ver == "" {
		panic("httpkit: empty API version")
	}
	r.Route("/api/"+ver, func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is the scope every compsync module lives under
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
