// Package module defines the contract every compsync service module satisfies
package module

import (
	phttp "compsync/internal/platform/net/http"
)

// Module is what the api root mounts: routes under the versioned scope, a named port set
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
