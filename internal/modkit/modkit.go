package modkit

import "compsync/internal/modkit/module"

// Module is the surface every compsync service module exposes to the api root
// it is the module package contract re-exported so service modules import one kit
type Module = module.Module
