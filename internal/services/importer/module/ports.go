package module

import (
	"context"

	empdomain "compsync/internal/services/employees/domain"
	"compsync/internal/services/importer/domain"
	"compsync/internal/services/importer/service"
)

// Ports declares the ports this module needs injected
type Ports struct {
	Writer   empdomain.WriterPort
	Notifier service.Notifier
}

// RunnerPort is what the module exposes to the CLI and the server lifecycle
type RunnerPort interface {
	domain.ImporterPort
	// Run starts an import and blocks until it finishes
	Run(ctx context.Context, req domain.Request) (domain.Result, error)
	// Shutdown cancels active runs and waits for them
	Shutdown(ctx context.Context) error
}

var _ RunnerPort = (*service.Svc)(nil)
