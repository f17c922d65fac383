package module

import (
	"context"

	"compsync/internal/services/employees/domain"
	"compsync/internal/services/employees/service"
)

// Ports exposed by the employees module
type Ports struct {
	Writer     domain.WriterPort
	Calculator domain.CalculatorPort
	Reader     domain.ReaderPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

func newPorts(svc service.Service) Ports {
	a := adaptPorts{svc: svc}
	return Ports{Writer: a, Calculator: a, Reader: a}
}

type adaptPorts struct{ svc service.Service }

// WriteAll persists repaired rows for one organization
func (a adaptPorts) WriteAll(ctx context.Context, orgID string, rows []domain.EmployeeWrite, onBatch func(domain.Progress)) domain.WriteOutcome {
	return a.svc.WriteAll(ctx, orgID, rows, onBatch)
}

// ReplaceAll deletes every employee of the organization
func (a adaptPorts) ReplaceAll(ctx context.Context, orgID string) (int64, error) {
	return a.svc.ReplaceAll(ctx, orgID)
}

// Recompute refreshes one employee's derived fields
func (a adaptPorts) Recompute(ctx context.Context, orgID, employeeID string) (domain.Derived, error) {
	return a.svc.Recompute(ctx, orgID, employeeID)
}

// RecomputeBand refreshes everyone on a band
func (a adaptPorts) RecomputeBand(ctx context.Context, orgID, code string) domain.FanoutResult {
	return a.svc.RecomputeBand(ctx, orgID, code)
}

// Get returns one employee
func (a adaptPorts) Get(ctx context.Context, orgID, employeeID string) (domain.Employee, error) {
	return a.svc.Get(ctx, orgID, employeeID)
}
