// Package olca defines the client abstraction and the schema views used to
// talk to a running openLCA modeling engine over its IPC interface. The
// engine owns every entity listed here; this package only describes the
// transient views exchanged with it during one request.
package olca

import "context"

// TargetEngineVersion is the openLCA release this backend is built against.
// It is reported by the status endpoint so the frontend can surface it.
const TargetEngineVersion = "2.6.0"

// ModelType names an engine model type as used by the descriptor listing API.
type ModelType string

const (
	ModelProductSystem  ModelType = "ProductSystem"
	ModelImpactMethod   ModelType = "ImpactMethod"
	ModelImpactCategory ModelType = "ImpactCategory"
	ModelProcess        ModelType = "Process"
	ModelFlow           ModelType = "Flow"
)

// KnownModelType reports whether s names a model type this backend exposes
// through the descriptor listing endpoint.
func KnownModelType(s string) bool {
	switch ModelType(s) {
	case ModelProductSystem, ModelImpactMethod, ModelImpactCategory, ModelProcess, ModelFlow:
		return true
	}

	return false
}

// Client is the abstraction for the engine's IPC interface. Implementations
// forward every call to a running engine; nothing is computed locally.
//
//go:generate mockgen -package mockolca -source=interface.go -destination=mock/mockolca.go *
type Client interface {
	// GetDescriptors lists lightweight references for all entities of the
	// given model type known to the engine's active database.
	GetDescriptors(ctx context.Context, modelType ModelType) ([]Ref, error)
	// GetProductSystem fetches a full product system by id.
	GetProductSystem(ctx context.Context, id string) (*ProductSystem, error)
	// GetImpactMethod fetches a full impact method by id, including its
	// impact category references.
	GetImpactMethod(ctx context.Context, id string) (*ImpactMethod, error)
	// GetImpactCategory fetches a full impact category by id. The full
	// entity carries the reference unit the descriptor lacks.
	GetImpactCategory(ctx context.Context, id string) (*ImpactCategory, error)
	// GetProcess fetches a full process by id.
	GetProcess(ctx context.Context, id string) (*Process, error)

	// Calculate submits a calculation to the engine and returns the initial
	// state of the scheduled result.
	Calculate(ctx context.Context, setup CalculationSetup) (*ResultState, error)
	// GetState reports the current state of a previously submitted result.
	GetState(ctx context.Context, resultID string) (*ResultState, error)
	// GetImpactCategories lists the impact categories present in a result.
	GetImpactCategories(ctx context.Context, resultID string) ([]Ref, error)
	// GetTotalImpacts returns the total impact value of every category in
	// the result.
	GetTotalImpacts(ctx context.Context, resultID string) ([]ImpactValue, error)
	// GetTotalImpactValueOf returns the total impact value of one category.
	GetTotalImpactValueOf(ctx context.Context, resultID string, category Ref) (*ImpactValue, error)
	// GetSankeyGraph asks the engine for its native contribution graph of
	// the result, pruned according to the request.
	GetSankeyGraph(ctx context.Context, resultID string, req SankeyRequest) (*SankeyGraph, error)
	// Dispose releases the engine-side memory held by a result.
	Dispose(ctx context.Context, resultID string) error
}
