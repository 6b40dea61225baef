package sankey

import (
	"context"

	"sankey/pkg/domain"
	"sankey/pkg/olca"
)

// Params are the request parameters of one Sankey build.
type Params struct {
	// ImpactMethodID selects the impact method; empty picks the first
	// method the engine lists.
	ImpactMethodID string
	// ImpactCategoryID selects the impact category; empty auto-selects the
	// category with the largest absolute total impact.
	ImpactCategoryID string
	// MaxNodes limits the number of nodes in the contribution graph.
	MaxNodes int
	// MinShare is the minimum contribution share in percent, as sent by the
	// frontend. The engine expects a fraction; the service converts.
	MinShare float64
}

// Engine hands out the shared client handle to the modeling engine.
type Engine interface {
	Client(ctx context.Context) (olca.Client, error)
}

// Service builds frontend-facing views from engine data.
//
//go:generate mockgen -package mocksankey -source=interface.go -destination=mock/mocksankey.go *
type Service interface {
	// Descriptors lists engine descriptors for a model type name. Unknown
	// type names yield an empty list, not an error.
	Descriptors(ctx context.Context, modelType string) ([]olca.Ref, error)
	// Categories lists the impact categories of a method with their
	// reference units. A missing method yields an empty list.
	Categories(ctx context.Context, methodID string) ([]domain.Category, error)
	// Build runs a calculation for the product system and shapes the
	// engine's contribution graph into a frontend diagram. It blocks until
	// the calculation is ready, errored or timed out.
	Build(ctx context.Context, systemID string, params Params) (*domain.Diagram, error)
}
