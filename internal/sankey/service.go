// Package sankey orchestrates calculations against the openLCA engine and
// reshapes its native contribution graph for the visualization frontend.
// All numerical LCA work happens inside the engine; this package only maps
// parameters in and results out.
package sankey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sankey/internal/config"
	"sankey/pkg/domain"
	"sankey/pkg/logger"
	"sankey/pkg/metrics"
	"sankey/pkg/olca"
	"sankey/pkg/serrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Options configure polling behavior and metrics registration.
type Options struct {
	// PollInterval is the fixed interval between result state checks.
	PollInterval time.Duration
	// CalcTimeout is the maximum time to wait for a calculation.
	CalcTimeout time.Duration
	// Registerer receives the service metrics; nil uses the default
	// Prometheus registerer.
	Registerer prometheus.Registerer
}

// NewOptions constructs an Options value from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PollInterval: cfg.Engine.PollInterval,
		CalcTimeout:  cfg.Engine.CalcTimeout,
	}
}

// service is the concrete implementation of the Service interface.
type service struct {
	options Options
	engine  Engine

	// calcDuration tracks the wall time of one Build call per outcome
	// (ok, empty, error, timeout).
	calcDuration *prometheus.HistogramVec
}

// New creates a Service backed by the given engine gateway.
func New(engine Engine, options Options) Service {
	reg := options.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &service{
		options: options,
		engine:  engine,
		calcDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sankey_build_duration_seconds",
			Help:    "Wall time of one Sankey build, including engine polling.",
			Buckets: metrics.DefaultBuckets,
		}, []string{"outcome"}),
	}
}

// Descriptors lists engine descriptors for a model type name.
func (s *service) Descriptors(ctx context.Context, modelType string) ([]olca.Ref, error) {
	if !olca.KnownModelType(modelType) {
		return []olca.Ref{}, nil
	}

	cl, err := s.engine.Client(ctx)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	refs, err := cl.GetDescriptors(ctx, olca.ModelType(modelType))
	if err != nil {
		return nil, fmt.Errorf("could not list descriptors: %w", err)
	}
	if refs == nil {
		refs = []olca.Ref{}
	}

	return refs, nil
}

// Categories lists the impact categories of a method with reference units.
func (s *service) Categories(ctx context.Context, methodID string) ([]domain.Category, error) {
	cl, err := s.engine.Client(ctx)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	method, err := cl.GetImpactMethod(ctx, methodID)
	if errors.Is(err, serrors.ErrNotFound) {
		return []domain.Category{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get impact method: %w", err)
	}

	categories := make([]domain.Category, 0, len(method.ImpactCategories))
	for _, ref := range method.ImpactCategories {
		// the descriptor lacks the reference unit; fetch the full entity
		unit := ""
		if full, err := cl.GetImpactCategory(ctx, ref.ID); err == nil {
			unit = full.RefUnit
		}
		categories = append(categories, domain.Category{
			ID:      ref.ID,
			Name:    ref.Name,
			RefUnit: unit,
		})
	}

	return categories, nil
}

// Build runs a calculation for the product system and shapes the engine's
// contribution graph into a frontend diagram.
func (s *service) Build(ctx context.Context, systemID string, params Params) (*domain.Diagram, error) {
	start := time.Now()
	diagram, err := s.build(ctx, systemID, params)

	outcome := "ok"
	switch {
	case errors.Is(err, serrors.ErrTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	case len(diagram.Nodes) == 0:
		outcome = "empty"
	}
	s.calcDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return diagram, err
}

func (s *service) build(ctx context.Context, systemID string, params Params) (*domain.Diagram, error) {
	cl, err := s.engine.Client(ctx)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	system, err := cl.GetProductSystem(ctx, systemID)
	if errors.Is(err, serrors.ErrNotFound) {
		return nil, serrors.With(serrors.ErrNotFound, "product system not found")
	}
	if err != nil {
		return nil, fmt.Errorf("could not load product system: %w", err)
	}

	ctx = logger.WithFields(ctx, zap.String("system", system.Name))
	logger.Info(ctx, "calculating sankey graph")

	methods, err := cl.GetDescriptors(ctx, olca.ModelImpactMethod)
	if err != nil {
		return nil, fmt.Errorf("could not list impact methods: %w", err)
	}
	if len(methods) == 0 {
		logger.Warn(ctx, "no impact methods found in database")

		return domain.EmptyDiagram(), nil
	}

	methodRef := resolveMethod(methods, params.ImpactMethodID)
	logger.Info(ctx, "using impact method", zap.String("method", methodRef.Name))

	amount := system.TargetAmount
	if amount == 0 {
		amount = 1.0
	}
	state, err := cl.Calculate(ctx, olca.CalculationSetup{
		Target:       system.Ref(),
		ImpactMethod: &methodRef,
		Amount:       amount,
	})
	if err != nil {
		return nil, fmt.Errorf("could not submit calculation: %w", err)
	}
	if state.Error != "" {
		// submission-time failures keep the frontend alive with an empty view
		logger.Error(ctx, "calculation rejected by engine", zap.String("error", state.Error))

		return domain.EmptyDiagram(), nil
	}

	resultID := state.ID
	defer func() {
		if err := cl.Dispose(context.WithoutCancel(ctx), resultID); err != nil {
			logger.Warn(ctx, "could not dispose result", zap.Error(err))
		}
	}()

	if err := s.waitForResult(ctx, cl, resultID); err != nil {
		return nil, err
	}

	cats, err := cl.GetImpactCategories(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("could not list result impact categories: %w", err)
	}
	if len(cats) == 0 {
		logger.Warn(ctx, "no impact categories in result")

		return domain.EmptyDiagram(), nil
	}

	target, err := s.resolveCategory(ctx, cl, resultID, cats, params.ImpactCategoryID)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "using impact category", zap.String("category", target.Name))

	totalValue, err := cl.GetTotalImpactValueOf(ctx, resultID, target)
	if err != nil {
		return nil, fmt.Errorf("could not get total impact: %w", err)
	}
	totalImpact := totalValue.Amount

	// the category descriptor lacks the reference unit
	unit := ""
	if full, err := cl.GetImpactCategory(ctx, target.ID); err == nil {
		unit = full.RefUnit
	}

	graph, err := cl.GetSankeyGraph(ctx, resultID, olca.SankeyRequest{
		ImpactCategory: target,
		MaxNodes:       params.MaxNodes,
		// frontend sends a percentage, the engine expects a fraction
		MinShare: params.MinShare / 100.0,
	})
	if errors.Is(err, serrors.ErrNotFound) {
		logger.Warn(ctx, "engine returned no sankey graph")

		return domain.EmptyDiagram(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get sankey graph: %w", err)
	}
	if graph == nil || len(graph.Nodes) == 0 {
		logger.Warn(ctx, "sankey graph is empty")

		return domain.EmptyDiagram(), nil
	}

	diagram := shapeDiagram(graph, target, unit, totalImpact)
	logger.Info(ctx, "sankey graph built",
		zap.Int("nodes", len(diagram.Nodes)),
		zap.Int("links", len(diagram.Links)),
		zap.Float64("totalImpact", totalImpact))

	return diagram, nil
}

// waitForResult polls the result state at a fixed interval until it is ready,
// errored or the calculation timeout elapses. It blocks the calling request.
func (s *service) waitForResult(ctx context.Context, cl olca.Client, resultID string) error {
	start := time.Now()
	for {
		state, err := cl.GetState(ctx, resultID)
		if err != nil {
			return fmt.Errorf("could not get result state: %w", err)
		}
		if state.Error != "" {
			return serrors.With(serrors.ErrInternal, "calculation error: %s", state.Error)
		}
		if state.IsReady {
			logger.Info(ctx, "calculation ready",
				zap.Float64("waited", time.Since(start).Seconds()))

			return nil
		}
		if time.Since(start) >= s.options.CalcTimeout {
			return serrors.With(serrors.ErrTimeout, "calculation timed out")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for result: %w", ctx.Err())
		case <-time.After(s.options.PollInterval):
		}
	}
}

// resolveCategory returns the explicitly requested category when it is part
// of the result, otherwise the category with the largest absolute total
// impact, falling back to the first category when all totals are zero.
func (s *service) resolveCategory(ctx context.Context,
	cl olca.Client,
	resultID string,
	cats []olca.Ref,
	explicitID string) (olca.Ref, error) {
	if explicitID != "" {
		if cat, ok := matchCategory(cats, explicitID); ok {
			return cat, nil
		}
	}

	totals, err := cl.GetTotalImpacts(ctx, resultID)
	if err != nil {
		return olca.Ref{}, fmt.Errorf("could not get total impacts: %w", err)
	}
	impacts := make(map[string]float64, len(totals))
	for _, tv := range totals {
		if tv.ImpactCategory != nil {
			impacts[tv.ImpactCategory.ID] = tv.Amount
		}
	}

	if cat, ok := pickLargest(cats, impacts); ok {
		logger.Info(ctx, "auto-selected impact category",
			zap.String("category", cat.Name),
			zap.Float64("impact", impacts[cat.ID]))

		return cat, nil
	}

	return cats[0], nil
}
