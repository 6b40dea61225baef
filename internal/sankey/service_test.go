package sankey_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sankey/internal/sankey"
	"sankey/pkg/logger"
	"sankey/pkg/olca"
	"sankey/pkg/serrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeClient is a scriptable olca.Client for service tests.
type fakeClient struct {
	descriptors map[olca.ModelType][]olca.Ref
	system      *olca.ProductSystem
	method      *olca.ImpactMethod
	fullCats    map[string]*olca.ImpactCategory

	calcErr    error
	calcState  olca.ResultState
	calcSetup  *olca.CalculationSetup // captured
	states     []olca.ResultState     // consumed per GetState call; last repeats
	stateCalls int

	impactCats []olca.Ref
	totals     []olca.ImpactValue
	totalOf    olca.ImpactValue

	graph     *olca.SankeyGraph
	graphErr  error
	sankeyReq *olca.SankeyRequest // captured

	disposed []string
}

func (f *fakeClient) GetDescriptors(_ context.Context, mt olca.ModelType) ([]olca.Ref, error) {
	return f.descriptors[mt], nil
}

func (f *fakeClient) GetProductSystem(_ context.Context, id string) (*olca.ProductSystem, error) {
	if f.system == nil || f.system.ID != id {
		return nil, serrors.With(serrors.ErrNotFound, "ProductSystem %s not found", id)
	}

	return f.system, nil
}

func (f *fakeClient) GetImpactMethod(_ context.Context, id string) (*olca.ImpactMethod, error) {
	if f.method == nil || f.method.ID != id {
		return nil, serrors.With(serrors.ErrNotFound, "ImpactMethod %s not found", id)
	}

	return f.method, nil
}

func (f *fakeClient) GetImpactCategory(_ context.Context, id string) (*olca.ImpactCategory, error) {
	if cat, ok := f.fullCats[id]; ok {
		return cat, nil
	}

	return nil, serrors.With(serrors.ErrNotFound, "ImpactCategory %s not found", id)
}

func (f *fakeClient) GetProcess(_ context.Context, id string) (*olca.Process, error) {
	return nil, serrors.With(serrors.ErrNotFound, "Process %s not found", id)
}

func (f *fakeClient) Calculate(_ context.Context, setup olca.CalculationSetup) (*olca.ResultState, error) {
	f.calcSetup = &setup
	if f.calcErr != nil {
		return nil, f.calcErr
	}
	state := f.calcState

	return &state, nil
}

func (f *fakeClient) GetState(_ context.Context, _ string) (*olca.ResultState, error) {
	i := f.stateCalls
	if i >= len(f.states) {
		i = len(f.states) - 1
	}
	f.stateCalls++
	state := f.states[i]

	return &state, nil
}

func (f *fakeClient) GetImpactCategories(_ context.Context, _ string) ([]olca.Ref, error) {
	return f.impactCats, nil
}

func (f *fakeClient) GetTotalImpacts(_ context.Context, _ string) ([]olca.ImpactValue, error) {
	return f.totals, nil
}

func (f *fakeClient) GetTotalImpactValueOf(_ context.Context, _ string, _ olca.Ref) (*olca.ImpactValue, error) {
	v := f.totalOf

	return &v, nil
}

func (f *fakeClient) GetSankeyGraph(_ context.Context, _ string, req olca.SankeyRequest) (*olca.SankeyGraph, error) {
	f.sankeyReq = &req
	if f.graphErr != nil {
		return nil, f.graphErr
	}

	return f.graph, nil
}

func (f *fakeClient) Dispose(_ context.Context, resultID string) error {
	f.disposed = append(f.disposed, resultID)

	return nil
}

var _ olca.Client = (*fakeClient)(nil)

// fakeEngine hands out a fixed client or a dial error.
type fakeEngine struct {
	client olca.Client
	err    error
}

func (f *fakeEngine) Client(_ context.Context) (olca.Client, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.client, nil
}

// happyClient returns a fake engine client scripted for a successful build.
func happyClient() *fakeClient {
	return &fakeClient{
		descriptors: map[olca.ModelType][]olca.Ref{
			olca.ModelImpactMethod: {
				{ID: "m-1", Name: "EF 3.0"},
				{ID: "m-2", Name: "ReCiPe 2016"},
			},
		},
		system: &olca.ProductSystem{ID: "sys-1", Name: "Steel beam"},
		fullCats: map[string]*olca.ImpactCategory{
			"c-2": {ID: "c-2", Name: "Acidification", RefUnit: "mol H+ eq"},
		},
		calcState: olca.ResultState{ID: "res-1", IsScheduled: true},
		states: []olca.ResultState{
			{ID: "res-1", IsScheduled: true},
			{ID: "res-1", IsScheduled: true},
			{ID: "res-1", IsReady: true},
		},
		impactCats: []olca.Ref{
			{ID: "c-1", Name: "Climate change"},
			{ID: "c-2", Name: "Acidification"},
		},
		totals: []olca.ImpactValue{
			{ImpactCategory: &olca.Ref{ID: "c-1"}, Amount: 2},
			{ImpactCategory: &olca.Ref{ID: "c-2"}, Amount: -9},
		},
		totalOf: olca.ImpactValue{ImpactCategory: &olca.Ref{ID: "c-2"}, Amount: -9},
		graph: &olca.SankeyGraph{
			RootIndex: 0,
			Nodes: []olca.SankeyNode{
				{Index: 0, TechFlow: &olca.TechFlow{
					Provider: &olca.Ref{ID: "p-1", Name: "beam production"},
					Flow:     &olca.Ref{ID: "f-1", Name: "steel beam"},
				}, DirectResult: -1, TotalResult: -9},
				{Index: 1, TechFlow: &olca.TechFlow{
					Provider: &olca.Ref{ID: "p-2", Name: "steel production"},
				}, DirectResult: -8, TotalResult: -8},
			},
			Edges: []olca.SankeyEdge{{NodeIndex: 0, ProviderIndex: 1, UpstreamShare: 0.89}},
		},
	}
}

func newService(t *testing.T, engine sankey.Engine) sankey.Service {
	t.Helper()
	logger.Setup(logger.DevelopmentEnvironment)

	return sankey.New(engine, sankey.Options{
		PollInterval: time.Millisecond,
		CalcTimeout:  100 * time.Millisecond,
		Registerer:   prometheus.NewRegistry(),
	})
}

func TestBuild_Success_AutoSelectsCategory(t *testing.T) {
	cl := happyClient()
	svc := newService(t, &fakeEngine{client: cl})

	d, err := svc.Build(context.Background(), "sys-1", sankey.Params{MaxNodes: 25, MinShare: 5})
	require.NoError(t, err)

	// auto-selection picks the category with the largest absolute total
	require.Equal(t, "Acidification", d.ImpactCategory)
	require.Equal(t, "mol H+ eq", d.ImpactUnit)
	require.InDelta(t, -9.0, d.TotalImpact, 1e-9)

	require.Len(t, d.Nodes, 2)
	require.True(t, d.Nodes[0].IsRoot)
	require.Equal(t, "beam production", d.Nodes[0].Name)
	require.InDelta(t, 100, d.Nodes[0].UpstreamPct, 1e-9)
	require.Len(t, d.Links, 1)

	// target amount defaults to 1.0 and the first method is used
	require.NotNil(t, cl.calcSetup)
	require.Equal(t, "m-1", cl.calcSetup.ImpactMethod.ID)
	require.InDelta(t, 1.0, cl.calcSetup.Amount, 1e-9)

	// percent from the frontend becomes a fraction for the engine
	require.NotNil(t, cl.sankeyReq)
	require.InDelta(t, 0.05, cl.sankeyReq.MinShare, 1e-9)
	require.Equal(t, 25, cl.sankeyReq.MaxNodes)

	require.Equal(t, []string{"res-1"}, cl.disposed)
	require.GreaterOrEqual(t, cl.stateCalls, 3, "should poll until ready")
}

func TestBuild_ExplicitMethodAndCategory(t *testing.T) {
	cl := happyClient()
	cl.totalOf = olca.ImpactValue{Amount: 2}
	svc := newService(t, &fakeEngine{client: cl})

	d, err := svc.Build(context.Background(), "sys-1", sankey.Params{
		ImpactMethodID:   "m-2",
		ImpactCategoryID: "c-1",
		MaxNodes:         10,
	})
	require.NoError(t, err)

	require.Equal(t, "m-2", cl.calcSetup.ImpactMethod.ID)
	require.Equal(t, "Climate change", d.ImpactCategory)
	// no full entity for c-1; unit falls back to the category name
	require.Equal(t, "Climate change", d.ImpactUnit)
}

func TestBuild_TargetAmountForwarded(t *testing.T) {
	cl := happyClient()
	cl.system.TargetAmount = 3.5
	svc := newService(t, &fakeEngine{client: cl})

	_, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.NoError(t, err)
	require.InDelta(t, 3.5, cl.calcSetup.Amount, 1e-9)
}

func TestBuild_SystemNotFound(t *testing.T) {
	svc := newService(t, &fakeEngine{client: happyClient()})

	_, err := svc.Build(context.Background(), "missing", sankey.Params{})
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestBuild_NoImpactMethods_EmptyDiagram(t *testing.T) {
	cl := happyClient()
	cl.descriptors[olca.ModelImpactMethod] = nil
	svc := newService(t, &fakeEngine{client: cl})

	d, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.NoError(t, err)
	require.Empty(t, d.Nodes)
	require.Empty(t, d.Links)
	require.Nil(t, cl.calcSetup, "no calculation should be submitted")
}

func TestBuild_SubmissionError_EmptyDiagram(t *testing.T) {
	cl := happyClient()
	cl.calcState = olca.ResultState{Error: "matrix is singular"}
	svc := newService(t, &fakeEngine{client: cl})

	d, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.NoError(t, err)
	require.Empty(t, d.Nodes)
	require.Zero(t, cl.stateCalls, "rejected calculation should not be polled")
}

func TestBuild_StateError_Internal(t *testing.T) {
	cl := happyClient()
	cl.states = []olca.ResultState{
		{ID: "res-1", IsScheduled: true},
		{ID: "res-1", Error: "out of memory"},
	}
	svc := newService(t, &fakeEngine{client: cl})

	_, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrInternal)
	require.Contains(t, err.Error(), "out of memory")
	require.Equal(t, []string{"res-1"}, cl.disposed, "result should be disposed on error")
}

func TestBuild_Timeout(t *testing.T) {
	cl := happyClient()
	cl.states = []olca.ResultState{{ID: "res-1", IsScheduled: true}} // never ready
	logger.Setup(logger.DevelopmentEnvironment)
	svc := sankey.New(&fakeEngine{client: cl}, sankey.Options{
		PollInterval: time.Millisecond,
		CalcTimeout:  10 * time.Millisecond,
		Registerer:   prometheus.NewRegistry(),
	})

	_, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrTimeout)
	require.Equal(t, []string{"res-1"}, cl.disposed, "result should be disposed on timeout")
}

func TestBuild_ContextCanceledDuringPolling(t *testing.T) {
	cl := happyClient()
	cl.states = []olca.ResultState{{ID: "res-1", IsScheduled: true}} // never ready
	svc := newService(t, &fakeEngine{client: cl})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Build(ctx, "sys-1", sankey.Params{})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_NoResultCategories_EmptyDiagram(t *testing.T) {
	cl := happyClient()
	cl.impactCats = nil
	svc := newService(t, &fakeEngine{client: cl})

	d, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.NoError(t, err)
	require.Empty(t, d.Nodes)
	require.Equal(t, []string{"res-1"}, cl.disposed)
}

func TestBuild_EmptyGraph_EmptyDiagram(t *testing.T) {
	cl := happyClient()
	cl.graph = &olca.SankeyGraph{}
	svc := newService(t, &fakeEngine{client: cl})

	d, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.NoError(t, err)
	require.Empty(t, d.Nodes)
}

func TestBuild_GraphUnsupported_EmptyDiagram(t *testing.T) {
	cl := happyClient()
	cl.graphErr = serrors.With(serrors.ErrNotFound, "engine returned no sankey graph")
	svc := newService(t, &fakeEngine{client: cl})

	d, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.NoError(t, err)
	require.Empty(t, d.Nodes)
}

func TestBuild_EngineUnavailable(t *testing.T) {
	svc := newService(t, &fakeEngine{err: serrors.With(serrors.ErrUnavailable, "openLCA not connected")})

	_, err := svc.Build(context.Background(), "sys-1", sankey.Params{})
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestDescriptors_UnknownType(t *testing.T) {
	engine := &fakeEngine{err: errors.New("should not be dialed")}
	svc := newService(t, engine)

	refs, err := svc.Descriptors(context.Background(), "NuclearPlant")
	require.NoError(t, err)
	require.NotNil(t, refs)
	require.Empty(t, refs, "unknown model type yields an empty list")
}

func TestDescriptors_KnownType(t *testing.T) {
	cl := happyClient()
	cl.descriptors[olca.ModelProductSystem] = []olca.Ref{{ID: "sys-1", Name: "Steel beam"}}
	svc := newService(t, &fakeEngine{client: cl})

	refs, err := svc.Descriptors(context.Background(), "ProductSystem")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "sys-1", refs[0].ID)
}

func TestCategories_Success(t *testing.T) {
	cl := happyClient()
	cl.method = &olca.ImpactMethod{
		ID:   "m-1",
		Name: "EF 3.0",
		ImpactCategories: []olca.Ref{
			{ID: "c-1", Name: "Climate change"},
			{ID: "c-2", Name: "Acidification"},
		},
	}
	svc := newService(t, &fakeEngine{client: cl})

	cats, err := svc.Categories(context.Background(), "m-1")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	// c-1 has no full entity; its unit stays empty
	require.Empty(t, cats[0].RefUnit)
	require.Equal(t, "mol H+ eq", cats[1].RefUnit)
	require.Equal(t, "Acidification", cats[1].Name)
}

func TestCategories_MissingMethod_EmptyList(t *testing.T) {
	svc := newService(t, &fakeEngine{client: happyClient()})

	cats, err := svc.Categories(context.Background(), "m-404")
	require.NoError(t, err)
	require.NotNil(t, cats)
	require.Empty(t, cats)
}
