package sankey

import (
	"testing"

	"sankey/pkg/olca"

	"github.com/stretchr/testify/require"
)

func testGraph() *olca.SankeyGraph {
	return &olca.SankeyGraph{
		// root is not the first node to exercise index remapping
		RootIndex: 4,
		Nodes: []olca.SankeyNode{
			{
				Index: 4,
				TechFlow: &olca.TechFlow{
					Provider: &olca.Ref{ID: "p-root", Name: "beam production"},
					Flow:     &olca.Ref{ID: "f-1", Name: "steel beam"},
				},
				DirectResult: 2,
				TotalResult:  10,
			},
			{
				Index: 7,
				TechFlow: &olca.TechFlow{
					Provider: &olca.Ref{ID: "p-steel", Name: "steel production"},
				},
				DirectResult: -5,
				TotalResult:  8,
			},
			{Index: 9}, // node without tech flow
		},
		Edges: []olca.SankeyEdge{
			{NodeIndex: 4, ProviderIndex: 7, UpstreamShare: 0.8},
			{NodeIndex: 7, ProviderIndex: 9, UpstreamShare: 0.25},
			{NodeIndex: 4, ProviderIndex: 4, UpstreamShare: 1},   // self-loop
			{NodeIndex: 4, ProviderIndex: 99, UpstreamShare: .5}, // pruned provider
		},
	}
}

func TestShapeDiagram_RemapsAndFlagsRoot(t *testing.T) {
	d := shapeDiagram(testGraph(), olca.Ref{ID: "cat-1", Name: "Climate change"}, "kg CO2 eq", 10)

	require.Len(t, d.Nodes, 3)
	require.Equal(t, 0, d.RootIndex)
	require.True(t, d.Nodes[0].IsRoot)
	require.False(t, d.Nodes[1].IsRoot)

	require.Equal(t, "beam production", d.Nodes[0].Name)
	require.Equal(t, "steel beam", d.Nodes[0].FlowName)
	require.Equal(t, "p-root", d.Nodes[0].ProcessID)

	// missing tech flow falls back to Unknown
	require.Equal(t, "Unknown", d.Nodes[2].Name)
	require.Empty(t, d.Nodes[2].ProcessID)

	require.Equal(t, 10.0, d.TotalImpact)           //nolint: testifylint
	require.Equal(t, "kg CO2 eq", d.ImpactUnit)
	require.Equal(t, "Climate change", d.ImpactCategory)
}

func TestShapeDiagram_Percentages(t *testing.T) {
	d := shapeDiagram(testGraph(), olca.Ref{Name: "Climate change"}, "kg CO2 eq", 10)

	require.InDelta(t, 20, d.Nodes[0].DirectPct, 1e-9)
	require.InDelta(t, 100, d.Nodes[0].UpstreamPct, 1e-9)
	// negative results become positive percentages
	require.InDelta(t, 50, d.Nodes[1].DirectPct, 1e-9)
	require.InDelta(t, 80, d.Nodes[1].UpstreamPct, 1e-9)
}

func TestShapeDiagram_DropsSelfLoopsAndPrunedEdges(t *testing.T) {
	d := shapeDiagram(testGraph(), olca.Ref{Name: "Climate change"}, "", 10)

	require.Len(t, d.Links, 2)
	// provider is the link source
	require.Equal(t, 1, d.Links[0].Source)
	require.Equal(t, 0, d.Links[0].Target)
	require.InDelta(t, 8, d.Links[0].Value, 1e-9)
	require.InDelta(t, 0.8, d.Links[0].Share, 1e-9)
}

func TestShapeDiagram_ZeroTotalUsesUnitScale(t *testing.T) {
	d := shapeDiagram(testGraph(), olca.Ref{Name: "Climate change"}, "", 0)

	// absolute total falls back to 1.0, percentages become raw magnitudes
	require.InDelta(t, 200, d.Nodes[0].DirectPct, 1e-9)
	require.Equal(t, 0.0, d.TotalImpact) //nolint: testifylint
	require.InDelta(t, 0.8, d.Links[0].Value, 1e-9)
}

func TestShapeDiagram_NegativeTotal(t *testing.T) {
	d := shapeDiagram(testGraph(), olca.Ref{Name: "Climate change"}, "", -10)

	require.InDelta(t, 20, d.Nodes[0].DirectPct, 1e-9)
	require.Equal(t, -10.0, d.TotalImpact) //nolint: testifylint
}

func TestShapeDiagram_UnitFallbacks(t *testing.T) {
	d := shapeDiagram(testGraph(), olca.Ref{Name: "Climate change"}, "", 10)
	require.Equal(t, "Climate change", d.ImpactUnit, "falls back to category name")

	d = shapeDiagram(testGraph(), olca.Ref{}, "", 10)
	require.Equal(t, "impact", d.ImpactUnit, "falls back to generic label")
}
