package sankey

import (
	"math"

	"sankey/pkg/domain"
	"sankey/pkg/olca"
)

// shapeDiagram converts the engine's contribution graph into the flat
// frontend structure: node indices are remapped to sequential list
// positions, results are expressed as percentages of the absolute total
// impact and the reference process is flagged as root.
func shapeDiagram(graph *olca.SankeyGraph, category olca.Ref, unit string, totalImpact float64) *domain.Diagram {
	absTotal := math.Abs(totalImpact)
	if absTotal == 0 {
		absTotal = 1.0
	}

	nodes := make([]domain.DiagramNode, 0, len(graph.Nodes))
	indexToPos := make(map[int]int, len(graph.Nodes))

	for i, node := range graph.Nodes {
		indexToPos[node.Index] = i

		providerName := "Unknown"
		flowName := ""
		processID := ""
		if tf := node.TechFlow; tf != nil {
			if tf.Provider != nil {
				if tf.Provider.Name != "" {
					providerName = tf.Provider.Name
				}
				processID = tf.Provider.ID
			}
			if tf.Flow != nil {
				flowName = tf.Flow.Name
			}
		}

		nodes = append(nodes, domain.DiagramNode{
			Name:        providerName,
			FlowName:    flowName,
			Direct:      node.DirectResult,
			Upstream:    node.TotalResult,
			DirectPct:   math.Abs(node.DirectResult/absTotal) * 100,
			UpstreamPct: math.Abs(node.TotalResult/absTotal) * 100,
			ProcessID:   processID,
			IsRoot:      node.Index == graph.RootIndex,
		})
	}

	links := make([]domain.DiagramLink, 0, len(graph.Edges))
	for _, edge := range graph.Edges {
		sourcePos, sourceOK := indexToPos[edge.ProviderIndex]
		targetPos, targetOK := indexToPos[edge.NodeIndex]
		// drop edges into pruned nodes and self-loops
		if !sourceOK || !targetOK || sourcePos == targetPos {
			continue
		}

		links = append(links, domain.DiagramLink{
			Source: sourcePos,
			Target: targetPos,
			Value:  math.Abs(edge.UpstreamShare * absTotal),
			Share:  edge.UpstreamShare,
		})
	}

	impactUnit := unit
	if impactUnit == "" {
		impactUnit = category.Name
	}
	if impactUnit == "" {
		impactUnit = "impact"
	}

	return &domain.Diagram{
		Nodes:          nodes,
		Links:          links,
		TotalImpact:    totalImpact,
		ImpactUnit:     impactUnit,
		ImpactCategory: category.Name,
		RootIndex:      indexToPos[graph.RootIndex],
	}
}
