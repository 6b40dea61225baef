package domain

// DiagramNode is one process node of the Sankey diagram. Direct and Upstream
// carry the raw results in the impact category's unit; DirectPct and
// UpstreamPct are their shares of the absolute total impact in percent.
type DiagramNode struct {
	// Name is the provider process name, "Unknown" when the engine did not
	// attach a provider to the node.
	Name string `json:"name"`
	// FlowName is the product or waste flow provided by the process.
	FlowName string `json:"flowName"`
	// Direct is the impact caused by the process itself.
	Direct float64 `json:"direct"`
	// Upstream is the impact of the process including its supply chain.
	Upstream float64 `json:"upstream"`
	// DirectPct is |Direct| as a percentage of the absolute total impact.
	DirectPct float64 `json:"directPct"`
	// UpstreamPct is |Upstream| as a percentage of the absolute total impact.
	UpstreamPct float64 `json:"upstreamPct"`
	// ProcessID is the engine id of the provider process.
	ProcessID string `json:"processId"`
	// IsRoot marks the reference process of the product system.
	IsRoot bool `json:"isRoot"`
}

// DiagramLink is one provider→recipient edge of the Sankey diagram. Source
// and Target are positions in the diagram's node list, not engine indices.
type DiagramLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	// Value is the absolute impact carried by the link.
	Value float64 `json:"value"`
	// Share is the upstream contribution share reported by the engine.
	Share float64 `json:"share"`
}

// Diagram is the complete Sankey response consumed by the frontend.
type Diagram struct {
	Nodes []DiagramNode `json:"nodes"`
	Links []DiagramLink `json:"links"`
	// TotalImpact is the signed total of the selected impact category.
	TotalImpact float64 `json:"totalImpact"`
	// ImpactUnit is the category's reference unit, e.g. "kg CO2 eq".
	ImpactUnit string `json:"impactUnit"`
	// ImpactCategory is the name of the selected impact category.
	ImpactCategory string `json:"impactCategory"`
	// RootIndex is the node list position of the reference process.
	RootIndex int `json:"rootIndex"`
}

// Category is one impact category entry of the method category listing.
// JSON names mirror the olca-schema dialect the frontend already speaks.
type Category struct {
	ID      string `json:"@id"`
	Name    string `json:"name"`
	RefUnit string `json:"refUnit"`
}

// EmptyDiagram returns a diagram with empty (non-nil) node and link lists, as
// the frontend expects when no result could be produced.
func EmptyDiagram() *Diagram {
	return &Diagram{
		Nodes: []DiagramNode{},
		Links: []DiagramLink{},
	}
}
