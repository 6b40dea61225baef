package olca

// Ref is a lightweight reference to an engine entity, as returned by the
// descriptor listing API and embedded in full entities. Field names follow
// the olca-schema JSON dialect.
type Ref struct {
	Type     string `json:"@type,omitempty"`
	ID       string `json:"@id,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	// RefUnit is only populated on impact category references.
	RefUnit string `json:"refUnit,omitempty"`
}

// ProcessLink connects a provider process to a recipient process through a
// product or waste flow inside a product system.
type ProcessLink struct {
	Provider *Ref `json:"provider,omitempty"`
	Process  *Ref `json:"process,omitempty"`
	Flow     *Ref `json:"flow,omitempty"`
}

// ProductSystem is the engine's model of a linked process network with a
// quantitative reference.
type ProductSystem struct {
	ID           string        `json:"@id,omitempty"`
	Name         string        `json:"name,omitempty"`
	TargetAmount float64       `json:"targetAmount,omitempty"`
	RefProcess   *Ref          `json:"refProcess,omitempty"`
	ProcessLinks []ProcessLink `json:"processLinks,omitempty"`
}

// Ref returns a reference to the product system suitable for use as a
// calculation target.
func (s *ProductSystem) Ref() Ref {
	return Ref{Type: string(ModelProductSystem), ID: s.ID, Name: s.Name}
}

// Exchange is one input or output of a process.
type Exchange struct {
	Flow            *Ref `json:"flow,omitempty"`
	IsInput         bool `json:"isInput,omitempty"`
	DefaultProvider *Ref `json:"defaultProvider,omitempty"`
}

// Process is the engine's model of a unit process.
type Process struct {
	ID        string     `json:"@id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Exchanges []Exchange `json:"exchanges,omitempty"`
}

// ImpactMethod groups impact categories under an assessment methodology.
type ImpactMethod struct {
	ID               string `json:"@id,omitempty"`
	Name             string `json:"name,omitempty"`
	ImpactCategories []Ref  `json:"impactCategories,omitempty"`
}

// ImpactCategory is a single impact assessment indicator with its reference
// unit (e.g. "kg CO2 eq").
type ImpactCategory struct {
	ID      string `json:"@id,omitempty"`
	Name    string `json:"name,omitempty"`
	RefUnit string `json:"refUnit,omitempty"`
}

// CalculationSetup describes one calculation submission: the target product
// system, the impact method to apply and the demanded amount.
type CalculationSetup struct {
	Target       Ref     `json:"target"`
	ImpactMethod *Ref    `json:"impactMethod,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
}

// ResultState is the engine's view of an asynchronous calculation result.
type ResultState struct {
	ID          string `json:"@id,omitempty"`
	IsReady     bool   `json:"isReady,omitempty"`
	IsScheduled bool   `json:"isScheduled,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ImpactValue is the computed total of one impact category.
type ImpactValue struct {
	ImpactCategory *Ref    `json:"impactCategory,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
}

// TechFlow identifies a provider process together with the product or waste
// flow it provides.
type TechFlow struct {
	Provider *Ref `json:"provider,omitempty"`
	Flow     *Ref `json:"flow,omitempty"`
}

// SankeyRequest configures the engine's native contribution graph query.
// MinShare is a fraction in [0, 1], not a percentage.
type SankeyRequest struct {
	ImpactCategory Ref     `json:"impactCategory"`
	MaxNodes       int     `json:"maxNodes,omitempty"`
	MinShare       float64 `json:"minShare,omitempty"`
}

// SankeyNode is one process node of the engine's contribution graph, carrying
// its direct and total (upstream-inclusive) results for the requested
// category.
type SankeyNode struct {
	Index        int       `json:"index"`
	TechFlow     *TechFlow `json:"techFlow,omitempty"`
	DirectResult float64   `json:"directResult,omitempty"`
	TotalResult  float64   `json:"totalResult,omitempty"`
}

// SankeyEdge is a provider→recipient link of the contribution graph with the
// upstream share it carries. Indices refer to SankeyNode.Index, not to list
// positions.
type SankeyEdge struct {
	NodeIndex     int     `json:"nodeIndex"`
	ProviderIndex int     `json:"providerIndex"`
	UpstreamShare float64 `json:"upstreamShare,omitempty"`
}

// SankeyGraph is the engine's precomputed contribution graph for one impact
// category of a calculated result.
type SankeyGraph struct {
	RootIndex int          `json:"rootIndex"`
	Nodes     []SankeyNode `json:"nodes,omitempty"`
	Edges     []SankeyEdge `json:"edges,omitempty"`
}
