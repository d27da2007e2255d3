package framegraph

import (
	"github.com/gogpu/framegraph/internal/depgraph"
)

// passNode is the capability set the FrameGraph execute loop drives.
// Both RenderPassNode and PresentPassNode implement it; PresentPassNode
// has no user executor and nothing to resolve.
type passNode interface {
	Name() string
	OnCulled()
	resolve()
	execute(res *Resources, driver DriverApi) error
}

// RenderPassNode is a graph node for a pass declared via AddPass: it
// owns the user executor and runs once per frame if it survives
// culling.
//
// Unlike Filament's PassNode, render-target attachment bundling is not
// modeled as a field on the pass itself: because this module has
// exactly one texture-like resource kind, "declare a render target" is
// implemented in the gputexture package as ordinary Read/Write calls
// against Texture resources plus the creation of an aggregate
// RenderTarget resource (see gputexture.DeclareRenderTarget). That keeps
// this package free of any concrete resource-kind dependency.
// RenderPassNode only needs to know it ran and whether it is a culling
// root.
type RenderPassNode struct {
	name     string
	nodeID   depgraph.NodeID
	executor func(r *Resources, driver DriverApi) error
	isTarget bool // never set: Builder.SideEffect records the bias in the graph via SetTarget
	culled   bool
}

func (p *RenderPassNode) Name() string { return p.name }
func (p *RenderPassNode) OnCulled()    { p.culled = true }

// resolve has nothing render-target-specific to compute (see type doc);
// it exists to satisfy passNode and as the hook a future attachment
// model would extend.
func (p *RenderPassNode) resolve() {}

func (p *RenderPassNode) execute(res *Resources, driver DriverApi) error {
	if p.culled || p.executor == nil {
		return nil
	}
	return p.executor(res, driver)
}

// PresentPassNode is a sink pass with no user executor, registered with
// a target bias so it is never culled and anchors the live subgraph.
type PresentPassNode struct {
	name   string
	nodeID depgraph.NodeID
	culled bool
}

func (p *PresentPassNode) Name() string                        { return p.name }
func (p *PresentPassNode) OnCulled()                           { p.culled = true }
func (p *PresentPassNode) resolve()                            {}
func (p *PresentPassNode) execute(*Resources, DriverApi) error { return nil }
