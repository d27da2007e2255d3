// Package framegraph schedules a single frame's GPU work as a
// declarative dependency graph: passes declare reads and writes against
// versioned virtual resources, a culling pass drops work nothing live
// depends on, and a compile step resolves resource lifetimes and usage
// before devirtualized backings are created and destroyed around each
// surviving pass's executor.
package framegraph

import (
	"fmt"
	"io"

	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/framegraph/internal/depgraph"
)

// FrameGraph owns every node, edge, and resource record for one frame.
// Nothing here is shared across frames except the ResourceAllocator the
// caller supplies; a fresh FrameGraph (or a Reset one) is expected per
// frame, mirroring a bump-arena-per-frame lifecycle, implemented here
// with plain append-only slices instead of a custom arena allocator.
type FrameGraph struct {
	graph     *depgraph.Graph
	allocator ResourceAllocator

	slots     []*resourceSlot
	resources []virtualResource
	resNodes  []*ResourceNode
	passes    []passNode

	compiled bool
}

// NewFrameGraph creates an empty frame graph against the given resource
// allocator, which is consulted during Execute to create and destroy
// backing resources.
func NewFrameGraph(allocator ResourceAllocator) *FrameGraph {
	return &FrameGraph{
		graph:     depgraph.New(),
		allocator: allocator,
	}
}

// AddPass declares a render pass: setup runs synchronously against a
// Builder scoped to this pass, recording whatever reads, writes, and
// render targets the pass needs; execute runs once per frame, during
// Execute, if the pass survives culling.
func (fg *FrameGraph) AddPass(name string, setup func(b *Builder), execute func(r *Resources, driver DriverApi) error) {
	node := &RenderPassNode{name: name, executor: execute}
	node.nodeID = fg.graph.RegisterNode(node)
	fg.passes = append(fg.passes, node)
	if setup != nil {
		setup(&Builder{fg: fg, passID: node.nodeID})
	}
}

// AddPresentPass declares the frame's sink pass: it has no user
// executor and is registered with a target bias so it and everything
// it transitively depends on survive culling.
func (fg *FrameGraph) AddPresentPass(name string, setup func(b *Builder)) {
	node := &PresentPassNode{name: name}
	node.nodeID = fg.graph.RegisterNode(node)
	fg.graph.SetTarget(node.nodeID)
	fg.passes = append(fg.passes, node)
	if setup != nil {
		setup(&Builder{fg: fg, passID: node.nodeID})
	}
}

// registerResource wires a freshly constructed resource and its
// initial ResourceNode into the slot/resource/node tables shared by
// Create, CreateSubResource, and Import.
func (fg *FrameGraph) registerResource(name string, r virtualResource) *ResourceNode {
	rid := int32(len(fg.resources))
	fg.resources = append(fg.resources, r)

	node := &ResourceNode{name: name, resource: r}
	node.nodeID = fg.graph.RegisterNode(node)
	nid := int32(len(fg.resNodes))
	fg.resNodes = append(fg.resNodes, node)

	index := int32(len(fg.slots))
	fg.slots = append(fg.slots, &resourceSlot{rid: rid, nid: nid})

	node.handle = Handle{index: index, version: 0}
	return node
}

// Create adds a new root resource and its initial ResourceNode,
// returning the typed handle setup code uses to declare reads and
// writes against it.
func Create[D any, R Kind[D]](b *Builder, name string, descriptor D, newBacking func() R) ID[D, R] {
	r := &Resource[D, R]{
		name:          name,
		descriptor:    descriptor,
		subDescriptor: descriptor,
		newBacking:    newBacking,
	}
	node := b.fg.registerResource(name, r)
	return ID[D, R]{h: node.handle}
}

// CreateSubResource adds a resource that shares its parent's backing
// object once devirtualized; usage declared against the sub-resource
// propagates up to the parent during compile.
func CreateSubResource[D any, R Kind[D]](b *Builder, parent ID[D, R], name string, subDescriptor D) (ID[D, R], error) {
	pr, parentNode, err := lookupResource[D, R](b.fg, parent.h)
	if err != nil {
		Logger().Warn("create_subresource: invalid parent handle", "name", name)
		return ID[D, R]{h: invalidHandle}, ErrInvalidHandle
	}

	r := &Resource[D, R]{
		name:          name,
		descriptor:    pr.descriptor,
		subDescriptor: subDescriptor,
		isSub:         true,
		parent:        pr,
	}
	node := b.fg.registerResource(name, r)
	node.setParent(parentNode)
	return ID[D, R]{h: node.handle}, nil
}

// Import adopts an already-backed resource (e.g. the swapchain's
// current texture) as a root resource. Imported resources skip
// devirtualize/destroy; reads and writes against them are validated
// against the capability bitset declared here.
func Import[D any, R Kind[D]](b *Builder, name string, descriptor D, usage gpucore.TextureUsage, backing R) ID[D, R] {
	r := &Resource[D, R]{
		name:          name,
		descriptor:    descriptor,
		subDescriptor: descriptor,
		imported:      true,
		importedUsage: usage,
		backing:       backing,
		active:        true,
	}
	node := b.fg.registerResource(name, r)
	return ID[D, R]{h: node.handle}
}

// Read records a resource→pass edge with the given usage and returns
// the handle unchanged, failing non-fatally if the handle is stale or
// the usage exceeds an imported resource's declared capabilities.
func Read[D any, R Kind[D]](b *Builder, id ID[D, R], usage gpucore.TextureUsage) (ID[D, R], error) {
	r, node, err := lookupResource[D, R](b.fg, id.h)
	if err != nil {
		Logger().Warn("read: invalid handle", "pass", b.passID)
		return ID[D, R]{h: invalidHandle}, ErrInvalidHandle
	}
	if r.imported && !r.connectImportedUsage(usage) {
		Logger().Warn("read: usage incompatible with imported resource", "name", r.name)
		return ID[D, R]{h: invalidHandle}, ErrIncompatibleUsage
	}
	edge, err := b.fg.graph.Link(node.nodeID, b.passID, uint32(usage))
	if err != nil {
		return ID[D, R]{h: invalidHandle}, err
	}
	node.addReader(edge)
	return id, nil
}

// Write records the pass as the writer of the resource. If the current
// node has no writer yet, the edge is recorded against it and the
// handle is returned unchanged; otherwise the resource's version is
// bumped, a fresh ResourceNode is allocated and bound into the slot
// (rid unchanged, nid rebinds), and the new handle is returned. The
// very first write to a resource never bumps its version, since there
// is no prior writer to alias away from.
func Write[D any, R Kind[D]](b *Builder, id ID[D, R], usage gpucore.TextureUsage) (ID[D, R], error) {
	r, node, err := lookupResource[D, R](b.fg, id.h)
	if err != nil {
		Logger().Warn("write: invalid handle", "pass", b.passID)
		return ID[D, R]{h: invalidHandle}, ErrInvalidHandle
	}
	if r.imported && !r.connectImportedUsage(usage) {
		Logger().Warn("write: usage incompatible with imported resource", "name", r.name)
		return ID[D, R]{h: invalidHandle}, ErrIncompatibleUsage
	}

	slot := b.fg.slots[id.h.index]
	target := node
	newHandle := id.h

	if node.hasWriter() {
		r.version++
		target = &ResourceNode{name: r.name, resource: r, parentNode: node.parentNode}
		target.nodeID = b.fg.graph.RegisterNode(target)
		slot.nid = int32(len(b.fg.resNodes))
		b.fg.resNodes = append(b.fg.resNodes, target)
		newHandle = Handle{index: id.h.index, version: r.version}
		target.handle = newHandle
	}

	edge, err := b.fg.graph.Link(b.passID, target.nodeID, uint32(usage))
	if err != nil {
		return ID[D, R]{h: invalidHandle}, err
	}
	target.setWriter(edge)
	return ID[D, R]{h: newHandle}, nil
}

// Pin biases id's current resource node like Builder.SideEffect biases
// a pass: the node survives culling even with zero readers. A render
// target's attachments are consumed by the display or a later readback
// outside the dependency graph's view, so DeclareRenderTarget pins both
// the attachments and the render target resource itself; without it,
// ref-count culling would remove them before Compile ever marks them
// needed, and Execute would never devirtualize them.
func Pin[D any, R Kind[D]](b *Builder, id ID[D, R]) {
	_, node, err := lookupResource[D, R](b.fg, id.h)
	if err != nil {
		return
	}
	b.fg.graph.SetTarget(node.nodeID)
}

// lookupResource resolves a handle to its concrete Resource[D, R] and
// current ResourceNode, validating the slot index is in range, the
// type matches the resource actually stored there, and the handle's
// version matches the resource's current version. An out-of-range slot
// index panics with ErrUnknownResource; a type or version mismatch
// returns ErrInvalidHandle.
func lookupResource[D any, R Kind[D]](fg *FrameGraph, h Handle) (*Resource[D, R], *ResourceNode, error) {
	if !h.IsValid() {
		return nil, nil, ErrInvalidHandle
	}
	if int(h.index) >= len(fg.slots) {
		panic(fmt.Errorf("%w: slot %d", ErrUnknownResource, h.index))
	}
	slot := fg.slots[h.index]
	raw := fg.resources[slot.rid]
	r, ok := raw.(*Resource[D, R])
	if !ok {
		return nil, nil, ErrInvalidHandle
	}
	if h.version != r.version {
		return nil, nil, ErrInvalidHandle
	}
	return r, fg.resNodes[slot.nid], nil
}

// Compile culls dead work, then resolves resource lifetimes (first/last
// touching pass) and aggregated usage for everything that survives.
func (fg *FrameGraph) Compile() {
	fg.graph.Cull()

	for i, pass := range fg.passes {
		passID := fg.passNodeID(i)
		if fg.graph.IsCulled(passID) {
			continue
		}
		for _, e := range fg.graph.IncomingEdges(passID) {
			if node := fg.resourceNodeByID(e.From); node != nil {
				node.resource.neededByPass(passID)
			}
		}
		for _, e := range fg.graph.OutgoingEdges(passID) {
			if fg.graph.IsCulled(e.To) {
				continue
			}
			if node := fg.resourceNodeByID(e.To); node != nil {
				node.resource.neededByPass(passID)
			}
		}
		pass.resolve()
	}

	for _, node := range fg.resNodes {
		node.resolveResourceUsage(fg.graph)
	}

	fg.compiled = true
}

// passNodeID returns the depgraph NodeID of the i-th declared pass.
func (fg *FrameGraph) passNodeID(i int) depgraph.NodeID {
	switch p := fg.passes[i].(type) {
	case *RenderPassNode:
		return p.nodeID
	case *PresentPassNode:
		return p.nodeID
	default:
		panic(fmt.Errorf("framegraph: unknown pass node type %T", p))
	}
}

// resourceNodeByID finds the ResourceNode registered under a depgraph
// NodeID. Pass nodes and resource nodes share one NodeID space, so a
// miss here just means the ID belongs to a pass, not a resource.
func (fg *FrameGraph) resourceNodeByID(id depgraph.NodeID) *ResourceNode {
	for _, n := range fg.resNodes {
		if n.nodeID == id {
			return n
		}
	}
	return nil
}

// Execute runs every non-culled pass in declaration order: devirtualize
// resources whose lifetime starts here, run the executor, destroy
// resources whose lifetime ends here. It must be called after Compile.
func (fg *FrameGraph) Execute(driver DriverApi) error {
	if !fg.compiled {
		return fmt.Errorf("framegraph: Execute called before Compile")
	}

	driver.PushGroupMarker("FrameGraph")
	defer driver.PopGroupMarker()

	for i, pass := range fg.passes {
		passID := fg.passNodeID(i)
		if fg.graph.IsCulled(passID) {
			continue
		}

		driver.PushGroupMarker(pass.Name())

		res := &Resources{fg: fg}

		for _, r := range fg.resources {
			if r.HasFirst() && r.First() == passID {
				if err := r.devirtualize(fg.allocator, res); err != nil {
					driver.PopGroupMarker()
					return err
				}
			}
		}

		if err := pass.execute(res, driver); err != nil {
			driver.PopGroupMarker()
			return fmt.Errorf("framegraph: pass %q: %w", pass.Name(), err)
		}

		for _, r := range fg.resources {
			if r.HasFirst() && r.Last() == passID {
				r.destroy(fg.allocator)
			}
		}

		driver.PopGroupMarker()
	}

	driver.Flush()
	return nil
}

// ExportGraphviz writes a diagnostic dump of the dependency graph, with
// edges labeled by their resolved gpucore.TextureUsage string rather
// than the raw bitmask depgraph carries internally.
func (fg *FrameGraph) ExportGraphviz(sink io.Writer) error {
	return fg.graph.ExportGraphviz(sink, func(usage uint32) string {
		return gpucore.TextureUsage(usage).String()
	})
}

// Reset drops every node, edge, and resource so the FrameGraph can be
// reused for the next frame, the Go equivalent of resetting a
// bump-arena allocator to its start.
func (fg *FrameGraph) Reset() {
	fg.graph.Reset()
	fg.passes = nil
	fg.resNodes = nil
	fg.resources = nil
	fg.slots = nil
	fg.compiled = false
}
