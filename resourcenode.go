package framegraph

import (
	"fmt"

	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/framegraph/internal/depgraph"
)

// ResourceNode is one graph node per (resource slot, version): the
// versioned observation a Handle refers to. It holds its single
// incoming writer edge (or none, for the initial state) and its
// outgoing reader edges, and resolves their effective usage during
// compile.
type ResourceNode struct {
	name     string
	resource virtualResource
	nodeID   depgraph.NodeID
	handle   Handle

	writer  *depgraph.Edge
	readers []*depgraph.Edge

	// parentNode links a sub-resource's node to its parent's current
	// node, set once by CreateSubResource and carried forward across
	// write-aliasing by Write. It mirrors the resource-level parent
	// chain at the node level for callers that only have a ResourceNode
	// in hand; usage propagation itself happens on the resource, not the
	// node (see Resource.resolveUsage).
	parentNode *ResourceNode
}

// Name implements depgraph.Node.
func (n *ResourceNode) Name() string { return n.name }

// OnCulled implements depgraph.Node. A culled resource node does not
// need to do anything beyond what the graph already tracks; the
// resource itself only sees usage from edges depgraph still reports as
// valid.
func (n *ResourceNode) OnCulled() {}

// setWriter records the single incoming writer edge for this node. A
// second call is a builder bug: a version should never receive two
// writers, since a second write allocates a fresh node instead.
func (n *ResourceNode) setWriter(e *depgraph.Edge) {
	if n.writer != nil {
		panic(fmt.Errorf("%w: resource node %q", ErrDoubleWriter, n.name))
	}
	n.writer = e
}

// addReader appends an outgoing reader edge.
func (n *ResourceNode) addReader(e *depgraph.Edge) {
	n.readers = append(n.readers, e)
}

// hasWriter reports whether this node already has a writer, which
// governs FrameGraph.Write's versioning decision.
func (n *ResourceNode) hasWriter() bool { return n.writer != nil }

// setParent links a sub-resource's node to its parent's current node.
// CreateSubResource calls this once, at registration; Write never
// needs to call it again because a node's parent relationship does not
// change across write-aliasing — only the resource it is a node of
// does, and that resource's own parent pointer is fixed at creation.
func (n *ResourceNode) setParent(p *ResourceNode) { n.parentNode = p }

// resolveResourceUsage ORs together the usage of every edge depgraph
// still considers valid (writer and readers alike) and forwards the
// aggregate to the backing resource, which itself propagates up the
// parent chain.
func (n *ResourceNode) resolveResourceUsage(g *depgraph.Graph) {
	var usage gpucore.TextureUsage
	if n.writer != nil && g.IsEdgeValid(n.writer) {
		usage |= gpucore.TextureUsage(n.writer.Usage)
	}
	for _, e := range n.readers {
		if g.IsEdgeValid(e) {
			usage |= gpucore.TextureUsage(e.Usage)
		}
	}
	n.resource.resolveUsage(usage)
}
