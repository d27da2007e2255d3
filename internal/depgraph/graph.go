// Package depgraph implements a directed dependency graph with
// reference-count culling.
//
// It knows nothing about frame graphs, resources, or GPU usage bits: a
// node is anything with a name and an on-culled hook, and an edge
// carries only an opaque usage payload that the caller (framegraph)
// interprets, keeping dependency tracking separate from domain
// semantics.
package depgraph

import (
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"
)

// NodeID identifies a registered node. IDs are issued starting at 0 by
// RegisterNode, so the zero value is the first registered node's ID;
// callers that need a sentinel should use a separate bool or pointer
// check.
type NodeID int32

// EdgeID identifies a registered edge, for diagnostics only.
type EdgeID int32

// Node is the capability set every graph participant implements.
type Node interface {
	// Name returns a diagnostic name for graphviz dumps and logging.
	Name() string

	// OnCulled is invoked exactly once, when the node is removed by Cull.
	OnCulled()
}

// Edge is a directed edge from one node to another, carrying an opaque
// usage bitmask payload that only the issuing resource interprets.
type Edge struct {
	id    EdgeID
	From  NodeID
	To    NodeID
	Usage uint32
}

// ErrAlreadyCulled is returned by Link once Cull has run: the graph is
// frozen after culling.
var ErrAlreadyCulled = fmt.Errorf("depgraph: graph already culled")

// Graph stores nodes and directed edges and performs reference-count
// culling over them.
type Graph struct {
	nodes   []Node
	targets map[NodeID]bool
	culled  []bool
	edges   []*Edge
	out     map[NodeID][]*Edge
	in      map[NodeID][]*Edge
	doneCull bool
	nextEdge EdgeID
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		targets: make(map[NodeID]bool),
		out:     make(map[NodeID][]*Edge),
		in:      make(map[NodeID][]*Edge),
	}
}

// RegisterNode adds a node to the graph and returns its ID.
func (g *Graph) RegisterNode(n Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.culled = append(g.culled, false)
	return id
}

// SetTarget marks a node so it is never culled, regardless of its
// outgoing reference count. Present passes and passes that opted into
// side effects are marked target at construction time.
func (g *Graph) SetTarget(id NodeID) {
	g.targets[id] = true
}

// IsTarget reports whether id was marked via SetTarget.
func (g *Graph) IsTarget(id NodeID) bool {
	return g.targets[id]
}

// Link inserts a directed edge into the graph. It fails with
// ErrAlreadyCulled if called after Cull.
func (g *Graph) Link(from, to NodeID, usage uint32) (*Edge, error) {
	if g.doneCull {
		return nil, ErrAlreadyCulled
	}
	e := &Edge{id: g.nextEdge, From: from, To: to, Usage: usage}
	g.nextEdge++
	g.edges = append(g.edges, e)
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return e, nil
}

// IncomingEdges returns the edges whose To is id, in insertion order.
func (g *Graph) IncomingEdges(id NodeID) []*Edge {
	return g.in[id]
}

// OutgoingEdges returns the edges whose From is id, in insertion order.
func (g *Graph) OutgoingEdges(id NodeID) []*Edge {
	return g.out[id]
}

// IsEdgeValid reports whether both endpoints of e survived culling.
// Before Cull has run, every edge is valid.
func (g *Graph) IsEdgeValid(e *Edge) bool {
	if e == nil {
		return false
	}
	return !g.IsCulled(e.From) && !g.IsCulled(e.To)
}

// IsCulled reports whether id was removed by Cull.
func (g *Graph) IsCulled(id NodeID) bool {
	if int(id) < 0 || int(id) >= len(g.culled) {
		return false
	}
	return g.culled[id]
}

// Cull performs a Kahn-style reverse topological sweep: nodes whose
// outgoing reference count (non-culled outgoing edges, plus an external
// target bias) reaches zero are removed, decrementing the reference
// count of every predecessor, until a fixed point is reached. Target
// nodes are never removed regardless of reference count.
func (g *Graph) Cull() {
	refcount := make([]int, len(g.nodes))
	queue := make([]NodeID, 0, len(g.nodes))

	for i := range g.nodes {
		id := NodeID(i)
		refcount[i] = len(g.out[id])
		if refcount[i] == 0 && !g.targets[id] {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if g.culled[n] {
			continue
		}
		g.culled[n] = true
		g.nodes[n].OnCulled()

		for _, e := range g.in[n] {
			p := e.From
			if g.culled[p] {
				continue
			}
			refcount[p]--
			if refcount[p] == 0 && !g.targets[p] {
				queue = append(queue, p)
			}
		}
	}

	g.doneCull = true
}

// ExportGraphviz writes a textual digraph to sink, for debugging only.
// Culled nodes are rendered with a gray fill; edges carry their usage
// bitmask as a label, formatted by formatUsage if non-nil (raw hex
// otherwise). Node names are normalized to NFC so a label built from
// combining-mark sequences renders identically across dumps regardless
// of how the caller happened to compose it.
//
// formatUsage exists because this package deliberately carries no
// GPU-vocabulary dependency: it cannot itself turn a usage bitmask into
// a human-readable string the way gpucore.TextureUsage.String() does,
// so the caller that does know that vocabulary supplies the formatter.
func (g *Graph) ExportGraphviz(sink io.Writer, formatUsage func(uint32) string) error {
	if _, err := fmt.Fprintln(sink, "digraph framegraph {"); err != nil {
		return err
	}
	for i, n := range g.nodes {
		id := NodeID(i)
		style := ""
		if g.culled[id] {
			style = ` style=filled fillcolor=lightgray`
		} else if g.targets[id] {
			style = ` style=filled fillcolor=lightblue`
		}
		label := norm.NFC.String(n.Name())
		if _, err := fmt.Fprintf(sink, "  n%d [label=%q%s];\n", id, label, style); err != nil {
			return err
		}
	}
	for _, e := range g.edges {
		valid := g.IsEdgeValid(e)
		color := "black"
		if !valid {
			color = "lightgray"
		}
		label := fmt.Sprintf("0x%x", e.Usage)
		if formatUsage != nil {
			label = formatUsage(e.Usage)
		}
		if _, err := fmt.Fprintf(sink, "  n%d -> n%d [label=%q color=%s];\n", e.From, e.To, label, color); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(sink, "}")
	return err
}

// Reset clears all nodes and edges, returning the graph to its initial
// state so it can be reused for the next frame.
func (g *Graph) Reset() {
	g.nodes = nil
	g.culled = nil
	g.edges = nil
	g.targets = make(map[NodeID]bool)
	g.out = make(map[NodeID][]*Edge)
	g.in = make(map[NodeID][]*Edge)
	g.doneCull = false
	g.nextEdge = 0
}
