package framegraph

import (
	"fmt"

	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/framegraph/internal/depgraph"
)

// PassID identifies a pass node inside the dependency graph. It is the
// same NodeID space the graph itself uses, exported under a
// domain-relevant name.
type PassID = depgraph.NodeID

// virtualResource is the untyped capability interface dispatched
// polymorphically by resource kind: a Go interface implemented by the
// generic Resource[D, R], standing in for a C++-style template+vtable
// pair.
type virtualResource interface {
	Name() string
	IsSubResource() bool
	IsImported() bool
	Version() uint32
	First() PassID
	Last() PassID
	HasFirst() bool

	neededByPass(p PassID)
	resolveUsage(usage gpucore.TextureUsage)
	devirtualize(alloc ResourceAllocator, res *Resources) error
	destroy(alloc ResourceAllocator)
}

// Resource is the generic backing for every versioned virtual resource.
// D is the resource's Descriptor type (reused as SubResourceDescriptor);
// R is the concrete Kind implementation that knows how to create and
// destroy the backing GPU object.
type Resource[D any, R Kind[D]] struct {
	name string

	descriptor    D
	subDescriptor D
	isSub         bool
	parent        *Resource[D, R]

	imported bool
	// importedUsage is the capability bitset declared at import time;
	// only meaningful when imported is true.
	importedUsage gpucore.TextureUsage

	version  uint32
	refcount uint32
	first    PassID
	last     PassID
	hasFirst bool

	usage gpucore.TextureUsage

	newBacking func() R
	backing    R
	active     bool
}

func (r *Resource[D, R]) Name() string                { return r.name }
func (r *Resource[D, R]) IsSubResource() bool         { return r.isSub }
func (r *Resource[D, R]) IsImported() bool            { return r.imported }
func (r *Resource[D, R]) Version() uint32             { return r.version }
func (r *Resource[D, R]) First() PassID               { return r.first }
func (r *Resource[D, R]) Last() PassID                { return r.last }
func (r *Resource[D, R]) HasFirst() bool              { return r.hasFirst }
func (r *Resource[D, R]) Usage() gpucore.TextureUsage { return r.usage }
func (r *Resource[D, R]) Descriptor() D               { return r.descriptor }
func (r *Resource[D, R]) SubDescriptor() D            { return r.subDescriptor }
func (r *Resource[D, R]) Backing() R                  { return r.backing }

// neededByPass records that pass touches this resource: the earliest
// touch becomes first, every touch updates last, and refcount is
// incremented so the graph can account for demand independent of
// edge-count culling bookkeeping. A sub-resource also records the touch
// on its parent chain, so a parent's lifetime always covers its
// sub-resources'.
func (r *Resource[D, R]) neededByPass(pass PassID) {
	if !r.hasFirst {
		r.first = pass
		r.hasFirst = true
	}
	r.last = pass
	r.refcount++
	if r.isSub && r.parent != nil {
		r.parent.neededByPass(pass)
	}
}

// resolveUsage ORs usage into the resource's aggregated usage bitset
// and, if this is a sub-resource, propagates the same bits up the
// parent chain. A single pass suffices because resource nodes are
// always created after their parent, so iterating in creation order is
// already parent-before-child.
func (r *Resource[D, R]) resolveUsage(usage gpucore.TextureUsage) {
	r.usage |= usage
	if r.isSub && r.parent != nil {
		r.parent.resolveUsage(usage)
	}
}

// devirtualize allocates the backing GPU object. Imported resources are
// already backed by the time they are imported and no-op here;
// sub-resources copy their parent's backing, which is guaranteed to
// have been devirtualized first because neededByPass marks the parent
// for every pass that touches the sub-resource, and the parent, being
// registered earlier, is devirtualized earlier within the same pass.
//
// res is forwarded to the backing Kind's Create unchanged, so a Kind
// whose descriptor references other resources (gputexture.RenderTarget)
// can resolve them via Get; every resource referenced that way is
// guaranteed already devirtualized because it was created, and
// therefore registered, earlier than this one.
func (r *Resource[D, R]) devirtualize(alloc ResourceAllocator, res *Resources) error {
	if r.imported {
		return nil
	}
	if r.isSub {
		r.backing = r.parent.backing
		r.active = true
		return nil
	}
	r.backing = r.newBacking()
	if err := r.backing.Create(alloc, res, r.name, r.descriptor, r.usage); err != nil {
		return fmt.Errorf("framegraph: devirtualize %q: %w", r.name, err)
	}
	r.active = true
	return nil
}

// destroy releases the backing object. Only a non-imported root
// resource ever owns a backing to release; sub-resources and imported
// resources do nothing.
func (r *Resource[D, R]) destroy(alloc ResourceAllocator) {
	if r.imported || r.isSub || !r.active {
		return
	}
	r.backing.Destroy(alloc)
	r.active = false
}

// connectImportedUsage validates, at read/write time, that the
// requested usage is a subset of an imported resource's declared
// capabilities. It is only meaningful when r.imported is true.
func (r *Resource[D, R]) connectImportedUsage(requested gpucore.TextureUsage) bool {
	return r.importedUsage.Has(requested)
}

var _ virtualResource = (*Resource[int, *noopKind])(nil)

// noopKind is a zero-dependency Kind implementation used only to pin
// down the virtualResource interface satisfaction above at compile
// time; it is never constructed at runtime.
type noopKind struct{}

func (*noopKind) Create(ResourceAllocator, *Resources, string, int, gpucore.TextureUsage) error {
	return nil
}
func (*noopKind) Destroy(ResourceAllocator)                                         {}
