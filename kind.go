package framegraph

import "github.com/gogpu/framegraph/gpucore"

// Kind is implemented by a concrete resource backing type (a GPU
// texture, a render target, ...). D is the resource's Descriptor type,
// reused as its SubResourceDescriptor type: this module's two resource
// kinds are both GPU-texture-backed, so a single Descriptor shape
// (optionally describing a sub-range of the parent) covers both roles.
//
// Create allocates the backing object against desc/usage; Destroy
// releases it. Both are called exactly once per non-imported root
// resource that a live pass touches, across a full Execute; a resource
// no live pass touches sees neither.
//
// res is the same read-only Resources view a pass executor receives,
// passed through devirtualize so a Kind whose Descriptor embeds other
// resources' handles (gputexture.RenderTarget's attachments) can
// resolve them to their already-devirtualized backings via Get. A Kind
// with no nested resources, like gputexture.Texture, ignores it.
type Kind[D any] interface {
	Create(alloc ResourceAllocator, res *Resources, name string, desc D, usage gpucore.TextureUsage) error
	Destroy(alloc ResourceAllocator)
}

// ResourceAllocator is the consumed collaborator that creates and
// destroys backing resources. It may cache by (descriptor, usage); the
// frame graph only requires call-compatibility across sub-resources
// sharing a backing (only the root resource calls into it).
//
// The scheduler core passes it through opaquely: only a Kind
// implementation (gputexture.Texture, gputexture.RenderTarget) knows
// the concrete allocator interface it needs (device/queue access), so
// ResourceAllocator is an alias for any rather than a declared method
// set.
type ResourceAllocator = any

// DriverApi is the consumed GPU command sink. The core calls group
// markers exactly around the frame and around each live pass, and
// flushes once at the end of Execute.
type DriverApi interface {
	PushGroupMarker(name string)
	PopGroupMarker()
	Flush()
}
