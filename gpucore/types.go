package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend implementation
// maintains a mapping between IDs and actual driver resources.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// RenderTargetID is an opaque handle to a GPU render target (framebuffer).
type RenderTargetID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageMapRead indicates the buffer can be mapped for reading.
	BufferUsageMapRead BufferUsage = 1 << 0

	// BufferUsageMapWrite indicates the buffer can be mapped for writing.
	BufferUsageMapWrite BufferUsage = 1 << 1

	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 2

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageIndex indicates the buffer can be used as an index buffer.
	BufferUsageIndex BufferUsage = 1 << 4

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 5

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 6

	// BufferUsageStorage indicates the buffer can be used as a storage buffer.
	BufferUsageStorage BufferUsage = 1 << 7
)

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatRGBA8UnormSRGB is 8-bit RGBA, normalized unsigned integer in sRGB color space.
	TextureFormatRGBA8UnormSRGB

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	TextureFormatBGRA8Unorm

	// TextureFormatDepth32Float is a 32-bit floating point depth format.
	TextureFormatDepth32Float

	// TextureFormatDepth24PlusStencil8 is a combined depth/stencil format.
	TextureFormatDepth24PlusStencil8

	// TextureFormatR8Unorm is 8-bit red channel only, normalized unsigned integer.
	TextureFormatR8Unorm

	// TextureFormatRGBA16Float is 16-bit per channel floating point RGBA.
	TextureFormatRGBA16Float
)

// TextureUsage is a bitmask specifying how a texture will be used.
//
// A resource's effective usage, as seen by the graph, is the bitwise OR
// of the usage requested on every live edge that touches it (see
// [framegraph.FrameGraph.Compile]).
type TextureUsage uint32

// Texture usage flags.
const (
	// TextureUsageCopySrc indicates the texture can be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << 0

	// TextureUsageCopyDst indicates the texture can be used as a copy destination.
	TextureUsageCopyDst TextureUsage = 1 << 1

	// TextureUsageSampled indicates the texture can be bound as a sampled texture.
	TextureUsageSampled TextureUsage = 1 << 2

	// TextureUsageStorageBinding indicates the texture can be bound as a storage texture.
	TextureUsageStorageBinding TextureUsage = 1 << 3

	// TextureUsageColorAttachment indicates the texture can be used as a color
	// render target attachment.
	TextureUsageColorAttachment TextureUsage = 1 << 4

	// TextureUsageDepthStencilAttachment indicates the texture can be used as
	// a depth/stencil render target attachment.
	TextureUsageDepthStencilAttachment TextureUsage = 1 << 5
)

// Has reports whether all bits in want are set in u.
func (u TextureUsage) Has(want TextureUsage) bool { return u&want == want }

// String renders the set bits for diagnostics (graphviz labels, assertions).
func (u TextureUsage) String() string {
	if u == 0 {
		return "none"
	}
	names := []struct {
		bit  TextureUsage
		name string
	}{
		{TextureUsageCopySrc, "copy_src"},
		{TextureUsageCopyDst, "copy_dst"},
		{TextureUsageSampled, "sampled"},
		{TextureUsageStorageBinding, "storage"},
		{TextureUsageColorAttachment, "color_attachment"},
		{TextureUsageDepthStencilAttachment, "depth_stencil_attachment"},
	}
	s := ""
	for _, n := range names {
		if u.Has(n.bit) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
