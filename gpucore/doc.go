// Package gpucore provides the shared GPU resource vocabulary used by the
// frame graph's concrete resource kinds.
//
// It defines opaque resource IDs ([BufferID], [TextureID], [RenderTargetID])
// and the usage bitsets ([TextureUsage], [BufferUsage]). A frame graph
// resolves a [TextureUsage] per resource during
// [framegraph.FrameGraph.Compile] and passes it to the resource kind's
// [framegraph.Kind] Create method at devirtualization time.
//
// gpucore has no dependency on any particular backend (gogpu/wgpu,
// gogpu/gogpu, or a software rasterizer); it only describes the shape of
// the usage/format data those backends agree on.
package gpucore
