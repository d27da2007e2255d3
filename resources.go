package framegraph

import "github.com/gogpu/framegraph/gpucore"

// Resources is the per-pass read-only view handed to a pass executor.
// It is only valid for the duration of the executor call it was built
// for: the devirtualized backings it resolves may be destroyed the
// moment the executor returns.
type Resources struct {
	fg *FrameGraph
}

// Get resolves id to its devirtualized backing, descriptor,
// sub-descriptor, and aggregated usage as computed during Compile. It
// is a free function rather than a Resources method because Go
// methods cannot introduce new type parameters.
//
// A render target's RenderPassInfo (its backend target handle and
// attachment counts) is not a separate keyed lookup here: it is part
// of the RenderTarget Kind's backing value itself, so Get already
// returns it without Resources needing to know anything about
// render-target attachments.
func Get[D any, R Kind[D]](res *Resources, id ID[D, R]) (backing R, descriptor D, subDescriptor D, usage gpucore.TextureUsage, err error) {
	r, _, err := lookupResource[D, R](res.fg, id.h)
	if err != nil {
		return backing, descriptor, subDescriptor, usage, err
	}
	return r.Backing(), r.Descriptor(), r.SubDescriptor(), r.Usage(), nil
}
