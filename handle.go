package framegraph

// Handle identifies a versioned observation of a virtual resource.
// index selects a resource slot, stable for the frame; version
// distinguishes successive writes to that slot.
type Handle struct {
	index   int32
	version uint32
}

// invalidHandle is the erased invalid state: no resource slot.
var invalidHandle = Handle{index: -1}

// IsValid reports whether the handle refers to a resource slot at all.
// It does not by itself confirm the handle's version is current; that
// check happens inside Read/Write against the slot's live node.
func (h Handle) IsValid() bool { return h.index >= 0 }

// ID is a phantom-typed wrapper over Handle, attaching the resource's
// Descriptor type D and backing Kind R at the API boundary. Internally
// it is erased to a bare Handle so the graph and resource bookkeeping
// stay free of type parameters.
type ID[D any, R Kind[D]] struct {
	h Handle
}

// IsValid reports whether the underlying handle refers to a resource
// slot.
func (id ID[D, R]) IsValid() bool { return id.h.IsValid() }

// resourceSlot maps a handle's index to the resource record (rid) and
// the resource's current node (nid). A write rebinds nid but never rid.
type resourceSlot struct {
	rid int32
	nid int32
}
