package framegraph

// Builder is the setup-phase handle passed to an AddPass/AddPresentPass
// callback. Create, CreateSubResource, Import, Read, and Write are free
// functions taking a *Builder because Go methods cannot introduce new
// type parameters; Builder itself only carries the bookkeeping those
// functions need: which FrameGraph and which pass they are scoped to.
type Builder struct {
	fg     *FrameGraph
	passID PassID
}

// SideEffect biases the pass being built like a present pass: it
// survives culling even if nothing reads what it writes, because it
// has effects the graph cannot see (a readback, a debug dump, a
// present).
func (b *Builder) SideEffect() {
	b.fg.graph.SetTarget(b.passID)
}
