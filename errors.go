package framegraph

import "errors"

// Non-fatal precondition errors: the operation that hits one of these
// logs via Logger().Warn and returns an invalid handle together with the
// sentinel as its error — it never unwinds through a panic.
var (
	// ErrInvalidHandle is reported when a handle is uninitialized or its
	// version does not match the resource's current version.
	ErrInvalidHandle = errors.New("framegraph: invalid handle")

	// ErrIncompatibleUsage is reported when a read/write against an
	// imported resource requests usage outside the capability bitset
	// declared at import time.
	ErrIncompatibleUsage = errors.New("framegraph: usage not a subset of imported capabilities")
)

// Internal invariant violations: these indicate a programming error in
// the caller (builder misuse) or a bug in the graph itself, and are
// asserted via panic rather than returned.
var (
	// ErrDoubleWriter indicates a ResourceNode would receive a second
	// writer edge.
	ErrDoubleWriter = errors.New("framegraph: resource node already has a writer")

	// ErrUnknownResource indicates a handle's slot index is out of range.
	ErrUnknownResource = errors.New("framegraph: unknown resource slot")
)
