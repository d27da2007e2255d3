// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package driver implements framegraph.DriverApi against a
// gputexture.DeviceHandle's queue: PushGroupMarker/PopGroupMarker
// bracket debug groups for GPU profiling tools, and Flush submits
// pending work queued against a gpucontext.Queue.
package driver

// QueueSubmitter is the narrow slice of a GPU queue's API this package
// needs: debug-group bracketing and submission. It is satisfied by a
// thin wrapper around a gputexture.DeviceHandle's gpucontext.Queue;
// kept as its own interface so driver.Driver does not have to assume
// which concrete queue type a host passes in.
type QueueSubmitter interface {
	PushDebugGroup(name string)
	PopDebugGroup()
	Submit()
}

// Driver implements framegraph.DriverApi on top of a QueueSubmitter.
type Driver struct {
	queue QueueSubmitter
}

// New creates a Driver against the given queue.
func New(queue QueueSubmitter) *Driver {
	return &Driver{queue: queue}
}

// PushGroupMarker implements framegraph.DriverApi.
func (d *Driver) PushGroupMarker(name string) {
	if d.queue != nil {
		d.queue.PushDebugGroup(name)
	}
}

// PopGroupMarker implements framegraph.DriverApi.
func (d *Driver) PopGroupMarker() {
	if d.queue != nil {
		d.queue.PopDebugGroup()
	}
}

// Flush implements framegraph.DriverApi, submitting whatever command
// buffers accumulated during Execute.
func (d *Driver) Flush() {
	if d.queue != nil {
		d.queue.Submit()
	}
}

// Null is a framegraph.DriverApi that does nothing, for tests and for
// frame graphs exercised without a real GPU queue.
type Null struct{}

func (Null) PushGroupMarker(string) {}
func (Null) PopGroupMarker()        {}
func (Null) Flush()                 {}
