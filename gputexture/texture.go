// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputexture

import (
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpucore"
)

// Texture is the frame graph's sole concrete resource kind for a GPU
// texture: it implements framegraph.Kind[TextureDescriptor], so the
// core can create and destroy it without knowing anything about WebGPU.
// The usage bitset it is created with is whatever Compile resolved, not
// anything declared up front in the descriptor.
type Texture struct {
	allocator Allocator
	handle    TextureHandle
}

// Allocator is the collaborator Texture.Create calls into. It is the
// ResourceAllocator the frame graph carries opaquely (framegraph.Kind's
// alloc parameter); this package is the first to narrow it down to a
// concrete method set.
type Allocator interface {
	CreateTexture(name string, desc TextureDescriptor, usage gpucore.TextureUsage) (TextureHandle, error)
	DestroyTexture(h TextureHandle)
}

// Create implements framegraph.Kind[TextureDescriptor]. A texture's
// descriptor never references another resource, so the *framegraph.Resources
// view every Kind.Create receives goes unused here.
func (t *Texture) Create(alloc framegraph.ResourceAllocator, _ *framegraph.Resources, name string, desc TextureDescriptor, usage gpucore.TextureUsage) error {
	a, ok := alloc.(Allocator)
	if !ok {
		return fmt.Errorf("gputexture: allocator %T does not implement gputexture.Allocator", alloc)
	}
	handle, err := a.CreateTexture(name, desc, usage)
	if err != nil {
		return err
	}
	t.allocator = a
	t.handle = handle
	return nil
}

// Destroy implements framegraph.Kind[TextureDescriptor].
func (t *Texture) Destroy(alloc framegraph.ResourceAllocator) {
	if t.handle == nil {
		return
	}
	t.allocator.DestroyTexture(t.handle)
	t.handle = nil
}

// Handle returns the devirtualized backing texture, or nil before
// devirtualize has run or for a sub-resource whose parent has not yet
// devirtualized.
func (t *Texture) Handle() TextureHandle { return t.handle }

// NewTexture returns the backing factory Create[TextureDescriptor,
// *Texture] needs; every call to framegraph.Create for a texture passes
// this as the newBacking argument.
func NewTexture() *Texture { return &Texture{} }
