// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputexture

import (
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpucore"
)

// MaxColorAttachments is the number of color attachment slots a render
// target descriptor carries, matching WebGPU's render pass limit.
const MaxColorAttachments = 6

// LoadOp selects how an attachment's previous contents are treated at
// the start of a render pass.
type LoadOp int

const (
	LoadClear LoadOp = iota
	LoadLoad
)

// StoreOp selects whether an attachment's contents are kept after a
// render pass.
type StoreOp int

const (
	StoreStore StoreOp = iota
	StoreDiscard
)

// AttachmentDescriptor binds one render target slot to a texture
// resource and its load/store behavior.
type AttachmentDescriptor struct {
	Texture framegraph.ID[TextureDescriptor, *Texture]
	Load    LoadOp
	Store   StoreOp
}

// RenderTargetDescriptor is the Descriptor type bound to the
// RenderTarget resource kind: up to six color attachments plus an
// optional depth and stencil attachment.
type RenderTargetDescriptor struct {
	Label  string
	Width  uint32
	Height uint32

	Color   [MaxColorAttachments]*AttachmentDescriptor
	Depth   *AttachmentDescriptor
	Stencil *AttachmentDescriptor
}

// RenderTargetHandle is the backend object a RenderTargetAllocator
// hands back once a render target is devirtualized.
type RenderTargetHandle interface {
	Destroy()
}

// ResolvedAttachment is an AttachmentDescriptor with its texture
// resource resolved to the live backend handle the texture's own Create
// produced, rather than the unresolved framegraph.ID a RenderTargetAllocator
// cannot act on directly.
type ResolvedAttachment struct {
	Handle TextureHandle
	Load   LoadOp
	Store  StoreOp
}

// ResolvedRenderTargetDescriptor is a RenderTargetDescriptor with every
// attachment's framegraph.ID resolved to its devirtualized TextureHandle.
// RenderTarget.Create builds one of these from the RenderTargetDescriptor
// it is given, using the Resources view its Create call receives; a
// RenderTargetAllocator only ever sees this resolved shape, never the
// unresolved IDs.
type ResolvedRenderTargetDescriptor struct {
	Label  string
	Width  uint32
	Height uint32

	Color   [MaxColorAttachments]*ResolvedAttachment
	Depth   *ResolvedAttachment
	Stencil *ResolvedAttachment
}

// RenderPassInfo is what a pass executor reads back for a render
// target resource via framegraph.Get: the backend target handle along
// with the resolved attachment count, used to drive the actual draw
// calls.
type RenderPassInfo struct {
	Target          RenderTargetHandle
	ColorAttachment int
	HasDepth        bool
	HasStencil      bool
}

// RenderTargetAllocator is the collaborator RenderTarget.Create calls
// into, narrowing framegraph.ResourceAllocator to a concrete method set
// the way Texture's Allocator does. It only ever sees resolved
// attachment handles, never a caller's unresolved framegraph.ID.
type RenderTargetAllocator interface {
	CreateRenderTarget(name string, desc ResolvedRenderTargetDescriptor, usage gpucore.TextureUsage) (RenderTargetHandle, error)
	DestroyRenderTarget(h RenderTargetHandle)
}

// RenderTarget is the frame graph's resource kind for a bundle of
// color/depth/stencil attachments devirtualized together as one
// backend render-target object.
type RenderTarget struct {
	allocator RenderTargetAllocator
	info      RenderPassInfo
}

// Create implements framegraph.Kind[RenderTargetDescriptor]. It
// resolves every attachment's framegraph.ID to the TextureHandle its
// own Create already produced — guaranteed available because a
// RenderTargetDescriptor's attachments are always created, and written
// by DeclareRenderTarget, in an earlier or the same pass as the render
// target itself — before handing the resolved bundle to the allocator.
func (rt *RenderTarget) Create(alloc framegraph.ResourceAllocator, res *framegraph.Resources, name string, desc RenderTargetDescriptor, usage gpucore.TextureUsage) error {
	a, ok := alloc.(RenderTargetAllocator)
	if !ok {
		return fmt.Errorf("gputexture: allocator %T does not implement gputexture.RenderTargetAllocator", alloc)
	}

	resolved := ResolvedRenderTargetDescriptor{Label: desc.Label, Width: desc.Width, Height: desc.Height}
	colorCount := 0
	for i, c := range desc.Color {
		if c == nil {
			continue
		}
		ra, err := resolveAttachment(res, c)
		if err != nil {
			return fmt.Errorf("gputexture: create render target %q: color attachment %d: %w", name, i, err)
		}
		resolved.Color[i] = ra
		colorCount++
	}
	if desc.Depth != nil {
		ra, err := resolveAttachment(res, desc.Depth)
		if err != nil {
			return fmt.Errorf("gputexture: create render target %q: depth attachment: %w", name, err)
		}
		resolved.Depth = ra
	}
	if desc.Stencil != nil {
		ra, err := resolveAttachment(res, desc.Stencil)
		if err != nil {
			return fmt.Errorf("gputexture: create render target %q: stencil attachment: %w", name, err)
		}
		resolved.Stencil = ra
	}

	handle, err := a.CreateRenderTarget(name, resolved, usage)
	if err != nil {
		return err
	}
	rt.allocator = a
	rt.info = RenderPassInfo{
		Target:          handle,
		ColorAttachment: colorCount,
		HasDepth:        desc.Depth != nil,
		HasStencil:      desc.Stencil != nil,
	}
	return nil
}

// resolveAttachment looks up a's texture through res, the same
// Get-backed view a pass executor uses, returning the live backend
// handle a RenderTargetAllocator needs in place of the unresolved
// framegraph.ID.
func resolveAttachment(res *framegraph.Resources, a *AttachmentDescriptor) (*ResolvedAttachment, error) {
	backing, _, _, _, err := framegraph.Get(res, a.Texture)
	if err != nil {
		return nil, err
	}
	return &ResolvedAttachment{Handle: backing.Handle(), Load: a.Load, Store: a.Store}, nil
}

// Destroy implements framegraph.Kind[RenderTargetDescriptor]. Imported
// render targets never reach here: framegraph.Resource.destroy is a
// no-op for imported resources regardless of kind.
func (rt *RenderTarget) Destroy(alloc framegraph.ResourceAllocator) {
	if rt.info.Target == nil {
		return
	}
	rt.allocator.DestroyRenderTarget(rt.info.Target)
	rt.info.Target = nil
}

// Info returns the resolved RenderPassInfo; only meaningful after
// devirtualize has run.
func (rt *RenderTarget) Info() RenderPassInfo { return rt.info }

// NewRenderTarget is the backing factory framegraph.Create needs for a
// RenderTarget resource.
func NewRenderTarget() *RenderTarget { return &RenderTarget{} }

// DeclareRenderTarget bundles up to six color attachments plus an
// optional depth and stencil attachment into one RenderTarget resource,
// writing each attachment texture with the matching usage bit and
// rebinding the descriptor's handles to the post-write versions it
// returns. It then writes the render target resource itself against
// the declaring pass, the same way every other resource in this module
// acquires a first/last touch. Both the attachments and the render
// target are additionally pinned: nothing in the graph reads a render
// target back (its output is consumed by the display or a later
// readback, invisible to the dependency graph), so without pinning,
// ref-count culling would remove all of them before Compile ever marks
// them needed, and none would devirtualize. This lives in gputexture
// rather than on framegraph's RenderPassNode so the scheduler core
// stays free of any concrete resource-kind dependency (see
// framegraph/passnode.go).
func DeclareRenderTarget(b *framegraph.Builder, name string, desc RenderTargetDescriptor) (framegraph.ID[RenderTargetDescriptor, *RenderTarget], error) {
	var zero framegraph.ID[RenderTargetDescriptor, *RenderTarget]

	var usage gpucore.TextureUsage
	for i, c := range desc.Color {
		if c == nil {
			continue
		}
		h, err := framegraph.Write(b, c.Texture, gpucore.TextureUsageColorAttachment)
		if err != nil {
			return zero, fmt.Errorf("gputexture: declare_render_target %q: color attachment %d: %w", name, i, err)
		}
		desc.Color[i] = &AttachmentDescriptor{Texture: h, Load: c.Load, Store: c.Store}
		usage |= gpucore.TextureUsageColorAttachment
		framegraph.Pin(b, h)
	}
	if desc.Depth != nil {
		h, err := framegraph.Write(b, desc.Depth.Texture, gpucore.TextureUsageDepthStencilAttachment)
		if err != nil {
			return zero, fmt.Errorf("gputexture: declare_render_target %q: depth attachment: %w", name, err)
		}
		desc.Depth = &AttachmentDescriptor{Texture: h, Load: desc.Depth.Load, Store: desc.Depth.Store}
		usage |= gpucore.TextureUsageDepthStencilAttachment
		framegraph.Pin(b, h)
	}
	if desc.Stencil != nil {
		h, err := framegraph.Write(b, desc.Stencil.Texture, gpucore.TextureUsageDepthStencilAttachment)
		if err != nil {
			return zero, fmt.Errorf("gputexture: declare_render_target %q: stencil attachment: %w", name, err)
		}
		desc.Stencil = &AttachmentDescriptor{Texture: h, Load: desc.Stencil.Load, Store: desc.Stencil.Store}
		usage |= gpucore.TextureUsageDepthStencilAttachment
		framegraph.Pin(b, h)
	}

	id := framegraph.Create(b, name, desc, NewRenderTarget)
	written, err := framegraph.Write(b, id, usage)
	if err != nil {
		return zero, fmt.Errorf("gputexture: declare_render_target %q: %w", name, err)
	}
	framegraph.Pin(b, written)
	return written, nil
}
