// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package alloc provides the ResourceAllocator this module injects into
// a framegraph.FrameGraph: it implements both gputexture.Allocator and
// gputexture.RenderTargetAllocator, pooling backing textures by
// (descriptor, usage) across frames rather than recreating them every
// time a FrameGraph is reset and rebuilt. Render targets are not pooled.
package alloc

import (
	"fmt"
	"sync"

	"github.com/gogpu/framegraph/cache"
	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/framegraph/gputexture"
)

// TextureFactory creates the backend object behind a gputexture.Texture
// when the pool has nothing to reuse. The host supplies this against
// its own DeviceHandle; Allocator only pools and destroys what the
// factory returns.
type TextureFactory func(desc gputexture.TextureDescriptor, usage gpucore.TextureUsage) (gputexture.TextureHandle, error)

// RenderTargetFactory creates the backend object behind a
// gputexture.RenderTarget, against attachments already resolved to
// live TextureHandles.
type RenderTargetFactory func(desc gputexture.ResolvedRenderTargetDescriptor, usage gpucore.TextureUsage) (gputexture.RenderTargetHandle, error)

type textureKey struct {
	desc  gputexture.TextureDescriptor
	usage gpucore.TextureUsage
}

func hashTextureKey(k textureKey) uint64 {
	return cache.StringHasher(fmt.Sprintf("%s|%dx%dx%d|%d-%d-%d|%d",
		k.desc.Label, k.desc.Width, k.desc.Height, k.desc.Depth,
		k.desc.MipLevelCount, k.desc.SampleCount, k.desc.Format, k.usage))
}

// Allocator implements gputexture.Allocator and
// gputexture.RenderTargetAllocator against injected factories, pooling
// texture handles by (descriptor, usage).
//
// A single FrameGraph only ever runs single-threaded end to end, so the
// pool's non-atomic Get-then-Set pair across ShardedCache
// calls never races in practice; it still uses a mutex for the
// handle→key reverse lookup DestroyTexture needs, since
// framegraph.Kind.Destroy passes back only the handle, not the
// descriptor it was created with.
type Allocator struct {
	newTexture      TextureFactory
	newRenderTarget RenderTargetFactory

	pool *cache.ShardedCache[textureKey, []gputexture.TextureHandle]

	mu    sync.Mutex
	keyOf map[gputexture.TextureHandle]textureKey
}

// New creates an Allocator. newTexture and newRenderTarget are called
// only when the pool has nothing free to reuse for the requested
// (descriptor, usage) pair.
func New(newTexture TextureFactory, newRenderTarget RenderTargetFactory) *Allocator {
	return &Allocator{
		newTexture:      newTexture,
		newRenderTarget: newRenderTarget,
		pool:            cache.NewSharded[textureKey, []gputexture.TextureHandle](cache.DefaultCapacity, hashTextureKey),
		keyOf:           make(map[gputexture.TextureHandle]textureKey),
	}
}

// CreateTexture implements gputexture.Allocator.
func (a *Allocator) CreateTexture(name string, desc gputexture.TextureDescriptor, usage gpucore.TextureUsage) (gputexture.TextureHandle, error) {
	key := textureKey{desc: desc, usage: usage}

	if free, ok := a.pool.Get(key); ok && len(free) > 0 {
		h := free[len(free)-1]
		a.pool.Set(key, free[:len(free)-1])
		return h, nil
	}

	h, err := a.newTexture(desc, usage)
	if err != nil {
		return nil, fmt.Errorf("alloc: create texture %q: %w", name, err)
	}

	a.mu.Lock()
	a.keyOf[h] = key
	a.mu.Unlock()

	return h, nil
}

// DestroyTexture implements gputexture.Allocator. It returns the
// handle to the pool for a future CreateTexture with the same
// (descriptor, usage) rather than releasing the backend object.
func (a *Allocator) DestroyTexture(h gputexture.TextureHandle) {
	a.mu.Lock()
	key, ok := a.keyOf[h]
	a.mu.Unlock()
	if !ok {
		h.Destroy()
		return
	}

	free, _ := a.pool.Get(key)
	a.pool.Set(key, append(free, h))
}

// CreateRenderTarget implements gputexture.RenderTargetAllocator.
// Render targets are not pooled: a bundle of attachments is specific
// enough to its pass that reuse is unlikely to pay for the bookkeeping.
func (a *Allocator) CreateRenderTarget(name string, desc gputexture.ResolvedRenderTargetDescriptor, usage gpucore.TextureUsage) (gputexture.RenderTargetHandle, error) {
	h, err := a.newRenderTarget(desc, usage)
	if err != nil {
		return nil, fmt.Errorf("alloc: create render target %q: %w", name, err)
	}
	return h, nil
}

// DestroyRenderTarget implements gputexture.RenderTargetAllocator.
func (a *Allocator) DestroyRenderTarget(h gputexture.RenderTargetHandle) {
	h.Destroy()
}
