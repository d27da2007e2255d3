// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputexture

import (
	"testing"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/gputypes"
)

type fakeRenderTargetHandle struct {
	destroyed bool
}

func (h *fakeRenderTargetHandle) Destroy() { h.destroyed = true }

type fakeFullAllocator struct {
	fakeAllocator
	targets []*fakeRenderTargetHandle
}

func (a *fakeFullAllocator) CreateRenderTarget(name string, desc ResolvedRenderTargetDescriptor, usage gpucore.TextureUsage) (RenderTargetHandle, error) {
	h := &fakeRenderTargetHandle{}
	a.targets = append(a.targets, h)
	return h, nil
}

func (a *fakeFullAllocator) DestroyRenderTarget(h RenderTargetHandle) {
	h.Destroy()
}

func TestDeclareRenderTargetLifetime(t *testing.T) {
	alloc := &fakeFullAllocator{}
	fg := framegraph.NewFrameGraph(alloc)

	var rtHandle framegraph.ID[RenderTargetDescriptor, *RenderTarget]
	var infoDuringExec RenderPassInfo

	fg.AddPass("gbuffer", func(b *framegraph.Builder) {
		colorDesc := DefaultTextureDescriptor(800, 600, gputypes.TextureFormatRGBA8Unorm)
		color := framegraph.Create(b, "color", colorDesc, NewTexture)

		depthDesc := DefaultTextureDescriptor(800, 600, gputypes.TextureFormatDepth24PlusStencil8)
		depth := framegraph.Create(b, "depth", depthDesc, NewTexture)

		desc := RenderTargetDescriptor{
			Label:  "gbuffer",
			Width:  800,
			Height: 600,
			Depth:  &AttachmentDescriptor{Texture: depth, Load: LoadClear, Store: StoreDiscard},
		}
		desc.Color[0] = &AttachmentDescriptor{Texture: color, Load: LoadClear, Store: StoreStore}

		id, err := DeclareRenderTarget(b, "gbuffer-target", desc)
		if err != nil {
			t.Fatalf("declare_render_target: %v", err)
		}
		rtHandle = id
		b.SideEffect()
	}, func(r *framegraph.Resources, d framegraph.DriverApi) error {
		backing, _, _, _, err := framegraph.Get(r, rtHandle)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		infoDuringExec = backing.Info()
		return nil
	})

	fg.Compile()
	if err := fg.Execute(fakeDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if infoDuringExec.Target == nil {
		t.Fatal("RenderPassInfo.Target was never resolved during execute")
	}
	if infoDuringExec.ColorAttachment != 1 {
		t.Errorf("ColorAttachment = %d, want 1", infoDuringExec.ColorAttachment)
	}
	if !infoDuringExec.HasDepth {
		t.Error("HasDepth = false, want true")
	}
	if len(alloc.targets) != 1 || !alloc.targets[0].destroyed {
		t.Error("render target was not created and destroyed exactly once")
	}
}
