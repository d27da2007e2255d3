// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputexture

import (
	"testing"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/gputypes"
)

type fakeTextureHandle struct {
	width, height uint32
	format        gputypes.TextureFormat
	destroyed     bool
}

func (h *fakeTextureHandle) Width() uint32                  { return h.width }
func (h *fakeTextureHandle) Height() uint32                 { return h.height }
func (h *fakeTextureHandle) Format() gputypes.TextureFormat { return h.format }
func (h *fakeTextureHandle) CreateView() TextureView        { return nil }
func (h *fakeTextureHandle) Destroy()                       { h.destroyed = true }

type fakeAllocator struct {
	textures []*fakeTextureHandle
}

func (a *fakeAllocator) CreateTexture(name string, desc TextureDescriptor, usage gpucore.TextureUsage) (TextureHandle, error) {
	h := &fakeTextureHandle{width: desc.Width, height: desc.Height, format: desc.Format}
	a.textures = append(a.textures, h)
	return h, nil
}

func (a *fakeAllocator) DestroyTexture(h TextureHandle) {
	h.Destroy()
}

type fakeDriver struct{}

func (fakeDriver) PushGroupMarker(string) {}
func (fakeDriver) PopGroupMarker()        {}
func (fakeDriver) Flush()                 {}

func TestTextureLifecycleThroughFrameGraph(t *testing.T) {
	alloc := &fakeAllocator{}
	fg := framegraph.NewFrameGraph(alloc)

	var texHandle framegraph.ID[TextureDescriptor, *Texture]
	var sampledDuringExec *fakeTextureHandle

	fg.AddPass("draw", func(b *framegraph.Builder) {
		desc := DefaultTextureDescriptor(64, 64, gputypes.TextureFormatRGBA8Unorm)
		id := framegraph.Create(b, "scratch", desc, NewTexture)
		h, err := framegraph.Write(b, id, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write: %v", err)
		}
		texHandle = h
	}, func(r *framegraph.Resources, d framegraph.DriverApi) error {
		backing, _, _, usage, err := framegraph.Get(r, texHandle)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !usage.Has(gpucore.TextureUsageColorAttachment) {
			t.Errorf("usage = %v, want ColorAttachment", usage)
		}
		h, ok := backing.Handle().(*fakeTextureHandle)
		if !ok {
			t.Fatalf("backing handle type = %T", backing.Handle())
		}
		sampledDuringExec = h
		return nil
	})

	fg.AddPresentPass("present", func(b *framegraph.Builder) {
		if _, err := framegraph.Read(b, texHandle, gpucore.TextureUsageColorAttachment); err != nil {
			t.Fatalf("read: %v", err)
		}
	})

	fg.Compile()
	if err := fg.Execute(fakeDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if sampledDuringExec == nil {
		t.Fatal("executor never observed a devirtualized texture")
	}
	if !sampledDuringExec.destroyed {
		t.Error("texture was never destroyed")
	}
	if len(alloc.textures) != 1 {
		t.Errorf("allocator saw %d creates, want exactly 1", len(alloc.textures))
	}
}
