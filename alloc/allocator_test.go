// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package alloc

import (
	"testing"

	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/framegraph/gputexture"
	"github.com/gogpu/gputypes"
)

type fakeHandle struct {
	destroyed bool
}

func (h *fakeHandle) Width() uint32                      { return 0 }
func (h *fakeHandle) Height() uint32                     { return 0 }
func (h *fakeHandle) Format() gputypes.TextureFormat     { return gputypes.TextureFormatUndefined }
func (h *fakeHandle) CreateView() gputexture.TextureView { return nil }
func (h *fakeHandle) Destroy()                           { h.destroyed = true }

func TestAllocatorPoolsTexturesAcrossFrames(t *testing.T) {
	creates := 0
	newTexture := func(desc gputexture.TextureDescriptor, usage gpucore.TextureUsage) (gputexture.TextureHandle, error) {
		creates++
		return &fakeHandle{}, nil
	}

	a := New(newTexture, nil)
	desc := gputexture.DefaultTextureDescriptor(64, 64, gputypes.TextureFormatRGBA8Unorm)
	usage := gpucore.TextureUsageColorAttachment

	h1, err := a.CreateTexture("scratch", desc, usage)
	if err != nil {
		t.Fatalf("create 1: %v", err)
	}
	a.DestroyTexture(h1)

	h2, err := a.CreateTexture("scratch", desc, usage)
	if err != nil {
		t.Fatalf("create 2: %v", err)
	}

	if h1 != h2 {
		t.Error("second create with the same (descriptor, usage) should reuse the pooled handle")
	}
	if creates != 1 {
		t.Errorf("factory called %d times, want exactly 1", creates)
	}
}

func TestAllocatorDestroysUnknownHandleImmediately(t *testing.T) {
	a := New(nil, nil)
	h := &fakeHandle{}
	a.DestroyTexture(h)
	if !h.destroyed {
		t.Error("a handle not created through this allocator must still be destroyed")
	}
}
