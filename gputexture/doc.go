// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputexture supplies the two concrete resource kinds a
// [github.com/gogpu/framegraph.FrameGraph] schedules against in this
// module: [Texture], a single GPU texture, and [RenderTarget], a bundle
// of color/depth/stencil attachments devirtualized together. Both
// implement framegraph.Kind against [Allocator] and
// [RenderTargetAllocator] respectively, which the host injects as the
// frame graph's ResourceAllocator.
//
// [DeclareRenderTarget] is the render-target-specific half of setup
// that framegraph.RenderPassNode deliberately does not know about: it
// issues the Write calls for each attachment and wraps them in a
// RenderTarget resource, keeping the scheduler core free of any
// concrete resource-kind dependency.
package gputexture
