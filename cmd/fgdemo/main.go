// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command fgdemo builds and runs a small diamond-shaped frame graph: a
// pass writes a texture, two independent passes each read it and write
// their own output, and a present pass reads both outputs. It logs a
// line from each pass that survives culling and, when -dot is given,
// writes a graphviz dump of the dependency graph to that file.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/alloc"
	"github.com/gogpu/framegraph/driver"
	"github.com/gogpu/framegraph/gpucore"
	"github.com/gogpu/framegraph/gputexture"
	"github.com/gogpu/gputypes"
)

func main() {
	var (
		verbose = flag.Bool("verbose", false, "enable debug logging")
		dotFile = flag.String("dot", "", "write a graphviz dump of the dependency graph to this file")
	)
	flag.Parse()

	if *verbose {
		framegraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	creates := 0
	newTexture := func(desc gputexture.TextureDescriptor, usage gpucore.TextureUsage) (gputexture.TextureHandle, error) {
		creates++
		return &demoTexture{desc: desc, usage: usage}, nil
	}
	allocator := alloc.New(newTexture, nil)

	fg := framegraph.NewFrameGraph(allocator)

	var x, y, z framegraph.ID[gputexture.TextureDescriptor, *gputexture.Texture]

	fg.AddPass("A", func(b *framegraph.Builder) {
		desc := gputexture.DefaultTextureDescriptor(512, 512, gputypes.TextureFormatRGBA8Unorm)
		id := framegraph.Create(b, "X", desc, gputexture.NewTexture)
		h, err := framegraph.Write(b, id, gpucore.TextureUsageColorAttachment)
		if err != nil {
			log.Fatalf("A: write X: %v", err)
		}
		x = h
	}, func(r *framegraph.Resources, d framegraph.DriverApi) error {
		log.Println("A: rendering X")
		return nil
	})

	fg.AddPass("B", func(b *framegraph.Builder) {
		if _, err := framegraph.Read(b, x, gpucore.TextureUsageSampled); err != nil {
			log.Fatalf("B: read X: %v", err)
		}
		desc := gputexture.DefaultTextureDescriptor(512, 512, gputypes.TextureFormatRGBA8Unorm)
		id := framegraph.Create(b, "Y", desc, gputexture.NewTexture)
		h, err := framegraph.Write(b, id, gpucore.TextureUsageColorAttachment)
		if err != nil {
			log.Fatalf("B: write Y: %v", err)
		}
		y = h
	}, func(r *framegraph.Resources, d framegraph.DriverApi) error {
		log.Println("B: rendering Y from X")
		return nil
	})

	fg.AddPass("C", func(b *framegraph.Builder) {
		if _, err := framegraph.Read(b, x, gpucore.TextureUsageSampled); err != nil {
			log.Fatalf("C: read X: %v", err)
		}
		desc := gputexture.DefaultTextureDescriptor(512, 512, gputypes.TextureFormatRGBA8Unorm)
		id := framegraph.Create(b, "Z", desc, gputexture.NewTexture)
		h, err := framegraph.Write(b, id, gpucore.TextureUsageColorAttachment)
		if err != nil {
			log.Fatalf("C: write Z: %v", err)
		}
		z = h
	}, func(r *framegraph.Resources, d framegraph.DriverApi) error {
		log.Println("C: rendering Z from X")
		return nil
	})

	fg.AddPresentPass("present", func(b *framegraph.Builder) {
		if _, err := framegraph.Read(b, y, gpucore.TextureUsageSampled); err != nil {
			log.Fatalf("present: read Y: %v", err)
		}
		if _, err := framegraph.Read(b, z, gpucore.TextureUsageSampled); err != nil {
			log.Fatalf("present: read Z: %v", err)
		}
	})

	fg.Compile()

	if *dotFile != "" {
		f, err := os.Create(*dotFile)
		if err != nil {
			log.Fatalf("create %s: %v", *dotFile, err)
		}
		if err := fg.ExportGraphviz(f); err != nil {
			log.Fatalf("export graphviz: %v", err)
		}
		f.Close()
	}

	if err := fg.Execute(driver.Null{}); err != nil {
		log.Fatalf("execute: %v", err)
	}

	log.Printf("frame complete: %d textures created across the pool", creates)
}

type demoTexture struct {
	desc      gputexture.TextureDescriptor
	usage     gpucore.TextureUsage
	destroyed bool
}

func (t *demoTexture) Width() uint32                     { return t.desc.Width }
func (t *demoTexture) Height() uint32                    { return t.desc.Height }
func (t *demoTexture) Format() gputypes.TextureFormat    { return t.desc.Format }
func (t *demoTexture) CreateView() gputexture.TextureView { return nil }
func (t *demoTexture) Destroy()                          { t.destroyed = true }
