package framegraph

import (
	"strings"
	"testing"

	"github.com/gogpu/framegraph/gpucore"
)

type testDescriptor struct {
	name string
}

type testBacking struct {
	created   bool
	destroyed bool
	usage     gpucore.TextureUsage
	desc      testDescriptor
}

func (b *testBacking) Create(_ ResourceAllocator, _ *Resources, name string, desc testDescriptor, usage gpucore.TextureUsage) error {
	b.created = true
	b.usage = usage
	b.desc = desc
	return nil
}

func (b *testBacking) Destroy(ResourceAllocator) { b.destroyed = true }

func newTestBacking() *testBacking { return &testBacking{} }

type testDriver struct {
	markers []string
	flushed bool
}

func (d *testDriver) PushGroupMarker(name string) { d.markers = append(d.markers, "push:"+name) }
func (d *testDriver) PopGroupMarker()             { d.markers = append(d.markers, "pop") }
func (d *testDriver) Flush()                      { d.flushed = true }

func TestUnusedPassCulled(t *testing.T) {
	fg := NewFrameGraph(nil)

	var aExecuted, bExecuted bool
	var yHandle ID[testDescriptor, *testBacking]

	fg.AddPass("A", func(b *Builder) {
		x := Create(b, "X", testDescriptor{name: "X"}, newTestBacking)
		if _, err := Write(b, x, gpucore.TextureUsageColorAttachment); err != nil {
			t.Fatalf("write X: %v", err)
		}
	}, func(r *Resources, d DriverApi) error {
		aExecuted = true
		return nil
	})

	fg.AddPass("B", func(b *Builder) {
		y := Create(b, "Y", testDescriptor{name: "Y"}, newTestBacking)
		h, err := Write(b, y, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write Y: %v", err)
		}
		yHandle = h
	}, func(r *Resources, d DriverApi) error {
		bExecuted = true
		return nil
	})

	fg.AddPresentPass("present", func(b *Builder) {
		if _, err := Read(b, yHandle, gpucore.TextureUsageColorAttachment); err != nil {
			t.Fatalf("read Y: %v", err)
		}
	})

	fg.Compile()
	if err := fg.Execute(&testDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if aExecuted {
		t.Error("pass A should have been culled and never executed")
	}
	if !bExecuted {
		t.Error("pass B should have survived culling")
	}
}

func TestWriteAliasing(t *testing.T) {
	fg := NewFrameGraph(nil)

	var afterA, afterB ID[testDescriptor, *testBacking]
	var initial ID[testDescriptor, *testBacking]

	fg.AddPass("A", func(b *Builder) {
		initial = Create(b, "X", testDescriptor{name: "X"}, newTestBacking)
		h, err := Write(b, initial, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write 1: %v", err)
		}
		afterA = h
	}, func(r *Resources, d DriverApi) error { return nil })

	fg.AddPass("B", func(b *Builder) {
		h, err := Write(b, afterA, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write 2: %v", err)
		}
		afterB = h
	}, func(r *Resources, d DriverApi) error { return nil })

	fg.AddPresentPass("present", func(b *Builder) {
		if _, err := Read(b, afterB, gpucore.TextureUsageColorAttachment); err != nil {
			t.Fatalf("read: %v", err)
		}
	})

	fg.Compile()
	if err := fg.Execute(&testDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// The first write on a freshly created resource never bumps the
	// version (the node has no writer yet); the second write does.
	if initial.h.version != 0 {
		t.Errorf("create handle version = %d, want 0", initial.h.version)
	}
	if afterA.h.version != 0 {
		t.Errorf("first write handle version = %d, want 0 (no writer existed yet)", afterA.h.version)
	}
	if afterB.h.version != 1 {
		t.Errorf("second write handle version = %d, want 1", afterB.h.version)
	}
	if initial.h.index != afterA.h.index || afterA.h.index != afterB.h.index {
		t.Error("rid/index must stay constant across write-aliasing")
	}

	r, _, err := lookupResource[testDescriptor, *testBacking](fg, afterB.h)
	if err != nil {
		t.Fatalf("lookup final resource: %v", err)
	}
	if !r.backing.created {
		t.Error("X was never created")
	}
	if !r.backing.destroyed {
		t.Error("X was never destroyed")
	}
}

func TestSubResourceUsageLifting(t *testing.T) {
	fg := NewFrameGraph(nil)

	var parent ID[testDescriptor, *testBacking]
	var sub ID[testDescriptor, *testBacking]

	fg.AddPass("P", func(b *Builder) {
		parent = Create(b, "T", testDescriptor{name: "T"}, newTestBacking)
		s, err := CreateSubResource(b, parent, "S", testDescriptor{name: "S"})
		if err != nil {
			t.Fatalf("create_subresource: %v", err)
		}
		sub = s
		if _, err := Read(b, sub, gpucore.TextureUsageSampled); err != nil {
			t.Fatalf("read S: %v", err)
		}
		// P performs no write nothing downstream depends on; bias it
		// like a present pass so the read is not itself culled away.
		b.SideEffect()
	}, func(r *Resources, d DriverApi) error { return nil })

	fg.Compile()

	parentResource, _, err := lookupResource[testDescriptor, *testBacking](fg, parent.h)
	if err != nil {
		t.Fatalf("lookup T: %v", err)
	}
	subResource, _, err := lookupResource[testDescriptor, *testBacking](fg, sub.h)
	if err != nil {
		t.Fatalf("lookup S: %v", err)
	}

	if !parentResource.usage.Has(gpucore.TextureUsageSampled) {
		t.Errorf("T.usage = %v, want it to contain Sampled", parentResource.usage)
	}
	if subResource.usage != gpucore.TextureUsageSampled {
		t.Errorf("S.usage = %v, want exactly Sampled", subResource.usage)
	}
}

func TestImportedUsageViolation(t *testing.T) {
	fg := NewFrameGraph(nil)
	backing := &testBacking{created: true}

	var imported ID[testDescriptor, *testBacking]
	fg.AddPresentPass("present", func(b *Builder) {
		imported = Import(b, "RT", testDescriptor{name: "RT"}, gpucore.TextureUsageColorAttachment, backing)
		if _, err := Read(b, imported, gpucore.TextureUsageSampled); err == nil {
			t.Error("expected incompatible-usage error reading imported resource with wider usage")
		}
	})

	fg.Compile()
	if err := fg.Execute(&testDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if backing.destroyed {
		t.Error("imported resource must never be destroyed by the frame graph")
	}
}

func TestRenderTargetLifetime(t *testing.T) {
	fg := NewFrameGraph(nil)

	var c ID[testDescriptor, *testBacking]
	var ranExecutor bool
	var resourceDuringExec *testBacking

	fg.AddPass("P", func(b *Builder) {
		created := Create(b, "C", testDescriptor{name: "C"}, newTestBacking)
		h, err := Write(b, created, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write C: %v", err)
		}
		c = h
		// Nothing in the graph reads C back; pin it the way
		// DeclareRenderTarget pins attachments so it is not culled.
		Pin(b, h)
		b.SideEffect()
	}, func(r *Resources, d DriverApi) error {
		ranExecutor = true
		backing, _, _, _, err := Get(r, c)
		if err != nil {
			t.Fatalf("get C during execute: %v", err)
		}
		if !backing.created {
			t.Error("C should already be devirtualized when P's executor runs")
		}
		resourceDuringExec = backing
		return nil
	})

	fg.Compile()
	if err := fg.Execute(&testDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !ranExecutor {
		t.Fatal("P's executor never ran")
	}
	if resourceDuringExec == nil || !resourceDuringExec.created {
		t.Error("C was not created before P's executor")
	}
	if !resourceDuringExec.destroyed {
		t.Error("C was not destroyed immediately after P's executor")
	}
}

func TestDiamondDependencyLifetime(t *testing.T) {
	fg := NewFrameGraph(nil)

	var aExecuted, bExecuted, cExecuted bool
	var xCreated ID[testDescriptor, *testBacking]
	var yFromB, zFromC ID[testDescriptor, *testBacking]
	var aPass, cPass PassID

	fg.AddPass("A", func(b *Builder) {
		aPass = b.passID
		x := Create(b, "X", testDescriptor{name: "X"}, newTestBacking)
		h, err := Write(b, x, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write X: %v", err)
		}
		xCreated = h
	}, func(r *Resources, d DriverApi) error {
		aExecuted = true
		return nil
	})

	fg.AddPass("B", func(b *Builder) {
		if _, err := Read(b, xCreated, gpucore.TextureUsageSampled); err != nil {
			t.Fatalf("B read X: %v", err)
		}
		y := Create(b, "Y", testDescriptor{name: "Y"}, newTestBacking)
		h, err := Write(b, y, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write Y: %v", err)
		}
		yFromB = h
	}, func(r *Resources, d DriverApi) error {
		bExecuted = true
		return nil
	})

	fg.AddPass("C", func(b *Builder) {
		cPass = b.passID
		if _, err := Read(b, xCreated, gpucore.TextureUsageSampled); err != nil {
			t.Fatalf("C read X: %v", err)
		}
		z := Create(b, "Z", testDescriptor{name: "Z"}, newTestBacking)
		h, err := Write(b, z, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write Z: %v", err)
		}
		zFromC = h
	}, func(r *Resources, d DriverApi) error {
		cExecuted = true
		return nil
	})

	fg.AddPresentPass("present", func(b *Builder) {
		if _, err := Read(b, yFromB, gpucore.TextureUsageColorAttachment); err != nil {
			t.Fatalf("present read Y: %v", err)
		}
		if _, err := Read(b, zFromC, gpucore.TextureUsageColorAttachment); err != nil {
			t.Fatalf("present read Z: %v", err)
		}
	})

	fg.Compile()
	if err := fg.Execute(&testDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !aExecuted || !bExecuted || !cExecuted {
		t.Error("all four passes (A, B, C, present) must survive the diamond")
	}

	xResource, _, err := lookupResource[testDescriptor, *testBacking](fg, xCreated.h)
	if err != nil {
		t.Fatalf("lookup X: %v", err)
	}
	if xResource.First() != aPass {
		t.Errorf("X.first = %d, want pass A (node %d)", xResource.First(), aPass)
	}
	if xResource.Last() != cPass {
		t.Errorf("X.last = %d, want pass C (node %d, the later of B and C)", xResource.Last(), cPass)
	}
}

func TestExportGraphvizProducesDigraph(t *testing.T) {
	fg := NewFrameGraph(nil)
	fg.AddPresentPass("present", func(b *Builder) {})
	fg.Compile()

	var sb strings.Builder
	if err := fg.ExportGraphviz(&sb); err != nil {
		t.Fatalf("export graphviz: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("graphviz output does not start with digraph: %q", out)
	}
}

func TestResetThenRebuildIsIdempotent(t *testing.T) {
	build := func(fg *FrameGraph) (aCulled bool) {
		var aExecuted bool
		var yHandle ID[testDescriptor, *testBacking]

		fg.AddPass("A", func(b *Builder) {
			x := Create(b, "X", testDescriptor{name: "X"}, newTestBacking)
			if _, err := Write(b, x, gpucore.TextureUsageColorAttachment); err != nil {
				t.Fatalf("write X: %v", err)
			}
		}, func(r *Resources, d DriverApi) error {
			aExecuted = true
			return nil
		})
		fg.AddPass("B", func(b *Builder) {
			y := Create(b, "Y", testDescriptor{name: "Y"}, newTestBacking)
			h, err := Write(b, y, gpucore.TextureUsageColorAttachment)
			if err != nil {
				t.Fatalf("write Y: %v", err)
			}
			yHandle = h
		}, func(r *Resources, d DriverApi) error { return nil })
		fg.AddPresentPass("present", func(b *Builder) {
			if _, err := Read(b, yHandle, gpucore.TextureUsageColorAttachment); err != nil {
				t.Fatalf("read Y: %v", err)
			}
		})

		fg.Compile()
		if err := fg.Execute(&testDriver{}); err != nil {
			t.Fatalf("execute: %v", err)
		}
		return !aExecuted
	}

	fg := NewFrameGraph(nil)
	first := build(fg)
	fg.Reset()
	second := build(fg)

	if first != second {
		t.Errorf("rebuilding an identical graph after Reset changed the culling decision: first=%v second=%v", first, second)
	}
}

func TestDoubleWriterPanics(t *testing.T) {
	fg := NewFrameGraph(nil)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when a ResourceNode receives a second writer")
		}
	}()

	fg.AddPass("A", func(b *Builder) {
		x := Create(b, "X", testDescriptor{name: "X"}, newTestBacking)
		h, err := Write(b, x, gpucore.TextureUsageColorAttachment)
		if err != nil {
			t.Fatalf("write 1: %v", err)
		}
		// Re-linking a writer edge against the same node without going
		// through Write's versioning path is the builder bug the
		// DoubleWriter assertion exists to catch.
		node := b.fg.resNodes[b.fg.slots[h.h.index].nid]
		edge, _ := b.fg.graph.Link(b.passID, node.nodeID, uint32(gpucore.TextureUsageColorAttachment))
		node.setWriter(edge)
	}, nil)
}
