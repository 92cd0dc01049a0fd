package assets

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Faultbox/plush-configurator/internal/engine/model"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
)

func quadTemplate(path string) (*scene.Node, error) {
	mesh := scene.NewMesh("quad",
		[][3]float32{{0, 0, 0}, {4, 0, 0}, {4, 4, 0}, {0, 4, 0}},
		nil, nil, []uint32{0, 1, 2, 0, 2, 3})
	n := scene.NewNode(path)
	n.Surfaces = []*scene.Surface{scene.NewSurface("body", mesh, &scene.Material{Name: "Fur"})}
	return n, nil
}

var groundOpts = model.NormalizeOptions{TargetSize: 2, Anchor: model.AnchorGround}

func TestLoadDeliversOnDispatch(t *testing.T) {
	l := NewLoader(quadTemplate)
	defer l.Close()

	var got *scene.Node
	l.Load("cat.glb", "sitting", groundOpts, func(n *scene.Node) { got = n })

	l.Wait()
	if got != nil {
		t.Fatal("callback must not run before Dispatch")
	}
	if n := l.Dispatch(); n != 1 {
		t.Fatalf("Dispatch handled %d results, want 1", n)
	}
	if got == nil {
		t.Fatal("callback not called")
	}
	if got.Name != "sitting" {
		t.Errorf("model name = %q, want sitting", got.Name)
	}
	if b := got.Bounds(); b.MaxDim() < 1.999 || b.MaxDim() > 2.001 || b.Min.Y != 0 {
		t.Errorf("model not normalized: %+v", b)
	}
	got.EachSurface(func(s *scene.Surface) {
		if !s.CastShadow || !s.ReceiveShadow {
			t.Error("loaded surfaces should cast and receive shadows")
		}
	})
	if l.Pending() != 0 {
		t.Errorf("Pending = %d", l.Pending())
	}
}

func TestLoadFailureIsLoggedNotDelivered(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(func(string) (*scene.Node, error) { return nil, boom })
	defer l.Close()

	called := false
	l.Load("missing.glb", "hat", groundOpts, func(*scene.Node) { called = true })
	l.Wait()
	l.Dispatch()

	if called {
		t.Error("callback should not run for a failed load")
	}
	issued, done, failed := l.Counts()
	if issued != 1 || done != 1 || failed != 1 {
		t.Errorf("Counts = %d/%d/%d, want 1/1/1", issued, done, failed)
	}
	if l.Pending() != 0 {
		t.Error("a failed load still counts as finished")
	}
}

func TestDegenerateModelFails(t *testing.T) {
	l := NewLoader(func(p string) (*scene.Node, error) { return scene.NewNode(p), nil })
	defer l.Close()

	called := false
	l.Load("empty.glb", "bow", groundOpts, func(*scene.Node) { called = true })
	l.Wait()
	l.Dispatch()

	if called {
		t.Error("a model without geometry should not be delivered")
	}
	if _, _, failed := l.Counts(); failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestSamePathDecodesOnce(t *testing.T) {
	var decodes atomic.Int32
	l := NewLoader(func(p string) (*scene.Node, error) {
		decodes.Add(1)
		return quadTemplate(p)
	})
	defer l.Close()

	var models []*scene.Node
	collect := func(n *scene.Node) { models = append(models, n) }
	l.Load("cat.glb", "a", groundOpts, collect)
	l.Load("cat.glb", "b", groundOpts, collect)
	l.Wait()
	l.Dispatch()

	if decodes.Load() != 1 {
		t.Errorf("decoded %d times, want 1", decodes.Load())
	}
	if len(models) != 2 {
		t.Fatalf("got %d models", len(models))
	}
	if hits, misses := l.cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("cache stats = %d/%d, want 1/1", hits, misses)
	}

	sa := models[0].Children[0].Surfaces[0]
	sb := models[1].Children[0].Surfaces[0]
	if sa == sb {
		t.Fatal("instances should have distinct surfaces")
	}
	if sa.Mesh != sb.Mesh || sa.Material() != sb.Material() {
		t.Error("instances should share mesh and material")
	}

	sa.SetColor([4]float32{1, 1, 1, 1}, "")
	if sb.Material().BaseColor == [4]float32{1, 1, 1, 1} {
		t.Error("recoloring one instance leaked into the other")
	}
}

func TestProgressCallback(t *testing.T) {
	l := NewLoader(quadTemplate)
	defer l.Close()

	var calls [][2]int
	l.SetProgress(func(done, total int) { calls = append(calls, [2]int{done, total}) })

	l.Load("a.glb", "a", groundOpts, nil)
	l.Load("b.glb", "b", groundOpts, nil)
	l.Wait()
	l.Dispatch()

	if len(calls) != 2 {
		t.Fatalf("progress called %d times", len(calls))
	}
	if calls[1] != [2]int{2, 2} {
		t.Errorf("last progress = %v, want [2 2]", calls[1])
	}
}

func TestDispatchWithNothingPending(t *testing.T) {
	l := NewLoader(quadTemplate)
	defer l.Close()
	if n := l.Dispatch(); n != 0 {
		t.Errorf("Dispatch = %d, want 0", n)
	}
}

func TestCloseAbandonsBlockedLoads(t *testing.T) {
	release := make(chan struct{})
	l := NewLoader(func(p string) (*scene.Node, error) {
		<-release
		return quadTemplate(p)
	})

	l.Load("slow.glb", "slow", groundOpts, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Close()
	}()
	close(release)
	wg.Wait()

	if l.ctx.Err() == nil {
		t.Error("Close should cancel the loader context")
	}
}
