package loom

import (
	"testing"

	"github.com/tanema/gween/ease"
)

// Tween assertions use a float32 epsilon since gween interpolates in
// float32.
const tweenEpsilon = 1e-4

func assertTween(t *testing.T, name string, got, want float64) {
	t.Helper()
	if diff := got - want; diff > tweenEpsilon || diff < -tweenEpsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestTweenPosition(t *testing.T) {
	n := NewContainer("n")
	g := TweenPosition(n, 100, 50, 1, ease.Linear)

	g.Update(0.5)
	assertTween(t, "X midway", n.X, 50)
	assertTween(t, "Y midway", n.Y, 25)
	if g.Done {
		t.Error("tween done at midpoint")
	}

	g.Update(0.5)
	assertTween(t, "X final", n.X, 100)
	assertTween(t, "Y final", n.Y, 50)
	if !g.Done {
		t.Error("tween not done after full duration")
	}
}

func TestTweenOvershootClamps(t *testing.T) {
	n := NewContainer("n")
	g := TweenAlpha(n, 0, 1, ease.Linear)
	g.Update(5)
	assertTween(t, "alpha", n.Alpha, 0)
	if !g.Done {
		t.Error("tween not done after overshoot")
	}
}

func TestTweenScaleAndRotation(t *testing.T) {
	n := NewContainer("n")
	gs := TweenScale(n, 2, 3, 1, ease.Linear)
	gr := TweenRotation(n, 1.5, 1, ease.Linear)
	gs.Update(1)
	gr.Update(1)
	assertTween(t, "scaleX", n.ScaleX, 2)
	assertTween(t, "scaleY", n.ScaleY, 3)
	assertTween(t, "rotation", n.Rotation, 1.5)
}

func TestTweenColor(t *testing.T) {
	n := NewContainer("n")
	g := TweenColor(n, Color{R: 1, G: 0, B: 0, A: 0.5}, 1, ease.Linear)
	g.Update(0.5)
	assertTween(t, "G midway", n.Color.G, 0.5)
	assertTween(t, "A midway", n.Color.A, 0.75)
	g.Update(0.5)
	assertTween(t, "R final", n.Color.R, 1)
	assertTween(t, "A final", n.Color.A, 0.5)
}

func TestTweenStopsOnDisposedNode(t *testing.T) {
	n := NewContainer("n")
	g := TweenPosition(n, 100, 100, 1, ease.Linear)
	g.Update(0.25)
	n.Dispose()
	g.Update(0.25)
	if !g.Done {
		t.Error("tween not stopped after target disposal")
	}
	assertTween(t, "X frozen", n.X, 25)
}

func TestTweenMarksNodeDirty(t *testing.T) {
	root := NewContainer("root")
	n := NewContainer("n")
	root.AddChild(n)
	updateWorldTransform(root, Identity(), 1, false)

	g := TweenPosition(n, 10, 0, 1, ease.Linear)
	g.Update(1)
	updateWorldTransform(root, Identity(), 1, false)
	assertTween(t, "world TX after tween", n.WorldTransform().TX, 10)
}

func TestTweenUpdateAfterDone(t *testing.T) {
	n := NewContainer("n")
	g := TweenAlpha(n, 0.5, 1, ease.Linear)
	g.Update(2)
	n.Alpha = 0.9
	g.Update(1) // must be inert
	assertTween(t, "alpha untouched", n.Alpha, 0.9)
}
