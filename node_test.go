package loom

import "testing"

func TestNodeTreeManipulation(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewContainer("c")

	root.AddChild(a)
	root.AddChild(b)
	if root.NumChildren() != 2 {
		t.Fatalf("NumChildren = %d, want 2", root.NumChildren())
	}
	if root.ChildAt(0) != a || root.ChildAt(1) != b {
		t.Error("child order mismatch after AddChild")
	}

	root.AddChildAt(c, 1)
	if root.ChildAt(0) != a || root.ChildAt(1) != c || root.ChildAt(2) != b {
		t.Error("child order mismatch after AddChildAt")
	}

	root.RemoveChild(c)
	if root.NumChildren() != 2 || c.Parent != nil {
		t.Error("RemoveChild failed")
	}

	got := root.RemoveChildAt(0)
	if got != a || root.NumChildren() != 1 || a.Parent != nil {
		t.Error("RemoveChildAt failed")
	}
}

func TestNodeReparenting(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("child not removed from old parent")
	}
	if p2.NumChildren() != 1 || child.Parent != p2 {
		t.Error("child not attached to new parent")
	}
}

func TestNodeAddChildCyclePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding an ancestor as child did not panic")
		}
	}()
	a := NewContainer("a")
	b := NewContainer("b")
	a.AddChild(b)
	b.AddChild(a)
}

func TestNodeAddSelfPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding a node to itself did not panic")
		}
	}()
	a := NewContainer("a")
	a.AddChild(a)
}

func TestNodeRemoveChildren(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewContainer("b")
	root.AddChild(a)
	root.AddChild(b)
	root.RemoveChildren()
	if root.NumChildren() != 0 || a.Parent != nil || b.Parent != nil {
		t.Error("RemoveChildren left stale state")
	}
	if a.IsDisposed() || b.IsDisposed() {
		t.Error("RemoveChildren must not dispose children")
	}
}

func TestNodeWorldTransformPropagation(t *testing.T) {
	root := NewContainer("root")
	parent := NewContainer("parent")
	child := NewContainer("child")
	root.AddChild(parent)
	parent.AddChild(child)

	parent.SetPosition(100, 50)
	parent.SetScale(2, 2)
	child.SetPosition(10, 5)

	updateWorldTransform(root, Identity(), 1, false)

	w := child.WorldTransform()
	assertNear(t, "world TX", w.TX, 120)
	assertNear(t, "world TY", w.TY, 60)
	assertNear(t, "world A", w.A, 2)
}

func TestNodeWorldAlphaPropagation(t *testing.T) {
	root := NewContainer("root")
	parent := NewContainer("parent")
	child := NewContainer("child")
	root.AddChild(parent)
	parent.AddChild(child)

	parent.SetAlpha(0.5)
	child.SetAlpha(0.5)
	updateWorldTransform(root, Identity(), 1, false)
	assertNear(t, "world alpha", child.WorldAlpha(), 0.25)
}

func TestNodeDirtyFlagRecompute(t *testing.T) {
	root := NewContainer("root")
	parent := NewContainer("parent")
	child := NewContainer("child")
	root.AddChild(parent)
	parent.AddChild(child)

	updateWorldTransform(root, Identity(), 1, false)

	// Moving the parent must cascade to clean children.
	parent.SetPosition(30, 40)
	updateWorldTransform(root, Identity(), 1, false)
	w := child.WorldTransform()
	assertNear(t, "child world TX after parent move", w.TX, 30)
	assertNear(t, "child world TY after parent move", w.TY, 40)
}

func TestNodeReparentMarksDirty(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewContainer("b")
	child := NewContainer("child")
	a.SetPosition(100, 0)
	b.SetPosition(0, 200)
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(child)

	updateWorldTransform(root, Identity(), 1, false)
	assertNear(t, "child under a", child.WorldTransform().TX, 100)

	b.AddChild(child)
	updateWorldTransform(root, Identity(), 1, false)
	assertNear(t, "child under b TX", child.WorldTransform().TX, 0)
	assertNear(t, "child under b TY", child.WorldTransform().TY, 200)
}

func TestNodeWorldLocalRoundtrip(t *testing.T) {
	root := NewContainer("root")
	n := NewContainer("n")
	root.AddChild(n)
	n.SetPosition(100, 50)
	n.SetScale(2, 2)
	n.SetRotation(0.7)
	updateWorldTransform(root, Identity(), 1, false)

	wx, wy := n.LocalToWorld(13, -4)
	lx, ly := n.WorldToLocal(wx, wy)
	assertNear(t, "roundtrip x", lx, 13)
	assertNear(t, "roundtrip y", ly, -4)
}

func TestNodeDispose(t *testing.T) {
	root := NewContainer("root")
	parent := NewContainer("parent")
	child := NewContainer("child")
	root.AddChild(parent)
	parent.AddChild(child)
	parent.OnClick = func(PointerEvent) {}

	parent.Dispose()
	if root.NumChildren() != 0 {
		t.Error("disposed node still attached to root")
	}
	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("disposal did not cascade")
	}
	if parent.OnClick != nil || parent.NumChildren() != 0 {
		t.Error("dispose did not clear references")
	}
	// Idempotent.
	parent.Dispose()
}

func TestNodeConstructorDefaults(t *testing.T) {
	n := NewSprite("s", TextureRegion{Width: 4, Height: 4})
	if n.ScaleX != 1 || n.ScaleY != 1 || n.Alpha != 1 {
		t.Errorf("defaults = scale %v,%v alpha %v, want 1,1,1", n.ScaleX, n.ScaleY, n.Alpha)
	}
	if !n.Visible {
		t.Error("new node invisible")
	}
	if n.Color != ColorWhite {
		t.Errorf("default color = %+v, want white", n.Color)
	}
	if n.Type != NodeTypeSprite {
		t.Errorf("type = %v, want sprite", n.Type)
	}
	if n.ID == 0 {
		t.Error("node ID not assigned")
	}
}

func TestUpdateWorldTransformSkipsCleanSubtree(t *testing.T) {
	root := NewContainer("root")
	n := NewContainer("n")
	root.AddChild(n)
	updateWorldTransform(root, Identity(), 1, false)

	// Poke the cached world directly; a clean pass must not overwrite it.
	n.world.TX = 12345
	updateWorldTransform(root, Identity(), 1, false)
	assertNear(t, "clean subtree untouched", n.world.TX, 12345)
}

func BenchmarkUpdateWorldTransform(b *testing.B) {
	root := NewContainer("root")
	for i := 0; i < 10; i++ {
		branch := NewContainer("branch")
		root.AddChild(branch)
		for j := 0; j < 10; j++ {
			leaf := NewContainer("leaf")
			leaf.SetPosition(float64(j), float64(i))
			branch.AddChild(leaf)
		}
	}
	b.ReportAllocs()
	toggle := false
	for b.Loop() {
		// Alternate a root move so half the passes recompute everything.
		if toggle {
			root.SetPosition(1, 1)
		}
		toggle = !toggle
		updateWorldTransform(root, Identity(), 1, false)
	}
}
