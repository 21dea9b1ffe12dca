package loom

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one via TweenPosition, TweenScale, TweenAlpha, TweenRotation, or
// TweenColor and call Update(dt) each frame; the group writes the values
// back and marks the node dirty. If the target node is disposed mid-flight
// the group stops immediately.
//
// These are procedural, host-driven tweens — distinct from Flump keyframe
// easing, which is baked into exported movie data and evaluated by the
// movie runtime.
type TweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Once every tween finishes (or the node is disposed), Done is set.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.Invalidate()
	}
}

func newTweenGroup(target *Node) *TweenGroup {
	return &TweenGroup{target: target}
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition animates node.X and node.Y to the target coordinates.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node)
	g.add(&node.X, toX, duration, fn)
	g.add(&node.Y, toY, duration, fn)
	return g
}

// TweenScale animates node.ScaleX and node.ScaleY to the target values.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node)
	g.add(&node.ScaleX, toSX, duration, fn)
	g.add(&node.ScaleY, toSY, duration, fn)
	return g
}

// TweenAlpha animates node.Alpha to the target value.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node)
	g.add(&node.Alpha, to, duration, fn)
	return g
}

// TweenRotation animates node.Rotation to the target value in radians.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node)
	g.add(&node.Rotation, to, duration, fn)
	return g
}

// TweenColor animates all four components of node.Color to the target.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node)
	g.add(&node.Color.R, to.R, duration, fn)
	g.add(&node.Color.G, to.G, duration, fn)
	g.add(&node.Color.B, to.B, duration, fn)
	g.add(&node.Color.A, to.A, duration, fn)
	return g
}
