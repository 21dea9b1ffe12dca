package loom

import "math"

// MovieLayer is the stateful playback cursor over one Layer definition. It
// resolves the current fractional frame to an interpolated transform, alpha,
// and visibility, and selects the active child instance for the keyframe's
// symbol reference. Mutated only by setFrame; owned by exactly one Movie.
type MovieLayer struct {
	data *Layer

	// Child instances keyed by symbol name, built eagerly at construction
	// from the distinct refs across the layer's keyframes. The ref set is
	// static, so unknown symbols surface here rather than mid-playback.
	instances map[string]Instance

	active    Instance
	activeRef string

	mat     Matrix
	alpha   float64
	visible bool
}

func newMovieLayer(data *Layer, lib *Library) (*MovieLayer, error) {
	ml := &MovieLayer{data: data, mat: Identity(), alpha: 1}
	for i := 0; i < data.NumKeyframes(); i++ {
		ref := data.Keyframe(i).Ref
		if ref == "" {
			continue
		}
		if _, ok := ml.instances[ref]; ok {
			continue
		}
		inst, err := lib.NewInstance(ref)
		if err != nil {
			return nil, err
		}
		if ml.instances == nil {
			ml.instances = make(map[string]Instance)
		}
		ml.instances[ref] = inst
	}
	return ml, nil
}

// setFrame resolves the layer's state for a fractional playback frame.
//
// The governing keyframe is found with the integer part of frame. Tweening
// applies only strictly between keyframes: at the keyframe's own index the
// raw authored values are used verbatim regardless of the Tweened flag.
// Pivot and visibility are never interpolated; they switch discretely at
// the keyframe.
func (ml *MovieLayer) setFrame(frame float64) {
	kf := ml.data.KeyframeAt(int(math.Floor(frame)))
	if kf == nil {
		// A layer with no keyframes never activates.
		ml.active = nil
		ml.activeRef = ""
		ml.visible = false
		return
	}

	x, y := kf.X, kf.Y
	scaleX, scaleY := kf.ScaleX, kf.ScaleY
	skewX, skewY := kf.SkewX, kf.SkewY
	alpha := kf.Alpha

	if frame != float64(kf.Index) && kf.Tweened && kf.Duration > 0 {
		if next := ml.data.KeyframeAfter(kf); next != nil {
			t := easeInterp(kf.Ease, (frame-float64(kf.Index))/float64(kf.Duration))
			x += (next.X - kf.X) * t
			y += (next.Y - kf.Y) * t
			scaleX += (next.ScaleX - kf.ScaleX) * t
			scaleY += (next.ScaleY - kf.ScaleY) * t
			skewX += (next.SkewX - kf.SkewX) * t
			skewY += (next.SkewY - kf.SkewY) * t
			alpha += (next.Alpha - kf.Alpha) * t
		}
	}

	// Combined scale + shear + translation-about-pivot matrix. The trig is
	// skipped for exact zero skew; sin(0)=0, cos(0)=1.
	sinX, cosX := 0.0, 1.0
	if skewX != 0 {
		sinX, cosX = math.Sincos(skewX)
	}
	sinY, cosY := 0.0, 1.0
	if skewY != 0 {
		sinY, cosY = math.Sincos(skewY)
	}
	a := scaleX * cosY
	b := scaleX * sinY
	c := -scaleY * sinX
	d := scaleY * cosX
	ml.mat = Matrix{
		A: a, B: b, C: c, D: d,
		TX: x - (kf.PivotX*a + kf.PivotY*c),
		TY: y - (kf.PivotX*b + kf.PivotY*d),
	}
	ml.alpha = alpha
	ml.visible = kf.Visible

	if kf.Ref != ml.activeRef {
		if kf.Ref == "" {
			ml.active = nil
		} else {
			ml.active = ml.instances[kf.Ref]
			ml.active.Reset()
		}
		ml.activeRef = kf.Ref
	}
}

// easeInterp maps a raw tween progress t in [0, 1) through the authored
// quadratic blend: ease 0 is linear, positive eases blend toward t^2
// (ease-in), negative eases blend toward 1-(1-t)^2 (ease-out).
func easeInterp(ease, t float64) float64 {
	switch {
	case ease == 0:
		return t
	case ease < 0:
		inv := 1 - t
		quad := 1 - inv*inv
		return -ease*quad + (1+ease)*t
	default:
		return ease*t*t + (1-ease)*t
	}
}

// draw delegates to the active child instance. The caller has already
// applied this layer's matrix and alpha to the surface. Reports whether
// anything was drawn.
func (ml *MovieLayer) draw(s Surface) bool {
	if ml.active == nil {
		return false
	}
	return ml.active.Draw(s)
}

// onTick forwards the tick to the active child so nested movies advance
// their own autonomous frame cursors.
func (ml *MovieLayer) onTick(delta float64) {
	if ml.active != nil {
		ml.active.OnTick(delta)
	}
}

// Name returns the layer definition's name.
func (ml *MovieLayer) Name() string {
	return ml.data.Name
}

// Matrix returns the transform resolved by the last setFrame.
func (ml *MovieLayer) Matrix() Matrix {
	return ml.mat
}

// Alpha returns the opacity resolved by the last setFrame.
func (ml *MovieLayer) Alpha() float64 {
	return ml.alpha
}

// Visible reports the visibility resolved by the last setFrame.
func (ml *MovieLayer) Visible() bool {
	return ml.visible
}

// Active returns the currently active child instance, or nil when the
// governing keyframe references no symbol.
func (ml *MovieLayer) Active() Instance {
	return ml.active
}
