package loom

import "sort"

// Keyframe is one immutable point on a layer's timeline: the transform,
// visibility, and symbol state in force for Duration frames starting at
// Index. Values between keyframes are produced by tweening (movielayer.go).
//
// Ease selects the authored easing curve: 0 is linear, positive magnitudes
// blend toward quadratic ease-in, negative magnitudes toward ease-out.
// Magnitude is in [0, 1].
type Keyframe struct {
	Index    int     // frame number this keyframe starts at (>= 0)
	Duration int     // frame span until the next keyframe (>= 0)
	Tweened  bool    // interpolate toward the next keyframe mid-span
	Ease     float64 // signed easing strength, see above

	X, Y           float64
	ScaleX, ScaleY float64
	SkewX, SkewY   float64 // radians
	PivotX, PivotY float64
	Alpha          float64 // [0, 1]
	Visible        bool

	Label string // named seek target, "" if none
	Ref   string // symbol active during this span, "" if none
}

// end returns the first frame past this keyframe's nominal span.
func (k *Keyframe) end() int {
	return k.Index + k.Duration
}

// Layer is one independently animated track within a movie symbol: an
// ordered sequence of keyframes. Layers are immutable once built and are
// owned by exactly one MovieSymbol.
type Layer struct {
	Name      string
	keyframes []Keyframe
}

// NewLayer validates and builds a layer. Keyframes must be ordered by
// strictly increasing Index with non-overlapping spans; violations are
// rejected with a MalformedLayerError.
func NewLayer(name string, keyframes []Keyframe) (*Layer, error) {
	for i := range keyframes {
		kf := &keyframes[i]
		if kf.Index < 0 {
			return nil, &MalformedLayerError{Layer: name, Reason: "negative keyframe index"}
		}
		if kf.Duration < 0 {
			return nil, &MalformedLayerError{Layer: name, Reason: "negative keyframe duration"}
		}
		if i == 0 {
			continue
		}
		prev := &keyframes[i-1]
		if kf.Index <= prev.Index {
			return nil, &MalformedLayerError{Layer: name, Reason: "keyframe indices not strictly increasing"}
		}
		if kf.Index < prev.end() {
			return nil, &MalformedLayerError{Layer: name, Reason: "overlapping keyframe spans"}
		}
	}
	kfs := make([]Keyframe, len(keyframes))
	copy(kfs, keyframes)
	return &Layer{Name: name, keyframes: kfs}, nil
}

// NumKeyframes returns the number of keyframes on this layer.
func (l *Layer) NumKeyframes() int {
	return len(l.keyframes)
}

// Keyframe returns the i-th keyframe in sequence order.
func (l *Layer) Keyframe(i int) *Keyframe {
	return &l.keyframes[i]
}

// KeyframeAt returns the keyframe governing the given frame: the first
// keyframe whose span has not yet ended. The last keyframe's span extends
// to infinity, so frames past the nominal end of the layer (and final
// keyframes with zero duration) hold the last keyframe rather than going
// blank. Returns nil only for a layer with zero keyframes.
func (l *Layer) KeyframeAt(frame int) *Keyframe {
	n := len(l.keyframes)
	if n == 0 {
		return nil
	}
	// Keyframe ends are nondecreasing (spans cannot overlap), so the first
	// keyframe with end > frame is found by binary search.
	i := sort.Search(n, func(i int) bool {
		return frame < l.keyframes[i].end()
	})
	if i >= n {
		i = n - 1
	}
	return &l.keyframes[i]
}

// KeyframeAfter returns the keyframe following kf in sequence order, or nil
// if kf is the last.
func (l *Layer) KeyframeAfter(kf *Keyframe) *Keyframe {
	n := len(l.keyframes)
	i := sort.Search(n, func(i int) bool {
		return l.keyframes[i].Index >= kf.Index
	})
	if i+1 >= n {
		return nil
	}
	return &l.keyframes[i+1]
}

// lastEnd returns the end of the final keyframe's nominal span, or 0 for an
// empty layer. Used to derive a movie's frame count.
func (l *Layer) lastEnd() int {
	if len(l.keyframes) == 0 {
		return 0
	}
	return l.keyframes[len(l.keyframes)-1].end()
}
