package loom

import "sort"

// LabelSpan is the frame range covered by a timeline label: from Start until
// the next label, or the end of the movie for the final label.
type LabelSpan struct {
	Start    int
	Duration int
}

// MovieSymbol is the immutable definition of one animated symbol: an ordered
// set of layers (index 0 draws at the bottom) plus derived frame-count and
// label metadata. Definitions live in a Library and are shared read-only by
// any number of playing Movie instances.
type MovieSymbol struct {
	Name string

	layers     []*Layer
	frameCount int
	labels     map[string]LabelSpan
	labelOrder []string
}

// NewMovieSymbol builds a movie symbol from validated layers. The frame
// count is the maximum keyframe span end across layers, never less than 1.
func NewMovieSymbol(name string, layers []*Layer) *MovieSymbol {
	m := &MovieSymbol{
		Name:   name,
		layers: layers,
	}
	for _, l := range layers {
		if end := l.lastEnd(); end > m.frameCount {
			m.frameCount = end
		}
	}
	if m.frameCount < 1 {
		m.frameCount = 1
	}
	m.buildLabels()
	return m
}

// buildLabels scans every layer for labeled keyframes and computes each
// label's span as "until the next label or the end of the movie".
func (m *MovieSymbol) buildLabels() {
	type labelStart struct {
		name  string
		start int
	}
	var starts []labelStart
	for _, l := range m.layers {
		for i := range l.keyframes {
			kf := &l.keyframes[i]
			if kf.Label != "" {
				starts = append(starts, labelStart{name: kf.Label, start: kf.Index})
			}
		}
	}
	if len(starts) == 0 {
		return
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].start < starts[j].start })

	m.labels = make(map[string]LabelSpan, len(starts))
	m.labelOrder = make([]string, 0, len(starts))
	for i, ls := range starts {
		end := m.frameCount
		if i+1 < len(starts) {
			end = starts[i+1].start
		}
		if _, dup := m.labels[ls.name]; !dup {
			m.labelOrder = append(m.labelOrder, ls.name)
		}
		m.labels[ls.name] = LabelSpan{Start: ls.start, Duration: end - ls.start}
	}
}

// FrameCount returns the movie's nominal length in frames.
func (m *MovieSymbol) FrameCount() int {
	return m.frameCount
}

// NumLayers returns the number of layers.
func (m *MovieSymbol) NumLayers() int {
	return len(m.layers)
}

// Layer returns the i-th layer; index 0 draws at the bottom.
func (m *MovieSymbol) Layer(i int) *Layer {
	return m.layers[i]
}

// Label returns the span for a named label.
func (m *MovieSymbol) Label(name string) (LabelSpan, bool) {
	span, ok := m.labels[name]
	return span, ok
}

// Labels returns the label names in timeline order. The returned slice MUST
// NOT be mutated by the caller.
func (m *MovieSymbol) Labels() []string {
	return m.labelOrder
}
