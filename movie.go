package loom

import "math"

// Movie is a live playback instance of a MovieSymbol: an ordered set of
// MovieLayers, a fractional frame position, and play/loop state. Movies are
// created by a Library factory and are exclusively owned by one caller; the
// underlying symbol definition stays immutable and shared.
//
// Movie implements Instance, so a movie can itself be the child symbol of
// another movie's layer.
type Movie struct {
	symbol *MovieSymbol
	layers []*MovieLayer

	frame float64

	// Speed multiplies tick deltas on this movie's own timeline. Nested
	// movies receive the raw delta; their cursors are autonomous.
	Speed float64

	// Looping wraps playback past the last frame; when false the movie
	// clamps to its final frame and stops.
	Looping bool

	playing bool
}

func newMovie(sym *MovieSymbol, lib *Library) (*Movie, error) {
	m := &Movie{
		symbol:  sym,
		layers:  make([]*MovieLayer, 0, sym.NumLayers()),
		Speed:   1,
		Looping: true,
		playing: true,
	}
	for i := 0; i < sym.NumLayers(); i++ {
		layer, err := newMovieLayer(sym.Layer(i), lib)
		if err != nil {
			return nil, err
		}
		m.layers = append(m.layers, layer)
	}
	m.setFrame(0)
	return m, nil
}

// setFrame moves the playback position and recomputes every layer.
func (m *Movie) setFrame(frame float64) {
	m.frame = frame
	for _, l := range m.layers {
		l.setFrame(frame)
	}
}

// OnTick advances playback by delta frames (scaled by Speed), wrapping or
// clamping per the loop policy, then forwards the raw delta to each layer's
// active child so nested movies advance independently.
func (m *Movie) OnTick(delta float64) {
	if m.playing && delta > 0 {
		f := m.frame + delta*m.Speed
		fc := float64(m.symbol.frameCount)
		if f >= fc {
			if m.Looping {
				f = math.Mod(f, fc)
			} else {
				f = fc - 1
				m.playing = false
			}
		}
		m.setFrame(f)
	}
	for _, l := range m.layers {
		l.onTick(delta)
	}
}

// Draw composites the movie's layers bottom-to-top onto the surface.
// Invisible and fully transparent layers are skipped. Each layer's cached
// matrix and alpha are applied inside a save/restore pair before the
// layer's active child draws. Reports whether anything was drawn.
func (m *Movie) Draw(s Surface) bool {
	drew := false
	for _, l := range m.layers {
		if !l.visible || l.alpha <= 0 || l.active == nil {
			continue
		}
		s.Save()
		s.Concat(l.mat)
		s.ScaleAlpha(l.alpha)
		if l.draw(s) {
			drew = true
		}
		s.Restore()
	}
	return drew
}

// GotoAndPlay seeks to a label's start frame and resumes playback. On an
// unknown label the position and play state are unchanged and an
// *UnknownLabelError is returned.
func (m *Movie) GotoAndPlay(label string) error {
	span, ok := m.symbol.Label(label)
	if !ok {
		return &UnknownLabelError{Movie: m.symbol.Name, Label: label}
	}
	m.setFrame(float64(span.Start))
	m.playing = true
	return nil
}

// GotoAndStop seeks to a label's start frame and pauses playback. On an
// unknown label the position and play state are unchanged and an
// *UnknownLabelError is returned.
func (m *Movie) GotoAndStop(label string) error {
	span, ok := m.symbol.Label(label)
	if !ok {
		return &UnknownLabelError{Movie: m.symbol.Name, Label: label}
	}
	m.setFrame(float64(span.Start))
	m.playing = false
	return nil
}

// Seek moves the playback position to an arbitrary fractional frame without
// changing the play state. Out-of-range frames are not clamped; layer
// lookup holds the last keyframe for frames past the end.
func (m *Movie) Seek(frame float64) {
	m.setFrame(frame)
}

// Play resumes playback.
func (m *Movie) Play() {
	m.playing = true
}

// Stop pauses playback. Stopping is purely ceasing to advance; the current
// frame's state stays composited.
func (m *Movie) Stop() {
	m.playing = false
}

// Reset rewinds to frame 0, reinitializes every layer, and resumes
// playback. Called when a parent layer switches onto this movie.
func (m *Movie) Reset() {
	m.setFrame(0)
	m.playing = true
}

// IsPlaying reports whether ticks currently advance the movie.
func (m *Movie) IsPlaying() bool {
	return m.playing
}

// Frame returns the current fractional playback frame.
func (m *Movie) Frame() float64 {
	return m.frame
}

// FrameCount returns the movie's nominal length in frames.
func (m *Movie) FrameCount() int {
	return m.symbol.frameCount
}

// Symbol returns the shared immutable definition this movie plays.
func (m *Movie) Symbol() *MovieSymbol {
	return m.symbol
}

// NumLayers returns the number of runtime layers.
func (m *Movie) NumLayers() int {
	return len(m.layers)
}

// Layer returns the i-th runtime layer; index 0 draws at the bottom.
func (m *Movie) Layer(i int) *MovieLayer {
	return m.layers[i]
}
