package loom

import (
	"fmt"
	"math"
)

// FrameSequence is the immutable metadata for one raster sprite-sheet
// animation: an ordered list of atlas regions plus playback rate and loop
// policy. Sequences are value types and safe to share.
type FrameSequence struct {
	Name   string
	Frames []TextureRegion
	FPS    float64
	Loop   bool
}

// GridSequence builds a sequence from a regular grid laid out
// left-to-right, top-to-bottom on a single atlas page.
func GridSequence(name string, page uint16, sheetW, frameW, frameH, count int, fps float64, loop bool) FrameSequence {
	cols := sheetW / frameW
	if cols < 1 {
		cols = 1
	}
	frames := make([]TextureRegion, 0, count)
	for i := 0; i < count; i++ {
		col := i % cols
		row := i / cols
		frames = append(frames, TextureRegion{
			Page:      page,
			X:         uint16(col * frameW),
			Y:         uint16(row * frameH),
			Width:     uint16(frameW),
			Height:    uint16(frameH),
			OriginalW: uint16(frameW),
			OriginalH: uint16(frameH),
		})
	}
	return FrameSequence{Name: name, Frames: frames, FPS: fps, Loop: loop}
}

// AtlasSequence builds a sequence from named atlas regions in order.
// Returns an error naming the first region the atlas does not define.
func AtlasSequence(name string, atlas *Atlas, regionNames []string, fps float64, loop bool) (FrameSequence, error) {
	frames := make([]TextureRegion, 0, len(regionNames))
	for _, rn := range regionNames {
		r, ok := atlas.Region(rn)
		if !ok {
			return FrameSequence{}, fmt.Errorf("loom: sequence %q: atlas has no region %q", name, rn)
		}
		frames = append(frames, r)
	}
	return FrameSequence{Name: name, Frames: frames, FPS: fps, Loop: loop}, nil
}

// SheetAnimation is a playback cursor over a FrameSequence. Time
// accumulates fractionally so playback speed is independent of the host's
// tick rate. Non-looping sequences hold their final frame when done.
type SheetAnimation struct {
	Seq    FrameSequence
	cursor float64
	done   bool
}

// NewSheetAnimation creates a player positioned at the first frame.
func NewSheetAnimation(seq FrameSequence) *SheetAnimation {
	return &SheetAnimation{Seq: seq}
}

// Update advances playback by dt seconds.
func (a *SheetAnimation) Update(dt float64) {
	n := len(a.Seq.Frames)
	if n == 0 || a.done || dt <= 0 {
		return
	}
	a.cursor += dt * a.Seq.FPS
	if a.cursor < float64(n) {
		return
	}
	if a.Seq.Loop {
		a.cursor = math.Mod(a.cursor, float64(n))
	} else {
		a.cursor = float64(n - 1)
		a.done = true
	}
}

// Restart rewinds to the first frame and clears the done state.
func (a *SheetAnimation) Restart() {
	a.cursor = 0
	a.done = false
}

// Frame returns the current integer frame number.
func (a *SheetAnimation) Frame() int {
	return int(a.cursor)
}

// Region returns the atlas region for the current frame. The zero
// TextureRegion is returned for an empty sequence.
func (a *SheetAnimation) Region() TextureRegion {
	if len(a.Seq.Frames) == 0 {
		return TextureRegion{}
	}
	return a.Seq.Frames[a.Frame()]
}

// Done reports whether a non-looping sequence has reached its final frame.
func (a *SheetAnimation) Done() bool {
	return a.done
}
