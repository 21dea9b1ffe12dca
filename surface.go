package loom

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the drawing-context abstraction the movie runtime composites
// onto: an immediate-mode 2D target with an affine transform and alpha
// state stack. Any backend with matrix concatenation and alpha compositing
// can implement it; ImageSurface is the Ebitengine-backed implementation.
type Surface interface {
	// Save pushes the current transform and alpha onto the state stack.
	Save()
	// Restore pops the most recently saved state.
	Restore()
	// Concat right-multiplies the current transform by m.
	Concat(m Matrix)
	// ScaleAlpha multiplies the current alpha by a.
	ScaleAlpha(a float64)
	// DrawRegion draws an atlas region under the current transform and
	// alpha. img is the region's source image (typically a sub-image of an
	// atlas page); region supplies trim and rotation metadata.
	DrawRegion(img *ebiten.Image, region TextureRegion)
}

type surfaceState struct {
	m     Matrix
	alpha float64
}

// ImageSurface draws onto an *ebiten.Image. The zero value is not usable;
// construct with NewImageSurface. A single ImageSurface is reusable across
// frames via Reset, which is how the Stage drives movie nodes.
type ImageSurface struct {
	target *ebiten.Image
	cur    surfaceState
	stack  []surfaceState
	op     ebiten.DrawImageOptions
}

// NewImageSurface creates a surface targeting img, with an identity
// transform and alpha 1.
func NewImageSurface(img *ebiten.Image) *ImageSurface {
	return &ImageSurface{
		target: img,
		cur:    surfaceState{m: Identity(), alpha: 1},
	}
}

// Reset retargets the surface and seeds its state, discarding any saved
// stack entries. Used to start a node's movie draw from the node's world
// transform and alpha.
func (s *ImageSurface) Reset(img *ebiten.Image, m Matrix, alpha float64) {
	s.target = img
	s.cur = surfaceState{m: m, alpha: alpha}
	s.stack = s.stack[:0]
}

// Save pushes the current state.
func (s *ImageSurface) Save() {
	s.stack = append(s.stack, s.cur)
}

// Restore pops the most recently saved state. Restore without a matching
// Save resets to identity.
func (s *ImageSurface) Restore() {
	if n := len(s.stack); n > 0 {
		s.cur = s.stack[n-1]
		s.stack = s.stack[:n-1]
		return
	}
	s.cur = surfaceState{m: Identity(), alpha: 1}
}

// Concat right-multiplies the current transform by m.
func (s *ImageSurface) Concat(m Matrix) {
	s.cur.m = s.cur.m.Mul(m)
}

// ScaleAlpha multiplies the current alpha by a.
func (s *ImageSurface) ScaleAlpha(a float64) {
	s.cur.alpha *= a
}

// DrawRegion draws img under the current state. TexturePacker rotation and
// trim offsets are applied in the region's local space before the current
// transform.
func (s *ImageSurface) DrawRegion(img *ebiten.Image, region TextureRegion) {
	if img == nil || s.target == nil || s.cur.alpha <= 0 {
		return
	}

	op := &s.op
	op.GeoM.Reset()
	if region.Rotated {
		// Regions are stored rotated 90 degrees clockwise in the atlas.
		op.GeoM.Rotate(-1.5707963267948966) // -pi/2
		op.GeoM.Translate(0, float64(region.Width))
	}
	if region.OffsetX != 0 || region.OffsetY != 0 {
		op.GeoM.Translate(float64(region.OffsetX), float64(region.OffsetY))
	}
	op.GeoM.Concat(s.cur.m.GeoM())

	a := float32(s.cur.alpha)
	op.ColorScale.Reset()
	op.ColorScale.Scale(a, a, a, a)

	s.target.DrawImage(img, op)
}
