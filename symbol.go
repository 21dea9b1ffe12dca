package loom

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Instance is a live occurrence of a library symbol on a movie layer. The
// two variants are *Movie (a nested animated symbol with its own timeline)
// and *TexturePiece (a static atlas texture). Keyframes select among a
// layer's instances by symbol name; the runtime never branches on concrete
// type beyond this interface.
type Instance interface {
	// Draw renders the instance under the surface's current transform and
	// alpha, reporting whether anything was drawn.
	Draw(s Surface) bool
	// OnTick advances any internal playback by delta frames. Static
	// textures ignore ticks.
	OnTick(delta float64)
	// Reset rewinds internal playback to its initial state. Called when a
	// keyframe switches a layer onto this instance.
	Reset()
}

// TexturePiece is a static symbol: one atlas region plus the authored
// origin point it is anchored at. Pieces are immutable and shared — the
// same piece may be active on many layers at once.
type TexturePiece struct {
	Name   string
	Region TextureRegion
	Origin Vec2

	image *ebiten.Image // sub-image of the atlas page, nil in headless use
}

// NewTexturePiece builds a texture symbol. img is the region's source
// sub-image and may be nil when no atlas pages are loaded.
func NewTexturePiece(name string, region TextureRegion, origin Vec2, img *ebiten.Image) *TexturePiece {
	return &TexturePiece{Name: name, Region: region, Origin: origin, image: img}
}

// Draw renders the piece anchored at its origin.
func (t *TexturePiece) Draw(s Surface) bool {
	if t.Origin.X == 0 && t.Origin.Y == 0 {
		s.DrawRegion(t.image, t.Region)
		return true
	}
	s.Save()
	s.Concat(Translation(-t.Origin.X, -t.Origin.Y))
	s.DrawRegion(t.image, t.Region)
	s.Restore()
	return true
}

// OnTick is a no-op; textures have no playback.
func (t *TexturePiece) OnTick(delta float64) {}

// Reset is a no-op; textures have no playback.
func (t *TexturePiece) Reset() {}
