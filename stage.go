package loom

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stage is the top-level object: it owns the node tree's root, the atlas
// page images, the pointer-routing state, and the reusable surface movies
// draw through. One Update plus one Draw per host frame drives everything
// depth-first; there is no internal concurrency.
type Stage struct {
	root *Node

	// ClearColor is the background color Run fills the screen with each
	// frame. Defaults to opaque black.
	ClearColor Color

	pages    []*ebiten.Image
	nextPage int

	surface *ImageSurface

	// Pointer routing state (pointer.go)
	handlers handlerRegistry
	pointers [maxPointers]pointerState
	captured [maxPointers]*Node
	hitBuf   []*Node
	touchMap [maxPointers]ebiten.TouchID
	touchUse [maxPointers]bool
	touchIDs []ebiten.TouchID
}

// NewStage creates a stage with a pre-created root container.
func NewStage() *Stage {
	root := NewContainer("root")
	root.Interactable = true
	return &Stage{
		root:       root,
		ClearColor: Color{A: 1},
		surface:    NewImageSurface(nil),
	}
}

// Root returns the stage's root container node.
func (s *Stage) Root() *Node {
	return s.root
}

// RegisterPage stores an atlas page image at the given index. Sprite
// regions reference pages by index at draw time.
func (s *Stage) RegisterPage(index int, img *ebiten.Image) {
	for len(s.pages) <= index {
		s.pages = append(s.pages, nil)
	}
	s.pages[index] = img
}

// LoadAtlas parses TexturePacker JSON, registers the page images starting
// at the next free page index, and returns the Atlas for region lookups.
func (s *Stage) LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	atlas, err := LoadAtlas(jsonData, pages)
	if err != nil {
		return nil, err
	}
	start := s.nextPage
	for i, page := range pages {
		s.RegisterPage(start+i, page)
	}
	s.nextPage = start + len(pages)
	if start > 0 {
		for name, r := range atlas.regions {
			r.Page += uint16(start)
			atlas.regions[name] = r
		}
	}
	return atlas, nil
}

// Update refreshes world transforms, advances movie and sheet playback by
// one host tick, and routes pointer input.
func (s *Stage) Update() {
	dt := 1.0 / float64(ebiten.TPS())
	updateWorldTransform(s.root, Identity(), 1.0, false)
	s.advance(s.root, dt)
	s.processPointers()
}

// advance walks the tree advancing playback cursors: movies tick in their
// own timeline frames, sheet-animated sprites refresh their region.
func (s *Stage) advance(n *Node, dt float64) {
	if n.Type == NodeTypeMovie && n.Movie != nil {
		n.Movie.OnTick(dt * n.Rate)
	}
	if n.Type == NodeTypeSprite && n.Sheet != nil {
		n.Sheet.Update(dt)
		n.Region = n.Sheet.Region()
	}
	for _, child := range n.children {
		s.advance(child, dt)
	}
}

// Draw renders the node tree onto the screen, back-to-front in child
// order. Children inherit their parent's transform and alpha; movie nodes
// composite their layers through the stage's surface seeded with the
// node's world state.
func (s *Stage) Draw(screen *ebiten.Image) {
	s.drawNode(screen, s.root)
}

func (s *Stage) drawNode(screen *ebiten.Image, n *Node) {
	if !n.Visible || n.worldAlpha <= 0 {
		return
	}

	switch n.Type {
	case NodeTypeSprite:
		s.drawSprite(screen, n)
	case NodeTypeMovie:
		if n.Movie != nil {
			s.surface.Reset(screen, n.world, n.worldAlpha)
			n.Movie.Draw(s.surface)
		}
	}

	for _, child := range n.children {
		s.drawNode(screen, child)
	}
}

func (s *Stage) drawSprite(screen *ebiten.Image, n *Node) {
	img := s.pageSubImage(n.Region)
	if img == nil {
		return
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Reset()
	if n.Region.Rotated {
		op.GeoM.Rotate(-1.5707963267948966) // -pi/2
		op.GeoM.Translate(0, float64(n.Region.Width))
	}
	if n.Region.OffsetX != 0 || n.Region.OffsetY != 0 {
		op.GeoM.Translate(float64(n.Region.OffsetX), float64(n.Region.OffsetY))
	}
	op.GeoM.Concat(n.world.GeoM())

	a := float32(n.worldAlpha * n.Color.A)
	op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)

	screen.DrawImage(img, &op)
}

// pageSubImage returns the registered page sub-image for a region, or nil
// when the page is missing.
func (s *Stage) pageSubImage(r TextureRegion) *ebiten.Image {
	if int(r.Page) >= len(s.pages) || s.pages[r.Page] == nil {
		return nil
	}
	return s.pages[r.Page].SubImage(image.Rect(
		int(r.X), int(r.Y),
		int(r.X)+int(r.Width), int(r.Y)+int(r.Height),
	)).(*ebiten.Image)
}
