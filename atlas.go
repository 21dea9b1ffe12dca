package loom

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureRegion describes a sub-rectangle within an atlas page. Value type;
// stored directly on nodes and keyframe symbols, no pointer.
type TextureRegion struct {
	Page      uint16 // atlas page index
	X, Y      uint16 // top-left corner of the sub-image rect within the page
	Width     uint16 // width of the sub-image rect (may differ from OriginalW if trimmed)
	Height    uint16 // height of the sub-image rect (may differ from OriginalH if trimmed)
	OriginalW uint16 // untrimmed sprite width as authored
	OriginalH uint16 // untrimmed sprite height as authored
	OffsetX   int16  // horizontal trim offset from TexturePacker
	OffsetY   int16  // vertical trim offset from TexturePacker
	Rotated   bool   // true if stored 90 degrees clockwise in the atlas
}

// Atlas holds one or more atlas page images and a map of named regions
// parsed from TexturePacker JSON.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number. Entries
	// may be nil in headless use.
	Pages []*ebiten.Image

	regions map[string]TextureRegion
}

// Region returns the named region and whether it exists.
func (a *Atlas) Region(name string) (TextureRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// RegionNames returns all region names in sorted order.
func (a *Atlas) RegionNames() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubImage returns the page sub-image for a region, or nil if the region's
// page is missing.
func (a *Atlas) SubImage(r TextureRegion) *ebiten.Image {
	if int(r.Page) >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil
	}
	return a.Pages[r.Page].SubImage(image.Rect(
		int(r.X), int(r.Y),
		int(r.X)+int(r.Width), int(r.Y)+int(r.Height),
	)).(*ebiten.Image)
}

// LoadAtlas parses TexturePacker JSON and associates the given page images.
// Both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists) are supported.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("loom: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion),
	}

	switch {
	case probe.Textures != nil:
		var texturePages []tpTexturePage
		if err := json.Unmarshal(probe.Textures, &texturePages); err != nil {
			return nil, fmt.Errorf("loom: failed to parse atlas textures array: %w", err)
		}
		for i, page := range texturePages {
			for name, f := range page.Frames {
				atlas.regions[name] = tpFrameToRegion(f, uint16(i))
			}
		}
	case probe.Frames != nil:
		var frames map[string]tpFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("loom: failed to parse atlas frames: %w", err)
		}
		for name, f := range frames {
			atlas.regions[name] = tpFrameToRegion(f, 0)
		}
	default:
		return nil, fmt.Errorf("loom: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	return atlas, nil
}

// --- TexturePacker JSON structure types ---

type tpRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type tpSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type tpFrame struct {
	Frame            tpRect `json:"frame"`
	Rotated          bool   `json:"rotated"`
	Trimmed          bool   `json:"trimmed"`
	SpriteSourceSize tpRect `json:"spriteSourceSize"`
	SourceSize       tpSize `json:"sourceSize"`
}

type tpTexturePage struct {
	Image  string             `json:"image"`
	Frames map[string]tpFrame `json:"frames"`
}

func tpFrameToRegion(f tpFrame, page uint16) TextureRegion {
	return TextureRegion{
		Page:      page,
		X:         uint16(f.Frame.X),
		Y:         uint16(f.Frame.Y),
		Width:     uint16(f.Frame.W),
		Height:    uint16(f.Frame.H),
		OriginalW: uint16(f.SourceSize.W),
		OriginalH: uint16(f.SourceSize.H),
		OffsetX:   int16(f.SpriteSourceSize.X),
		OffsetY:   int16(f.SpriteSourceSize.Y),
		Rotated:   f.Rotated,
	}
}
