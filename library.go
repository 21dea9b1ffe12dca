package loom

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Library is the registry of symbol definitions for one loaded Flump
// export: movie symbols and texture pieces keyed by name, plus the export's
// authored frame rate. Definitions are immutable; a library persists until
// discarded and may back any number of concurrently playing movies.
type Library struct {
	// FrameRate is frames per second as authored in the export. Hosts use
	// it to convert wall-clock deltas to frame deltas.
	FrameRate float64

	movies   map[string]*MovieSymbol
	textures map[string]*TexturePiece
}

// NewLibrary creates an empty library. Symbols are added with AddMovie and
// AddTexture, or in bulk by LoadLibrary.
func NewLibrary() *Library {
	return &Library{
		movies:   make(map[string]*MovieSymbol),
		textures: make(map[string]*TexturePiece),
	}
}

// AddMovie registers a movie symbol under its name, replacing any previous
// symbol with that name.
func (lib *Library) AddMovie(sym *MovieSymbol) {
	lib.movies[sym.Name] = sym
}

// AddTexture registers a texture piece under its name, replacing any
// previous symbol with that name.
func (lib *Library) AddTexture(t *TexturePiece) {
	lib.textures[t.Name] = t
}

// MovieSymbol looks up a movie definition by name.
func (lib *Library) MovieSymbol(name string) (*MovieSymbol, bool) {
	sym, ok := lib.movies[name]
	return sym, ok
}

// Texture looks up a texture piece by name.
func (lib *Library) Texture(name string) (*TexturePiece, bool) {
	t, ok := lib.textures[name]
	return t, ok
}

// NewMovie instantiates an independent playback instance of a named movie
// symbol, recursively instantiating every symbol its keyframes reference.
// Returns an error wrapping ErrUnknownSymbol if the name (or any nested
// reference) is not in the library.
func (lib *Library) NewMovie(name string) (*Movie, error) {
	sym, ok := lib.movies[name]
	if !ok {
		return nil, fmt.Errorf("loom: no movie %q in library: %w", name, ErrUnknownSymbol)
	}
	return newMovie(sym, lib)
}

// NewInstance instantiates a named symbol as a layer child: a fresh Movie
// for movie symbols, the shared immutable TexturePiece for textures.
func (lib *Library) NewInstance(name string) (Instance, error) {
	if sym, ok := lib.movies[name]; ok {
		return newMovie(sym, lib)
	}
	if t, ok := lib.textures[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("loom: no symbol %q in library: %w", name, ErrUnknownSymbol)
}

// --- Flump library.json loading ---

// LoadLibrary parses a Flump library.json export and associates the given
// atlas page images (one per atlas in the export's first texture group, in
// order). pages may be nil or short for headless use; texture pieces then
// carry metadata only.
//
// Malformed keyframe sequences are rejected at this point, so playback
// never has to re-validate.
func LoadLibrary(jsonData []byte, pages []*ebiten.Image) (*Library, error) {
	var doc jsonLibrary
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("loom: failed to parse library JSON: %w", err)
	}

	lib := NewLibrary()
	lib.FrameRate = doc.FrameRate
	if lib.FrameRate <= 0 {
		lib.FrameRate = 30
	}

	if len(doc.TextureGroups) > 0 {
		page := uint16(0)
		for _, atlas := range doc.TextureGroups[0].Atlases {
			var pageImg *ebiten.Image
			if int(page) < len(pages) {
				pageImg = pages[page]
			}
			for _, tex := range atlas.Textures {
				piece, err := textureFromJSON(tex, page, pageImg)
				if err != nil {
					return nil, err
				}
				lib.AddTexture(piece)
			}
			page++
		}
	}

	for _, movie := range doc.Movies {
		sym, err := movieFromJSON(movie)
		if err != nil {
			return nil, err
		}
		lib.AddMovie(sym)
	}

	return lib, nil
}

// --- JSON structure types ---

type jsonLibrary struct {
	FrameRate     float64            `json:"frameRate"`
	Movies        []jsonMovie        `json:"movies"`
	TextureGroups []jsonTextureGroup `json:"textureGroups"`
}

type jsonMovie struct {
	ID     string      `json:"id"`
	Layers []jsonLayer `json:"layers"`
}

type jsonLayer struct {
	Name      string         `json:"name"`
	Keyframes []jsonKeyframe `json:"keyframes"`
}

// jsonKeyframe mirrors Flump's keyframe serialization. Fields at their
// authoring-tool defaults are omitted from the export, hence the pointers:
// absent scale is 1, absent alpha is 1, absent visible and tweened are true.
type jsonKeyframe struct {
	Index    *int      `json:"index"`
	Duration int       `json:"duration"`
	Ref      string    `json:"ref"`
	Loc      []float64 `json:"loc"`
	Scale    []float64 `json:"scale"`
	Skew     []float64 `json:"skew"`
	Pivot    []float64 `json:"pivot"`
	Alpha    *float64  `json:"alpha"`
	Visible  *bool     `json:"visible"`
	Tweened  *bool     `json:"tweened"`
	Ease     float64   `json:"ease"`
	Label    string    `json:"label"`
}

type jsonTextureGroup struct {
	ScaleFactor float64     `json:"scaleFactor"`
	Atlases     []jsonAtlas `json:"atlases"`
}

type jsonAtlas struct {
	File     string        `json:"file"`
	Textures []jsonTexture `json:"textures"`
}

type jsonTexture struct {
	Symbol string    `json:"symbol"`
	Rect   []float64 `json:"rect"`
	Origin []float64 `json:"origin"`
}

func movieFromJSON(jm jsonMovie) (*MovieSymbol, error) {
	layers := make([]*Layer, 0, len(jm.Layers))
	for _, jl := range jm.Layers {
		keyframes := make([]Keyframe, 0, len(jl.Keyframes))
		nextIndex := 0
		for _, jk := range jl.Keyframes {
			kf := keyframeFromJSON(jk, nextIndex)
			nextIndex = kf.Index + kf.Duration
			keyframes = append(keyframes, kf)
		}
		layer, err := NewLayer(jl.Name, keyframes)
		if err != nil {
			return nil, fmt.Errorf("loom: movie %q: %w", jm.ID, err)
		}
		layers = append(layers, layer)
	}
	return NewMovieSymbol(jm.ID, layers), nil
}

func keyframeFromJSON(jk jsonKeyframe, runningIndex int) Keyframe {
	kf := Keyframe{
		Index:    runningIndex,
		Duration: jk.Duration,
		Tweened:  true,
		ScaleX:   1,
		ScaleY:   1,
		Alpha:    1,
		Visible:  true,
		Ease:     jk.Ease,
		Ref:      jk.Ref,
		Label:    jk.Label,
	}
	if jk.Index != nil {
		kf.Index = *jk.Index
	}
	if len(jk.Loc) == 2 {
		kf.X, kf.Y = jk.Loc[0], jk.Loc[1]
	}
	if len(jk.Scale) == 2 {
		kf.ScaleX, kf.ScaleY = jk.Scale[0], jk.Scale[1]
	}
	if len(jk.Skew) == 2 {
		kf.SkewX, kf.SkewY = jk.Skew[0], jk.Skew[1]
	}
	if len(jk.Pivot) == 2 {
		kf.PivotX, kf.PivotY = jk.Pivot[0], jk.Pivot[1]
	}
	if jk.Alpha != nil {
		kf.Alpha = *jk.Alpha
	}
	if jk.Visible != nil {
		kf.Visible = *jk.Visible
	}
	if jk.Tweened != nil {
		kf.Tweened = *jk.Tweened
	}
	return kf
}

func textureFromJSON(jt jsonTexture, page uint16, pageImg *ebiten.Image) (*TexturePiece, error) {
	if len(jt.Rect) != 4 {
		return nil, fmt.Errorf("loom: texture %q: rect must have 4 elements, got %d", jt.Symbol, len(jt.Rect))
	}
	region := TextureRegion{
		Page:      page,
		X:         uint16(jt.Rect[0]),
		Y:         uint16(jt.Rect[1]),
		Width:     uint16(jt.Rect[2]),
		Height:    uint16(jt.Rect[3]),
		OriginalW: uint16(jt.Rect[2]),
		OriginalH: uint16(jt.Rect[3]),
	}
	var origin Vec2
	if len(jt.Origin) == 2 {
		origin = Vec2{X: jt.Origin[0], Y: jt.Origin[1]}
	}
	var img *ebiten.Image
	if pageImg != nil {
		img = pageImg.SubImage(image.Rect(
			int(region.X), int(region.Y),
			int(region.X)+int(region.Width), int(region.Y)+int(region.Height),
		)).(*ebiten.Image)
	}
	return NewTexturePiece(jt.Symbol, region, origin, img), nil
}
