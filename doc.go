// Package loom is a Flump movie runtime and lightweight 2D scene graph for
// [Ebitengine].
//
// Loom plays vector animations exported by the [Flump] tool: movies made of
// layers, layers made of keyframes, keyframes carrying transform and symbol
// state that is tweened across intervening frames. Alongside the movie
// runtime it provides the small display-object tree (containers, sprites,
// movie nodes), TexturePacker atlas regions, sprite-sheet frame sequences,
// and pointer-event routing that a canvas-style 2D app needs.
//
// # Quick start
//
//	lib, err := loom.LoadLibrary(libraryJSON, pages)
//	if err != nil {
//		log.Fatal(err)
//	}
//	movie, err := lib.NewMovie("walk")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	stage := loom.NewStage()
//	stage.Root().AddChild(loom.NewMovieNode("hero", movie, lib.FrameRate))
//
// Then let [Run] create the window and game loop:
//
//	loom.Run(stage, loom.RunConfig{Title: "Hero", Width: 640, Height: 480})
//
// or, for full control, drive the stage from your own [ebiten.Game]:
//
//	func (g *Game) Update() error        { g.stage.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.stage.Draw(s) }
//
// # Movies
//
// A [Library] holds the immutable symbol definitions parsed from Flump's
// library.json: [MovieSymbol] for animated symbols and [TexturePiece] for
// static atlas textures. Definitions are shared; [Library.NewMovie] creates
// an independent playback instance each call. A [Movie] advances with
// OnTick (delta measured in frames), seeks by label with GotoAndPlay and
// GotoAndStop, and composites its layers back-to-front onto a [Surface].
//
// Nested movies referenced by keyframes are instantiated automatically and
// run their own autonomous frame cursors, driven by the parent's ticks.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Stage.Root]; children inherit their parent's transform and alpha.
// Create nodes with the typed constructors [NewContainer], [NewSprite],
// [NewAnimatedSprite], and [NewMovieNode].
//
// Procedural tweens over node fields are provided via [gween]; Flump's own
// keyframe easing is baked into exported assets and evaluated by the movie
// runtime itself.
//
// [Ebitengine]: https://ebitengine.org
// [Flump]: https://github.com/tconkling/flump
// [gween]: https://github.com/tanema/gween
package loom
