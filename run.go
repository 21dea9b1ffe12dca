package loom

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

type game struct {
	stage   *Stage
	width   int
	height  int
	showFPS bool
	clear   color.RGBA
}

func (g *game) Update() error {
	g.stage.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.clear)
	g.stage.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
			ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run creates a window and drives the stage with a minimal game loop:
// Stage.Update every tick, clear plus Stage.Draw every frame. Blocks until
// the window closes. For full control implement [ebiten.Game] yourself and
// call [Stage.Update] and [Stage.Draw] directly.
func Run(stage *Stage, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)

	c := stage.ClearColor
	return ebiten.RunGame(&game{
		stage:   stage,
		width:   cfg.Width,
		height:  cfg.Height,
		showFPS: cfg.ShowFPS,
		clear: color.RGBA{
			R: uint8(c.R * 255),
			G: uint8(c.G * 255),
			B: uint8(c.B * 255),
			A: uint8(c.A * 255),
		},
	})
}
