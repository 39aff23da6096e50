// Package gui opens the show in a raylib window.
package gui

import (
	"fmt"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/countdown/internal/audio"
	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/raster"
	"github.com/san-kum/countdown/internal/show"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Glyph atlas size; text is scaled from it.
const atlasSize = 128

// Options control the window, not the show.
type Options struct {
	Fullscreen bool
	Title      string
	HUD        bool
}

type App struct {
	Show   *show.Show
	Surf   *Surface
	Audio  *audio.Player
	Config *config.Config
	Opts   Options

	// Frames persist between refreshes so the translucent clear leaves
	// trails.
	TargetTex rl.RenderTexture2D
}

func initWindow(cfg *config.Config, opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Viewport.Width), int32(cfg.Viewport.Height), opts.Title)
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(0)
	if opts.Fullscreen {
		rl.ToggleFullscreen()
	}
}

// codepoints covers printable ASCII, Latin-1 and the few symbols the show
// draws.
func codepoints() []rune {
	var cps []rune
	for r := rune(32); r < 256; r++ {
		if r < 127 || r > 160 {
			cps = append(cps, r)
		}
	}
	return append(cps, '♥', '✦', '…', '—')
}

// loadFonts reads the configured font, falling back to the Go fonts.
func loadFonts(path string) (regular, bold rl.Font) {
	if path != "" {
		f := rl.LoadFontEx(path, atlasSize, codepoints())
		if f.Texture.ID != 0 {
			rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
			return f, f
		}
		log.Printf("[GUI] font %s unavailable, using Go fonts", path)
	}
	regular = rl.LoadFontFromMemory(".ttf", goregular.TTF, atlasSize, codepoints())
	bold = rl.LoadFontFromMemory(".ttf", gobold.TTF, atlasSize, codepoints())
	rl.SetTextureFilter(regular.Texture, rl.FilterBilinear)
	rl.SetTextureFilter(bold.Texture, rl.FilterBilinear)
	return regular, bold
}

// NewApp must be called after the window is open.
func NewApp(cfg *config.Config, target time.Time, opts Options) (*App, error) {
	ras, err := raster.New(cfg.Text.FontPath)
	if err != nil {
		return nil, err
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	regular, bold := loadFonts(cfg.Text.FontPath)
	surf := &Surface{W: w, H: h, Regular: regular, Bold: bold, alpha: 1}

	a := &App{
		Show:      show.New(cfg, director.SystemClock{}, target, ras, surf, w, h),
		Surf:      surf,
		Audio:     audio.NewPlayer(cfg.Audio.Volume),
		Config:    cfg,
		Opts:      opts,
		TargetTex: rl.LoadRenderTexture(int32(w), int32(h)),
	}
	a.Show.Hooks = show.Hooks{
		OnStart: func() {
			if cfg.Audio.Enabled {
				a.Audio.Play()
			}
		},
		OnDetonate: a.Audio.Chime,
		OnHeart:    func(text string) { log.Printf("[GUI] heart: %s", text) },
	}
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, target time.Time, opts Options) error {
	if opts.Title == "" {
		opts.Title = "countdown"
	}
	initWindow(cfg, opts)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, target, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			return nil
		}
		if err := a.Show.Frame(); err != nil {
			return err
		}
		a.Draw()
	}
	return nil
}

func (a *App) Close() {
	a.Audio.Stop()
	rl.UnloadRenderTexture(a.TargetTex)
	rl.UnloadFont(a.Surf.Regular)
	if a.Surf.Bold.Texture.ID != a.Surf.Regular.Texture.ID {
		rl.UnloadFont(a.Surf.Bold)
	}
}

// Update handles window and input events. It reports whether to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeyF) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.Opts.HUD = !a.Opts.HUD
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.Show.Activate()
	}
	if rl.IsKeyPressed(rl.KeyD) {
		a.Show.DragAllWishes()
	}

	if rl.IsWindowResized() || rl.IsWindowFullscreen() && rl.GetScreenWidth() != a.Surf.W {
		a.resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	a.pointer()
	a.swell()
	return false
}

// pointer feeds mouse or the first touch point to the show.
func (a *App) pointer() {
	p := rl.GetMousePosition()
	touching := rl.GetTouchPointCount() > 0
	if touching {
		p = rl.GetTouchPosition(0)
	}
	at := dynamoVec(p)

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		a.Show.PointerDown(at)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		a.Show.PointerUp(at)
	default:
		a.Show.PointerMove(at)
	}
}

// swell raises the music over the final minute.
func (a *App) swell() {
	r := a.Show.Director().Remaining()
	a.Audio.SetIntensity(1 - r.Seconds()/60)
}

func (a *App) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Surf.W, a.Surf.H = w, h
	rl.UnloadRenderTexture(a.TargetTex)
	a.TargetTex = rl.LoadRenderTexture(int32(w), int32(h))
	a.Show.Resize(w, h)
}

func (a *App) Draw() {
	rl.BeginTextureMode(a.TargetTex)
	a.Show.Draw(a.Surf)
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	// Render textures are stored upside down.
	src := rl.NewRectangle(0, 0, float32(a.TargetTex.Texture.Width), -float32(a.TargetTex.Texture.Height))
	rl.DrawTextureRec(a.TargetTex.Texture, src, rl.NewVector2(0, 0), rl.White)
	if a.Opts.HUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	d := a.Show.Director()
	line := fmt.Sprintf("%s  %s  %d particles  %d FPS", d.Phase(), director.FormatRemaining(d.Remaining()),
		a.Show.Field().Len(), rl.GetFPS())
	rl.DrawTextEx(a.Surf.Regular, line, rl.NewVector2(12, float32(a.Surf.H-24)), 14, spacing, rl.NewColor(140, 140, 140, 255))
}
