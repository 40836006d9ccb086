// Package engine runs the wheel: input, frame ticks, popup timing and drawing.
// A Game is confined to one goroutine; Run is that goroutine in production and
// tests drive HandleEvent and Update directly.
package engine

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/prize-wheel/asset"
	"github.com/lixenwraith/prize-wheel/config"
	"github.com/lixenwraith/prize-wheel/render"
	"github.com/lixenwraith/prize-wheel/spin"
	"github.com/lixenwraith/prize-wheel/wheel"
)

// FrameInterval is the tick period, roughly 60 frames per second
const FrameInterval = 16 * time.Millisecond

// Sound is the part of the audio manager the game drives
type Sound interface {
	PlayClick()
	PlayWin()
}

type silent struct{}

func (silent) PlayClick() {}
func (silent) PlayWin()   {}

// Deps are the collaborators injected into a Game; nil fields get defaults
type Deps struct {
	Source spin.Source
	Clock  TimeProvider
	Sound  Sound
	Logger *zap.Logger
}

// NewSource returns a PCG-backed spin source; seed 0 draws a seed from the runtime
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Game owns the wheel model, the spin state, popup timing and loaded images
type Game struct {
	model    *wheel.Model
	state    spin.State
	params   spin.Params
	src      spin.Source
	clock    TimeProvider
	sound    Sound
	logger   *zap.Logger
	renderer *render.WheelRenderer

	labels []string
	colors []tcell.Color
	images []*asset.Image

	biasStep   float64
	popupDelay time.Duration

	// Popup lifecycle: winner is set on settle, due until popupAt passes, then shown
	winner   int
	popupDue bool
	popupAt  time.Time
	shown    bool

	width, height int
	lastButtons   tcell.ButtonMask
	spins         int
}

// NewGame builds a game from a validated config
func NewGame(cfg *config.Config, deps Deps) *Game {
	if deps.Source == nil {
		deps.Source = NewSource(cfg.Seed)
	}
	if deps.Clock == nil {
		deps.Clock = NewMonotonicTimeProvider()
	}
	if deps.Sound == nil {
		deps.Sound = silent{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	specs := make([]string, len(cfg.Slices))
	for i, s := range cfg.Slices {
		specs[i] = s.Color
	}

	return &Game{
		model:      wheel.NewModel(cfg.WheelVariant(), cfg.Bias),
		params:     cfg.SpinParams(),
		src:        deps.Source,
		clock:      deps.Clock,
		sound:      deps.Sound,
		logger:     deps.Logger,
		renderer:   render.NewWheelRenderer(cfg.ImageWidth),
		labels:     cfg.Labels(),
		colors:     render.SliceColors(specs),
		images:     make([]*asset.Image, len(cfg.Slices)),
		biasStep:   cfg.BiasStep,
		popupDelay: cfg.EffectivePopupDelay(),
		winner:     -1,
	}
}

// Spin starts a spin over the current layout; ignored while one is running
func (g *Game) Spin() bool {
	next, ok := spin.Start(g.state, g.model.Slices(), g.src, g.params)
	if !ok {
		g.logger.Debug("spin ignored, wheel already spinning")
		return false
	}
	g.state = next
	g.spins++
	g.hidePopup()

	g.logger.Debug("spin started",
		zap.Int("spin", g.spins),
		zap.Float64("speed", next.Speed),
		zap.Float64("target", next.Plan.Target),
		zap.Int("turns", next.Plan.Turns),
		zap.Float64("bias", g.model.Bias()),
	)
	return true
}

// AdjustBias moves the bias by delta, clamped to [-1, 1]
func (g *Game) AdjustBias(delta float64) bool {
	return g.SetBias(g.model.Bias() + delta)
}

// SetBias recomputes the layout; an in-flight spin keeps its own snapshot
func (g *Game) SetBias(bias float64) bool {
	if g.model.Variant() != wheel.VariantBiased {
		return false
	}
	bias = math.Round(math.Max(-1, math.Min(1, bias))*1e6) / 1e6
	if !g.model.SetBias(bias) {
		return false
	}
	g.logger.Debug("bias changed", zap.Float64("bias", bias), zap.Bool("spinning", g.state.Spinning))
	return true
}

// Update advances one frame at now
func (g *Game) Update(now time.Time) {
	if g.state.Spinning {
		prev := g.state.Rotation
		next, settled := spin.Tick(g.state, g.params)
		if !settled && spin.Crossings(prev, next.Rotation, next.Plan.Slices, g.params.Needle) > 0 {
			g.sound.PlayClick()
		}
		g.state = next
		if settled {
			g.settle(now)
		}
	}

	if g.popupDue && !now.Before(g.popupAt) {
		g.popupDue = false
		g.shown = true
	}
}

func (g *Game) settle(now time.Time) {
	res, ok := spin.Resolve(g.state)
	if !ok {
		g.logger.Error("settled spin has no winner", zap.Int("spin", g.spins))
		return
	}

	g.logger.Info("spin settled",
		zap.Int("spin", g.spins),
		zap.Int("winner", res.Index),
		zap.String("label", g.label(res.Index)),
		zap.Float64("rotation", res.Rotation),
		zap.Int("ticks", res.Ticks),
		zap.Stringer("policy", g.params.Policy),
	)
	g.sound.PlayWin()

	g.winner = res.Index
	g.popupDue = true
	g.popupAt = now.Add(g.popupDelay)
}

func (g *Game) hidePopup() {
	g.popupDue = false
	g.shown = false
}

// ApplyImage stores a loaded image or logs why the slice has none
func (g *Game) ApplyImage(r asset.Result) {
	if r.Index < 0 || r.Index >= len(g.images) {
		return
	}
	switch {
	case r.Err == nil:
		g.images[r.Index] = r.Image
		g.logger.Debug("image loaded", zap.Int("slice", r.Index), zap.String("path", r.Path))
	case r.Path == "":
	default:
		g.logger.Warn("image load failed", zap.Int("slice", r.Index), zap.String("path", r.Path), zap.Error(r.Err))
	}
}

// HandleEvent applies one terminal event; false means quit
func (g *Game) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKey(ev)
	case *tcell.EventMouse:
		g.handleMouse(ev)
	case *tcell.EventResize:
		g.width, g.height = ev.Size()
	}
	return true
}

func (g *Game) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		if r := ev.Rune(); r == 'q' || r == 'Q' {
			return false
		}
	}

	if g.shown {
		g.hidePopup()
		return true
	}

	switch ev.Key() {
	case tcell.KeyEnter:
		g.Spin()
	case tcell.KeyLeft:
		g.AdjustBias(-g.biasStep)
	case tcell.KeyRight:
		g.AdjustBias(g.biasStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ', 's', 'S':
			g.Spin()
		case 'h':
			g.AdjustBias(-g.biasStep)
		case 'l':
			g.AdjustBias(g.biasStep)
		case '0':
			g.SetBias(0)
		}
	}
	return true
}

// handleMouse reacts to the press edge of the primary button only
func (g *Game) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && g.lastButtons&tcell.Button1 == 0
	g.lastButtons = buttons
	if !pressed {
		return
	}

	if g.shown {
		g.hidePopup()
		return
	}
	x, y := ev.Position()
	if render.Layout(g.width, g.height).Contains(x, y) {
		g.Spin()
	}
}

// Scene snapshots the frame for the renderer
func (g *Game) Scene() render.Scene {
	s := render.Scene{
		Rotation: g.state.Rotation,
		Slices:   g.model.Slices(),
		Colors:   g.colors,
		Labels:   g.labels,
		Images:   g.images,
		Needle:   g.params.Needle,
		Variant:  g.model.Variant(),
		Bias:     g.model.Bias(),
		Spinning: g.state.Spinning,
	}
	if g.shown {
		s.Popup = &render.Popup{Label: g.label(g.winner), Image: g.image(g.winner)}
	}
	return s
}

// Draw renders the current scene onto c
func (g *Game) Draw(c render.Canvas) {
	g.width, g.height = c.Size()
	g.renderer.Render(c, g.Scene())
}

// Spinning reports whether a spin is in progress
func (g *Game) Spinning() bool {
	return g.state.Spinning
}

// Popup returns the winner index while the popup is visible
func (g *Game) Popup() (int, bool) {
	return g.winner, g.shown
}

// Result returns the last settled spin
func (g *Game) Result() (spin.Result, bool) {
	return spin.Resolve(g.state)
}

// Bias returns the current bias
func (g *Game) Bias() float64 {
	return g.model.Bias()
}

func (g *Game) label(i int) string {
	if i < 0 || i >= len(g.labels) {
		return ""
	}
	return g.labels[i]
}

func (g *Game) image(i int) *asset.Image {
	if i < 0 || i >= len(g.images) {
		return nil
	}
	return g.images[i]
}
