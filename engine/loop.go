package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/prize-wheel/asset"
)

const eventBuffer = 64

// Run drives the game on screen until a quit key, ctx cancellation or an input
// goroutine panic. images may be nil; it is drained as results arrive.
func (g *Game) Run(ctx context.Context, screen tcell.Screen, images <-chan asset.Result) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, eventBuffer)
	crashed := make(chan error, 1)
	go g.pollEvents(ctx, screen, events, crashed)

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	g.Draw(screen)
	screen.Show()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-crashed:
			return err

		case ev := <-events:
			if !g.HandleEvent(ev) {
				g.logger.Info("quit requested", zap.Int("spins", g.spins))
				return nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
			}

		case r, ok := <-images:
			if !ok {
				images = nil
				continue
			}
			g.ApplyImage(r)

		case <-ticker.C:
			g.Update(g.clock.Now())
			g.Draw(screen)
			screen.Show()
		}
	}
}

// pollEvents feeds terminal events to the loop; PollEvent returns nil after Fini
func (g *Game) pollEvents(ctx context.Context, screen tcell.Screen, out chan<- tcell.Event, crashed chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("input goroutine panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			crashed <- fmt.Errorf("input panic: %v", r)
		}
	}()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
