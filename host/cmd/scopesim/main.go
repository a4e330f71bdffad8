//go:build !tinygo

// Command scopesim runs the oscilloscope firmware in a desktop window.
// Keys 1-4 are the front panel buttons; Tab switches the input between
// the sine and ramp outputs.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"goscope/core"
	"goscope/host/monitor"
	"goscope/sim"
)

var (
	scale   = flag.Int("scale", 4, "Window scale factor")
	step    = flag.Duration("step", 100*time.Microsecond, "Virtual time per foreground loop pass")
	speed   = flag.Float64("speed", 1, "Virtual seconds per real second")
	addr    = flag.String("http", "", "Serve the trace monitor at this address (e.g. :8000)")
	verbose = flag.Bool("verbose", false, "Log every firmware debug line")
)

var buttonKeys = [core.NumButtons]ebiten.Key{
	ebiten.KeyDigit1,
	ebiten.KeyDigit2,
	ebiten.KeyDigit3,
	ebiten.KeyDigit4,
}

type scopeGame struct {
	board   *sim.Board
	img     *ebiten.Image
	pix     []byte
	perTick time.Duration
	ramp    bool
	title   string
}

func (g *scopeGame) Update() error {
	for i, key := range buttonKeys {
		g.board.GPIO.Hold(sim.ButtonPins[i], ebiten.IsKeyPressed(key))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.ramp = !g.ramp
		if g.ramp {
			g.board.Input.SetProbe(g.board.Signal.RampProbe)
		} else {
			g.board.Input.SetProbe(g.board.Signal.Sine)
		}
	}
	g.board.Run(g.perTick, *step)
	title := "goscope " + core.TimebaseLabel(g.board.Scope.Timebase().Current()) +
		" " + core.FormatHz(g.board.Scope.SignalGenerator().Frequency())
	if title != g.title {
		ebiten.SetWindowTitle(title)
		g.title = title
	}
	return nil
}

func (g *scopeGame) Draw(screen *ebiten.Image) {
	g.board.Display.WriteRGBA(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *scopeGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return core.ScreenWidth, core.ScreenHeight
}

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	monLogger := logger
	if !*verbose {
		monLogger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
	}
	mon := monitor.New(monitor.DefaultConfig(), monLogger)

	board := sim.NewBoard()
	// The firmware's trace link goes straight into the monitor.
	board.Scope.Tracer().SetOutput(func(frame []byte) error {
		mon.Feed(frame)
		return nil
	})
	core.SetDebugWriter(board.Scope.Tracer().Log)
	core.SetDebugEnabled(true)
	mon.Feed([]byte{0x7e})
	mon.SetConnected(true)

	if err := board.Init(); err != nil {
		logger.Fatal("scope init failed", zap.Error(err))
	}

	if *addr != "" {
		go func() {
			logger.Info("serving monitor", zap.String("addr", *addr))
			if err := http.ListenAndServe(*addr, mon.Router()); err != nil {
				logger.Error("monitor server stopped", zap.Error(err))
			}
		}()
	}

	const tps = 60
	g := &scopeGame{
		board:   board,
		img:     ebiten.NewImage(core.ScreenWidth, core.ScreenHeight),
		pix:     make([]byte, core.ScreenWidth*core.ScreenHeight*4),
		perTick: time.Duration(float64(time.Second) * *speed / tps),
	}
	ebiten.SetWindowSize(core.ScreenWidth**scale, core.ScreenHeight**scale)
	ebiten.SetTPS(tps)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("window closed with error", zap.Error(err))
	}
}
