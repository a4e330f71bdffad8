// Command scopemon follows the oscilloscope's USB trace link and serves
// its state over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"go.uber.org/zap"

	"goscope/host/monitor"
	"goscope/host/serial"
	"goscope/protocol"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number, injected via ldflags for releases
	Version = "0.3"

	// ConfigFileName is read from the working directory
	ConfigFileName = "scopemon.yml"
	k              = koanf.New(".")
)

func setupconfig() {
	k.Load(structs.Provider(monitor.DefaultConfig(), "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such") {
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func loadconf() monitor.Config {
	c := monitor.Config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	return c
}

func root() {
	str := `scopemon reads the trace frames the oscilloscope sends over USB and
serves the latest timebase, frequency and sweep rate as JSON.

Usage:
	scopemon <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `scopemon is configured by scopemon.yml in the working directory.
"scopemon mkconf" writes one holding the defaults.

Endpoints:
	GET /status   link state, timebase, frequency, sweep counters
	GET /log?n=N  the last N firmware debug lines

The port is reopened with exponential backoff whenever the scope is
unplugged or reset.`
	fmt.Println(str)
}

func mkconf() {
	c := loadconf()
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := yml.NewEncoder(f).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := loadconf()
	if err := yml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("scopemon version %v, trace format %v\n", Version, protocol.Version)
}

func run() {
	c := loadconf()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := monitor.New(c, logger)
	open := serial.OpenerFor(&serial.Config{
		Device:      c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout(),
	})
	go func() {
		if err := m.Run(ctx, open, c.MaxRetryInterval()); err != nil {
			logger.Error("trace link stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{Addr: c.Addr, Handler: m.Router()}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	logger.Info("now listening for requests", zap.String("addr", c.Addr), zap.String("device", c.Device))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	switch strings.ToLower(args[1]) {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
