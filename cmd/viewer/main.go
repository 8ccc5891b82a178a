package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxelwalk/internal/app"
	"github.com/annel0/voxelwalk/internal/config"
	"github.com/annel0/voxelwalk/internal/logging"
	"github.com/annel0/voxelwalk/internal/sim"
	"github.com/annel0/voxelwalk/internal/viewer"
	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $VOXELWALK_CONFIG)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Консоль занята экраном, поэтому логи пишутся только в файл
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		return err
	}
	logOpts := logging.Options{Dir: cfg.Logging.Dir, ConsoleLevel: logging.ERROR + 1, FileLevel: fileLevel, Console: os.Stderr}
	if err := logging.InitLogger(logOpts); err != nil {
		return err
	}
	defer logging.CloseLogger()
	logging.GetLoggerManager().Configure(logOpts)
	defer logging.GetLoggerManager().CloseAll()

	volume, _, err := app.BuildVolume(cfg.Volume)
	if err != nil {
		return err
	}
	ctrl, err := app.NewController(cfg, volume)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	input := viewer.NewKeyboardInput()
	done := make(chan struct{})
	defer close(done)
	go input.Listen(screen, done)

	session := sim.NewSession()
	loop := &sim.Loop{
		Controller:    ctrl,
		Input:         input,
		Renderer:      viewer.NewRenderer(screen, volume, input),
		Observers:     []sim.Observer{session, sim.NewLogObserver(logging.GetSimLogger())},
		FrameInterval: time.Duration(cfg.Simulation.TickInterval() * float64(time.Second)),
		MaxStep:       0.25,
		MaxTicks:      cfg.Simulation.MaxTicks,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := loop.Run(ctx)
	logging.LogInfo("Viewer stopped (%s): %s", summary.Reason, session.Stats())
	return err
}
