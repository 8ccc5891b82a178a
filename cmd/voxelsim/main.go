package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/app"
	"github.com/annel0/voxelwalk/internal/config"
	"github.com/annel0/voxelwalk/internal/logging"
	"github.com/annel0/voxelwalk/internal/metrics"
	"github.com/annel0/voxelwalk/internal/sim"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (default: $VOXELWALK_CONFIG)")
		script     = flag.String("script", "", "YAML input script (overrides simulation.script)")
		maxTicks   = flag.Uint64("ticks", 0, "Stop after N ticks (overrides simulation.max_ticks)")
		realtime   = flag.Bool("realtime", false, "Pace ticks with the wall clock instead of running headless")
		withMetric = flag.Bool("metrics", false, "Expose Prometheus /metrics (overrides metrics.enabled)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logOpts := logging.Options{Dir: cfg.Logging.Dir, ConsoleLevel: consoleLevel, FileLevel: fileLevel, Console: os.Stdout}
	if err := logging.InitLogger(logOpts); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseLogger()
	logging.GetLoggerManager().Configure(logOpts)
	defer logging.GetLoggerManager().CloseAll()

	logging.LogInfo("🎮 Запуск симуляции voxelwalk...")

	volume, source, err := app.BuildVolume(cfg.Volume)
	if err != nil {
		logging.LogError("❌ Ошибка построения объёма: %v", err)
		os.Exit(1)
	}

	ctrl, err := app.NewController(cfg, volume)
	if err != nil {
		logging.LogError("❌ Ошибка создания агента: %v", err)
		os.Exit(1)
	}

	// Источник ввода: сценарий или стояние на месте
	var input sim.InputSource = &sim.ConstantInput{Input: agent.Input{}}
	scriptPath := cfg.Simulation.Script
	if *script != "" {
		scriptPath = *script
	}
	if scriptPath != "" {
		si, err := sim.LoadScript(scriptPath)
		if err != nil {
			logging.LogError("❌ Ошибка загрузки сценария: %v", err)
			os.Exit(1)
		}
		input = si
		logging.LogInfo("📜 Сценарий %s: %d тиков", scriptPath, si.TotalTicks())
	}

	session := sim.NewSession()
	loop := &sim.Loop{
		Controller: ctrl,
		Input:      input,
		Observers:  []sim.Observer{session, sim.NewLogObserver(logging.GetSimLogger())},
		MaxTicks:   cfg.Simulation.MaxTicks,
	}
	if *maxTicks > 0 {
		loop.MaxTicks = *maxTicks
	}
	if *realtime {
		loop.FrameInterval = time.Duration(cfg.Simulation.TickInterval() * float64(time.Second))
		loop.MaxStep = 0.25
	} else {
		loop.FixedStep = cfg.Simulation.TickInterval()
		if loop.MaxTicks == 0 && scriptPath == "" {
			// Без сценария и ограничения headless-прогон не завершится
			loop.MaxTicks = uint64(cfg.Simulation.TickRate) * 10
		}
	}

	if *withMetric || cfg.Metrics.Enabled {
		exporter := metrics.NewExporter()
		loop.Observers = append(loop.Observers, exporter)
		loop.OnTickDuration = exporter.ObserveTickDuration
		exporter.StartHTTP(":" + strconv.Itoa(cfg.Metrics.GetMetricsPort()))
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			exporter.Stop(ctx)
		}()
	}

	logging.LogInfo("📡 Объём %s, агент в (%.2f, %.2f, %.2f), сессия %s",
		source, ctrl.Position().X, ctrl.Position().Y, ctrl.Position().Z, session.ID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := loop.Run(ctx)
	if err != nil {
		logging.LogError("❌ Симуляция прервана: %v", err)
		os.Exit(1)
	}

	logging.LogInfo("✅ Симуляция завершена (%s)", summary.Reason)
	logging.LogInfo("%s", session.Stats())
	logging.LogInfo("👋 Готово")
}
