package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter инкапсулирует Prometheus-метрики симуляции агента.
// Метрики обновляются наблюдателем OnTick, HTTP-эндпоинт поднимается отдельно.
type Exporter struct {
	registry *prometheus.Registry
	server   *http.Server
	logger   *logging.Logger

	ticks       prometheus.Counter
	skipped     prometheus.Counter
	transitions *prometheus.CounterVec
	collisions  *prometheus.CounterVec
	slides      prometheus.Counter
	clamps      prometheus.Counter
	height      prometheus.Gauge
	velocity    prometheus.Gauge
	grounded    prometheus.Gauge
	tickSeconds prometheus.Histogram
}

// NewExporter создаёт экспортер с собственным регистром, но не запускает HTTP-сервер.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		logger:   logging.GetMetricsLogger(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelwalk",
			Name:      "ticks_total",
			Help:      "Общее число выполненных тиков симуляции.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelwalk",
			Name:      "ticks_skipped_total",
			Help:      "Тиков, пропущенных из-за недопустимого шага времени.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelwalk",
			Name:      "agent_transitions_total",
			Help:      "Переходы между состояниями опоры (прыжок, приземление, потеря опоры).",
		}, []string{"transition"}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelwalk",
			Name:      "collisions_total",
			Help:      "Разрешённые столкновения по типу.",
		}, []string{"kind"}),
		slides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelwalk",
			Name:      "wall_slides_total",
			Help:      "Тиков со скольжением вдоль стены.",
		}),
		clamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelwalk",
			Name:      "terrain_clamps_total",
			Help:      "Срабатываний страховки по высоте колонки.",
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxelwalk",
			Name:      "agent_height",
			Help:      "Высота ступней агента.",
		}),
		velocity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxelwalk",
			Name:      "agent_vertical_velocity",
			Help:      "Вертикальная скорость агента.",
		}),
		grounded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxelwalk",
			Name:      "agent_grounded",
			Help:      "1, если агент стоит на опоре.",
		}),
		tickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelwalk",
			Name:      "tick_duration_seconds",
			Help:      "Время вычисления одного тика.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}

	e.registry.MustRegister(
		e.ticks, e.skipped, e.transitions, e.collisions, e.slides,
		e.clamps, e.height, e.velocity, e.grounded, e.tickSeconds,
	)
	return e
}

// Registry возвращает регистр метрик (для тестов и встраивания)
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// OnTick обновляет метрики по итогам тика
func (e *Exporter) OnTick(res agent.TickResult) {
	if res.Skipped {
		e.skipped.Inc()
		return
	}

	e.ticks.Inc()
	if res.Transition != agent.NoTransition {
		e.transitions.WithLabelValues(res.Transition.String()).Inc()
	}
	if res.Collision != agent.NoCollision {
		e.collisions.WithLabelValues(res.Collision.String()).Inc()
	}
	if res.Slid {
		e.slides.Inc()
	}
	if res.Clamped {
		e.clamps.Inc()
	}

	e.height.Set(res.Position.Y)
	e.velocity.Set(res.VerticalVelocity)
	if res.Grounded {
		e.grounded.Set(1)
	} else {
		e.grounded.Set(0)
	}
}

// ObserveTickDuration записывает время вычисления тика
func (e *Exporter) ObserveTickDuration(d time.Duration) {
	e.tickSeconds.Observe(d.Seconds())
}

// Handler возвращает HTTP-обработчик /metrics
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func (e *Exporter) StartHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	e.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		e.logger.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
}

// Stop останавливает HTTP-сервер, если он был запущен
func (e *Exporter) Stop(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}
