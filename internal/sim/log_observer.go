package sim

import (
	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/logging"
)

// LogObserver пишет итоги тиков в лог: каждый тик на TRACE, переходы на DEBUG
type LogObserver struct {
	logger  *logging.Logger
	prev    agent.TickResult
	hasPrev bool
}

// NewLogObserver создаёт наблюдателя поверх логгера компонента
func NewLogObserver(logger *logging.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// OnTick логирует итог тика
func (o *LogObserver) OnTick(res agent.TickResult) {
	if res.Skipped {
		o.logger.Warn("Tick skipped: invalid time step")
		return
	}

	from := res.Position
	if o.hasPrev {
		from = o.prev.Position
	}
	if o.logger.Enabled(logging.TRACE) {
		logging.LogAgentMovement(o.logger, res.Tick, from.X, from.Y, from.Z,
			res.Position.X, res.Position.Y, res.Position.Z, res.Grounded)
	}

	if res.Transition != agent.NoTransition {
		o.logger.Debug("Tick %d: %s at (%.3f,%.3f,%.3f)", res.Tick, res.Transition,
			res.Position.X, res.Position.Y, res.Position.Z)
	}
	if res.Collision != agent.NoCollision {
		o.logger.Debug("Tick %d: %s collision, normal (%.0f,%.0f,%.0f), slid:%t",
			res.Tick, res.Collision, res.Normal.X, res.Normal.Y, res.Normal.Z, res.Slid)
	}

	o.prev = res
	o.hasPrev = true
}
