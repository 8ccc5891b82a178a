package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/logging"
)

// InputSource опрашивается один раз за кадр. ok == false означает конец ввода.
type InputSource interface {
	Next() (in agent.Input, ok bool)
}

// Renderer получает состояние для отрисовки после каждого тика
type Renderer interface {
	Render(view agent.View, res agent.TickResult) error
}

// Observer получает итог каждого тика
type Observer interface {
	OnTick(res agent.TickResult)
}

// ObserverFunc - функция-наблюдатель
type ObserverFunc func(res agent.TickResult)

// OnTick вызывает f(res)
func (f ObserverFunc) OnTick(res agent.TickResult) { f(res) }

// NopRenderer ничего не рисует
type NopRenderer struct{}

// Render ничего не делает
func (NopRenderer) Render(agent.View, agent.TickResult) error { return nil }

// Clock - источник времени цикла; подменяется в тестах
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock возвращает системные часы
func RealClock() Clock { return realClock{} }

// ErrStopped возвращается рендерером, чтобы штатно завершить цикл (например, по Esc)
var ErrStopped = errors.New("симуляция остановлена")

// StopReason - почему цикл завершился
type StopReason int

const (
	StopInputExhausted StopReason = iota
	StopMaxTicks
	StopCancelled
	StopRenderer
)

// String возвращает строковое представление причины
func (r StopReason) String() string {
	switch r {
	case StopInputExhausted:
		return "input_exhausted"
	case StopMaxTicks:
		return "max_ticks"
	case StopCancelled:
		return "cancelled"
	case StopRenderer:
		return "renderer"
	default:
		return "unknown"
	}
}

// Loop - внешний цикл симуляции: опрос ввода, тик контроллера, наблюдатели, отрисовка.
// Всё выполняется в одной горутине; контроллер не должен использоваться параллельно.
type Loop struct {
	Controller *agent.Controller
	Input      InputSource
	Renderer   Renderer
	Observers  []Observer
	Clock      Clock

	// FrameInterval - пауза между кадрами; 0 - без пауз (headless)
	FrameInterval time.Duration
	// FixedStep - фиксированный dt в секундах; 0 - dt измеряется по часам
	FixedStep float64
	// MaxTicks - ограничение числа тиков; 0 - без ограничения
	MaxTicks uint64
	// MaxStep ограничивает измеренный dt (после паузы процесса), 0 - без ограничения
	MaxStep float64
	// OnTickDuration получает время вычисления каждого тика
	OnTickDuration func(d time.Duration)
}

// Summary - итог работы цикла
type Summary struct {
	Ticks  uint64
	Reason StopReason
	Final  agent.TickResult
}

// Run выполняет цикл до исчерпания ввода, MaxTicks, отмены контекста или ErrStopped от рендерера
func (l *Loop) Run(ctx context.Context) (Summary, error) {
	if l.Controller == nil || l.Input == nil {
		return Summary{}, fmt.Errorf("цикл симуляции: не заданы контроллер или источник ввода")
	}
	clock := l.Clock
	if clock == nil {
		clock = RealClock()
	}
	renderer := l.Renderer
	if renderer == nil {
		renderer = NopRenderer{}
	}

	var summary Summary
	last := clock.Now()

	for {
		if err := ctx.Err(); err != nil {
			summary.Reason = StopCancelled
			return summary, nil
		}

		in, ok := l.Input.Next()
		if !ok {
			summary.Reason = StopInputExhausted
			return summary, nil
		}

		now := clock.Now()
		dt := l.FixedStep
		if dt <= 0 {
			dt = now.Sub(last).Seconds()
			if l.MaxStep > 0 && dt > l.MaxStep {
				logging.LogWarn("Frame took %.3fs, step capped to %.3fs", dt, l.MaxStep)
				dt = l.MaxStep
			}
		}
		last = now

		started := time.Now()
		res := l.Controller.Tick(in, dt)
		if l.OnTickDuration != nil {
			l.OnTickDuration(time.Since(started))
		}
		summary.Final = res
		if !res.Skipped {
			summary.Ticks++
		}
		for _, o := range l.Observers {
			o.OnTick(res)
		}

		if err := renderer.Render(l.Controller.View(), res); err != nil {
			if errors.Is(err, ErrStopped) {
				summary.Reason = StopRenderer
				return summary, nil
			}
			return summary, fmt.Errorf("отрисовка тика %d: %w", res.Tick, err)
		}

		if l.MaxTicks > 0 && summary.Ticks >= l.MaxTicks {
			summary.Reason = StopMaxTicks
			return summary, nil
		}

		if l.FrameInterval > 0 {
			select {
			case <-ctx.Done():
				summary.Reason = StopCancelled
				return summary, nil
			case <-clock.After(l.FrameInterval):
			}
		}
	}
}
