package sim

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/logging"
	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world"
	"github.com/annel0/voxelwalk/internal/world/block"
	// Импортируем реализации блоков для регистрации в init()
	_ "github.com/annel0/voxelwalk/internal/world/block/implementations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock продвигается только при ожидании кадра
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

type recordingRenderer struct {
	views     []agent.View
	stopAfter int
}

func (r *recordingRenderer) Render(view agent.View, _ agent.TickResult) error {
	r.views = append(r.views, view)
	if r.stopAfter > 0 && len(r.views) >= r.stopAfter {
		return ErrStopped
	}
	return nil
}

func newFlatController(t *testing.T) *agent.Controller {
	t.Helper()
	b := world.NewChunkBuilder()
	b.FillLayer(0, block.StoneBlockID)
	c, err := agent.NewController(b.Build(), agent.DefaultParams(), vec.Vec3Float{X: 4, Y: 3, Z: 8}, 0, 0)
	require.NoError(t, err)
	return c
}

func TestLoop_RunsUntilInputExhausted(t *testing.T) {
	ctrl := newFlatController(t)
	session := NewSession()
	renderer := &recordingRenderer{}

	loop := &Loop{
		Controller:    ctrl,
		Input:         &ConstantInput{N: 120},
		Renderer:      renderer,
		Observers:     []Observer{session},
		Clock:         &fakeClock{now: time.Unix(0, 0)},
		FrameInterval: time.Second / 60,
	}

	summary, err := loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StopInputExhausted, summary.Reason)
	assert.Equal(t, uint64(120), summary.Ticks)
	assert.Len(t, renderer.views, 120)

	// Агент упал с высоты 3 на пол высоты 1
	assert.True(t, summary.Final.Grounded)
	assert.Equal(t, 1.0, summary.Final.Position.Y)

	stats := session.Stats()
	assert.Equal(t, uint64(120), stats.Ticks)
	assert.Equal(t, uint64(1), stats.Landings)
	assert.Equal(t, 1.0, stats.MinY)
	assert.NotEmpty(t, stats.ID)
	assert.Contains(t, stats.String(), "landings=1")
}

func TestLoop_MeasuresDeltaFromClock(t *testing.T) {
	ctrl := newFlatController(t)
	var results []agent.TickResult

	loop := &Loop{
		Controller:    ctrl,
		Input:         &ConstantInput{Input: agent.Input{Forward: true}, N: 3},
		Observers:     []Observer{ObserverFunc(func(res agent.TickResult) { results = append(results, res) })},
		Clock:         &fakeClock{now: time.Unix(0, 0)},
		FrameInterval: 100 * time.Millisecond,
	}
	_, err := loop.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Первый кадр: dt = 0, затем по 0.1 с при скорости 5
	assert.InDelta(t, 4.0, results[0].Position.X, 1e-9)
	assert.InDelta(t, 4.5, results[1].Position.X, 1e-9)
	assert.InDelta(t, 5.0, results[2].Position.X, 1e-9)
}

func TestLoop_CapsLongFrames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logging.InitLogger(logging.Options{Console: &buf, ConsoleLevel: logging.WARN}))
	defer logging.CloseLogger()

	var results []agent.TickResult
	session := NewSession()
	record := ObserverFunc(func(res agent.TickResult) { results = append(results, res) })
	loop := &Loop{
		Controller:    newFlatController(t),
		Input:         &ConstantInput{Input: agent.Input{Forward: true}, N: 3},
		Observers:     []Observer{session, record},
		Clock:         &fakeClock{now: time.Unix(0, 0)},
		FrameInterval: 500 * time.Millisecond,
		MaxStep:       0.1,
	}
	_, err := loop.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Кадры по 0.5 с обрезаются до 0.1 с: шаг 0.5 блока при скорости 5
	assert.InDelta(t, 4.5, results[1].Position.X, 1e-9)
	assert.InDelta(t, 5.0, results[2].Position.X, 1e-9)
	assert.Equal(t, 2, strings.Count(buf.String(), "step capped to 0.100s"))
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Equal(t, uint64(3), session.Stats().MovingTicks)
}

func TestLoop_MaxTicksAndFixedStep(t *testing.T) {
	loop := &Loop{
		Controller: newFlatController(t),
		Input:      &ConstantInput{},
		FixedStep:  1.0 / 60.0,
		MaxTicks:   10,
	}
	timed := 0
	loop.OnTickDuration = func(time.Duration) { timed++ }

	summary, err := loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, timed)
	assert.Equal(t, StopMaxTicks, summary.Reason)
	assert.Equal(t, uint64(10), summary.Ticks)
	assert.Equal(t, uint64(10), summary.Final.Tick)
}

func TestLoop_StopsOnCancelAndRenderer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop := &Loop{Controller: newFlatController(t), Input: &ConstantInput{}, FixedStep: 0.01}
	summary, err := loop.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StopCancelled, summary.Reason)
	assert.Zero(t, summary.Ticks)

	renderer := &recordingRenderer{stopAfter: 5}
	loop = &Loop{Controller: newFlatController(t), Input: &ConstantInput{}, Renderer: renderer, FixedStep: 0.01}
	summary, err = loop.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StopRenderer, summary.Reason)
	assert.Equal(t, uint64(5), summary.Ticks)
}

type failingRenderer struct{}

func (failingRenderer) Render(agent.View, agent.TickResult) error { return errors.New("экран недоступен") }

func TestLoop_RendererError(t *testing.T) {
	loop := &Loop{Controller: newFlatController(t), Input: &ConstantInput{}, Renderer: failingRenderer{}, FixedStep: 0.01}
	_, err := loop.Run(context.Background())
	assert.Error(t, err)

	_, err = (&Loop{}).Run(context.Background())
	assert.Error(t, err, "Без контроллера цикл не запускается")
}

const testScript = `
name: hop
steps:
  - ticks: 2
    forward: true
  - ticks: 1
    jump: true
    cursor: {x: 10, y: -5}
  - ticks: 2
    cursor: {x: 10, y: 0}
`

func TestScriptedInput(t *testing.T) {
	script, err := ParseScript([]byte(testScript))
	require.NoError(t, err)
	assert.Equal(t, "hop", script.Name)

	si, err := NewScriptedInput(script)
	require.NoError(t, err)
	assert.Equal(t, 5, si.TotalTicks())

	var inputs []agent.Input
	for {
		in, ok := si.Next()
		if !ok {
			break
		}
		inputs = append(inputs, in)
	}
	require.Len(t, inputs, 5)
	assert.True(t, inputs[0].Forward)
	assert.True(t, inputs[1].Forward)
	assert.True(t, inputs[2].Jump)
	assert.False(t, inputs[3].Jump)

	// Курсор накапливает смещения
	assert.Equal(t, 10.0, inputs[2].CursorX)
	assert.Equal(t, -5.0, inputs[2].CursorY)
	assert.Equal(t, 30.0, inputs[4].CursorX)
	assert.True(t, inputs[4].HasCursor)
	assert.False(t, inputs[0].HasCursor)

	si.Rewind()
	in, ok := si.Next()
	assert.True(t, ok)
	assert.True(t, in.Forward)
}

func TestScriptedInput_RepeatAndInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logging.InitLogger(logging.Options{Console: &buf, ConsoleLevel: logging.TRACE}))
	defer logging.CloseLogger()

	si, err := NewScriptedInput(Script{Name: "zigzag", Repeat: true, Steps: []Step{{Ticks: 1, Left: true}, {Ticks: 1, Right: true}}})
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		in, ok := si.Next()
		require.True(t, ok)
		assert.Equal(t, i%2 == 0, in.Left)
		assert.Equal(t, i%2 == 1, in.Right)
	}
	assert.Equal(t, 2, strings.Count(buf.String(), `Script "zigzag" restarted`))

	_, err = NewScriptedInput(Script{Steps: []Step{{Ticks: 0}}})
	assert.Error(t, err)

	empty, err := NewScriptedInput(Script{Repeat: true})
	require.NoError(t, err)
	_, ok := empty.Next()
	assert.False(t, ok)
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScript), 0o644))

	si, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, 5, si.TotalTicks())

	_, err = LoadScript(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewConsoleLogger("sim", &buf, logging.TRACE)
	obs := NewLogObserver(logger)

	obs.OnTick(agent.TickResult{Tick: 1, Position: vec.Vec3Float{X: 1, Y: 2, Z: 3}})
	obs.OnTick(agent.TickResult{Tick: 2, Position: vec.Vec3Float{X: 1, Y: 1, Z: 3}, Grounded: true,
		Transition: agent.Landed, Collision: agent.FloorCollision, Normal: vec.Vec3Float{Y: 1}})
	obs.OnTick(agent.TickResult{Skipped: true})

	out := buf.String()
	assert.Contains(t, out, "Agent tick 2: (1.000,2.000,3.000) -> (1.000,1.000,3.000) grounded:true")
	assert.Contains(t, out, "Tick 2: landed")
	assert.Contains(t, out, "floor collision, normal (0,1,0)")
	assert.Contains(t, out, "Tick skipped")
}

func TestStopReason_String(t *testing.T) {
	assert.Equal(t, "max_ticks", StopMaxTicks.String())
	assert.Equal(t, "renderer", StopRenderer.String())
}
