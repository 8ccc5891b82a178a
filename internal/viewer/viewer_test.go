package viewer

import (
	"errors"
	"testing"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/sim"
	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world"
	"github.com/annel0/voxelwalk/internal/world/block"
	// Импортируем реализации блоков для регистрации в init()
	_ "github.com/annel0/voxelwalk/internal/world/block/implementations"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestKeyboardInput_HoldAndRelease(t *testing.T) {
	k := NewKeyboardInput()
	k.HandleEvent(runeKey('w'))

	for i := 0; i < HoldFrames; i++ {
		in, ok := k.Next()
		require.True(t, ok)
		assert.True(t, in.Forward, "Кадр %d: клавиша ещё считается зажатой", i)
	}
	in, ok := k.Next()
	require.True(t, ok)
	assert.False(t, in.Forward, "Удержание истекло")
	assert.True(t, in.HasCursor)
}

func TestKeyboardInput_SprintJumpLook(t *testing.T) {
	k := NewKeyboardInput()
	k.HandleEvent(runeKey('D'))
	k.HandleEvent(runeKey(' '))
	k.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	k.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))

	in, _ := k.Next()
	assert.True(t, in.Right)
	assert.True(t, in.Sprint)
	assert.True(t, in.Jump)
	assert.Equal(t, LookStep, in.CursorX)
	assert.Equal(t, -LookStep, in.CursorY)

	in, _ = k.Next()
	assert.False(t, in.Jump, "Прыжок срабатывает один кадр")
	assert.True(t, in.Sprint)
}

func TestKeyboardInput_Quit(t *testing.T) {
	k := NewKeyboardInput()
	assert.False(t, k.Quit())
	k.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	assert.True(t, k.Quit())

	_, ok := k.Next()
	assert.False(t, ok)
}

func TestRenderer_DrawsAgentAndTerrain(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 24)

	b := world.NewChunkBuilder()
	b.FillLayer(0, block.StoneBlockID)
	b.FillLayer(1, block.StoneBlockID)
	v := b.Build()

	ctrl, err := agent.NewController(v, agent.DefaultParams(), vec.Vec3Float{X: 3.5, Y: 2, Z: 5.5}, 0, 0)
	require.NoError(t, err)
	res := ctrl.Tick(agent.Input{}, 0)

	r := NewRenderer(screen, v, nil)
	require.NoError(t, r.Render(ctrl.View(), res))

	agentCell, _, _, _ := screen.GetContent(mapLeft+3, mapTop+5)
	assert.Equal(t, '@', agentCell)

	terrainCell, _, _, _ := screen.GetContent(mapLeft+0, mapTop+0)
	assert.Equal(t, '2', terrainCell, "Поверхность на высоте 2")

	// Срез: слой y=0 внизу
	sliceLeft := mapLeft + 16 + 3
	floorCell, _, _, _ := screen.GetContent(sliceLeft, mapTop+15)
	assert.Equal(t, '#', floorCell)
}

func TestRenderer_StopsOnQuit(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	k := NewKeyboardInput()
	k.HandleEvent(runeKey('q'))

	r := NewRenderer(screen, world.NewChunkBuilder().Build(), k)
	err := r.Render(agent.View{}, agent.TickResult{})
	assert.True(t, errors.Is(err, sim.ErrStopped))
}
