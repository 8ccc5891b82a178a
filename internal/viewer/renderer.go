package viewer

import (
	"fmt"
	"math"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/world"
	"github.com/gdamore/tcell/v2"
)

// Renderer рисует объём и агента в терминале: карта высот сверху и срез сбоку
type Renderer struct {
	screen tcell.Screen
	volume *world.Volume
	input  *KeyboardInput
}

// NewRenderer создаёт терминальный рендерер. input может быть nil.
func NewRenderer(screen tcell.Screen, volume *world.Volume, input *KeyboardInput) *Renderer {
	return &Renderer{screen: screen, volume: volume, input: input}
}

var (
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleAgent   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSolid   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	heightGlyphs = []rune("0123456789abcdefghijklmnopqrstuvwxyz")
)

// Карта сверху начинается со строки mapTop, срез - справа от неё
const (
	mapTop  = 2
	mapLeft = 0
)

// Render отрисовывает кадр. Возвращает sim.ErrStopped через input, если пользователь вышел.
func (r *Renderer) Render(view agent.View, res agent.TickResult) error {
	if r.input != nil && r.input.Quit() {
		return errQuit
	}

	r.screen.Clear()
	size := r.volume.Size()
	feet := view.Position.Floor()

	// Статус
	drawText(r.screen, 0, 0, styleStatus, fmt.Sprintf(
		"tick %d  pos (%.2f, %.2f, %.2f)  vy %.2f  %s  yaw %.0f pitch %.0f",
		res.Tick, view.Position.X, view.Position.Y, view.Position.Z,
		res.VerticalVelocity, res.State, view.Yaw, view.Pitch))
	drawText(r.screen, 0, 1, styleStatus, fmt.Sprintf(
		"collision %s  transition %s  ground %d", res.Collision, res.Transition, res.TerrainHeight))

	// Карта высот (x - столбцы, z - строки)
	for z := 0; z < size.Z; z++ {
		for x := 0; x < size.X; x++ {
			glyph, style := '.', styleEmpty
			if h := r.volume.TerrainHeight(x, z); h != world.NoGround {
				glyph, style = heightGlyph(h), styleSolid
			}
			if x == feet.X && z == feet.Z {
				glyph, style = '@', styleAgent
			}
			r.screen.SetContent(mapLeft+x, mapTop+z, glyph, nil, style)
		}
	}

	// Срез по плоскости z агента (x - столбцы, y - строки снизу вверх)
	sliceLeft := mapLeft + size.X + 3
	sliceZ := clamp(feet.Z, 0, size.Z-1)
	for y := 0; y < size.Y; y++ {
		row := mapTop + size.Y - 1 - y
		for x := 0; x < size.X; x++ {
			glyph, style := ' ', styleEmpty
			if r.volume.IsSolid(x, y, sliceZ) {
				glyph, style = '#', styleSolid
			}
			r.screen.SetContent(sliceLeft+x, row, glyph, nil, style)
		}
	}
	// Агент на срезе: ступни и голова
	if feet.X >= 0 && feet.X < size.X {
		for dy := 0; dy < 2; dy++ {
			y := int(math.Floor(view.Position.Y)) + dy
			if y >= 0 && y < size.Y {
				r.screen.SetContent(sliceLeft+feet.X, mapTop+size.Y-1-y, '@', nil, styleAgent)
			}
		}
	}

	drawText(r.screen, 0, mapTop+max(size.Y, size.Z)+1, styleHelp,
		"WASD move  Shift+WASD sprint  Space jump  arrows look  Esc quit")

	r.screen.Show()
	return nil
}

func heightGlyph(h int) rune {
	if h < len(heightGlyphs) {
		return heightGlyphs[h]
	}
	return '+'
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, ch := range []rune(text) {
		s.SetContent(x+i, y, ch, nil, style)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
