package viewer

import (
	"sync"
	"unicode"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/sim"
	"github.com/gdamore/tcell/v2"
)

var errQuit = sim.ErrStopped

// HoldFrames - сколько кадров клавиша считается зажатой после нажатия.
// Терминал не сообщает об отпускании клавиш, поэтому удержание эмулируется автоповтором.
const HoldFrames = 8

// LookStep - смещение виртуального курсора в пикселях на нажатие стрелки
const LookStep = 30.0

// KeyboardInput превращает события терминала в ввод агента
type KeyboardInput struct {
	mu      sync.Mutex
	held    map[rune]int
	jump    int
	sprint  int
	cursorX float64
	cursorY float64
	quit    bool
}

// NewKeyboardInput создаёт источник ввода с клавиатуры.
// Виртуальный курсор выдаётся с первого кадра, чтобы камера сразу получила базовую точку.
func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{held: make(map[rune]int)}
}

// Listen читает события экрана до закрытия done. Вызывается в отдельной горутине.
func (k *KeyboardInput) Listen(screen tcell.Screen, done <-chan struct{}) {
	events := make(chan tcell.Event, 64)
	go screen.ChannelEvents(events, done)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			k.HandleEvent(ev)
		}
	}
}

// HandleEvent обрабатывает одно событие терминала
func (k *KeyboardInput) HandleEvent(ev tcell.Event) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		k.quit = true
	case tcell.KeyLeft:
		k.look(-LookStep, 0)
	case tcell.KeyRight:
		k.look(LookStep, 0)
	case tcell.KeyUp:
		k.look(0, -LookStep)
	case tcell.KeyDown:
		k.look(0, LookStep)
	case tcell.KeyRune:
		r := key.Rune()
		switch {
		case r == ' ':
			k.jump = 1
		case r == 'q':
			k.quit = true
		case unicode.IsUpper(r):
			k.sprint = HoldFrames
			k.held[unicode.ToLower(r)] = HoldFrames
		default:
			k.held[r] = HoldFrames
		}
	}
}

func (k *KeyboardInput) look(dx, dy float64) {
	k.cursorX += dx
	k.cursorY += dy
}

// Quit сообщает, запросил ли пользователь выход
func (k *KeyboardInput) Quit() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.quit
}

// Next возвращает ввод на очередной кадр и уменьшает счётчики удержания
func (k *KeyboardInput) Next() (agent.Input, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.quit {
		return agent.Input{}, false
	}

	in := agent.Input{
		Forward:   k.held['w'] > 0,
		Back:      k.held['s'] > 0,
		Left:      k.held['a'] > 0,
		Right:     k.held['d'] > 0,
		Jump:      k.jump > 0,
		Sprint:    k.sprint > 0,
		CursorX:   k.cursorX,
		CursorY:   k.cursorY,
		HasCursor: true,
	}

	for r, n := range k.held {
		if n <= 1 {
			delete(k.held, r)
		} else {
			k.held[r] = n - 1
		}
	}
	if k.jump > 0 {
		k.jump--
	}
	if k.sprint > 0 {
		k.sprint--
	}
	return in, true
}
