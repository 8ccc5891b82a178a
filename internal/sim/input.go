package sim

import (
	"fmt"
	"os"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/logging"
	"gopkg.in/yaml.v3"
)

// Step - отрезок сценария: один и тот же ввод на протяжении Ticks тиков
type Step struct {
	Ticks   int  `yaml:"ticks"`
	Forward bool `yaml:"forward"`
	Back    bool `yaml:"back"`
	Left    bool `yaml:"left"`
	Right   bool `yaml:"right"`
	Jump    bool `yaml:"jump"`
	Sprint  bool `yaml:"sprint"`
	// Cursor - смещение курсора за тик в пикселях
	Cursor *CursorDelta `yaml:"cursor,omitempty"`
}

// CursorDelta - смещение курсора
type CursorDelta struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Script - сценарий ввода для прогонов без окна
type Script struct {
	Name   string `yaml:"name"`
	Repeat bool   `yaml:"repeat"`
	Steps  []Step `yaml:"steps"`
}

// ScriptedInput воспроизводит Script тик за тиком
type ScriptedInput struct {
	script  Script
	step    int
	left    int
	cursorX float64
	cursorY float64
}

// NewScriptedInput создаёт источник ввода по сценарию
func NewScriptedInput(script Script) (*ScriptedInput, error) {
	for i, s := range script.Steps {
		if s.Ticks <= 0 {
			return nil, fmt.Errorf("сценарий %q: шаг %d: ticks должно быть положительным", script.Name, i)
		}
	}
	si := &ScriptedInput{script: script}
	si.Rewind()
	return si, nil
}

// ParseScript разбирает YAML-сценарий
func ParseScript(data []byte) (Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return script, fmt.Errorf("разбор сценария: %w", err)
	}
	return script, nil
}

// LoadScript читает сценарий из файла
func LoadScript(path string) (*ScriptedInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение сценария %s: %w", path, err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return nil, err
	}
	if script.Name == "" {
		script.Name = path
	}
	return NewScriptedInput(script)
}

// Rewind возвращает сценарий к началу
func (si *ScriptedInput) Rewind() {
	si.step = 0
	si.left = 0
	if len(si.script.Steps) > 0 {
		si.left = si.script.Steps[0].Ticks
	}
}

// TotalTicks возвращает длину одного прохода сценария
func (si *ScriptedInput) TotalTicks() int {
	total := 0
	for _, s := range si.script.Steps {
		total += s.Ticks
	}
	return total
}

// Next возвращает ввод для очередного тика
func (si *ScriptedInput) Next() (agent.Input, bool) {
	if si.step >= len(si.script.Steps) {
		if !si.script.Repeat || len(si.script.Steps) == 0 {
			return agent.Input{}, false
		}
		logging.LogTrace("Script %q restarted", si.script.Name)
		si.Rewind()
	}

	s := si.script.Steps[si.step]
	in := agent.Input{
		Forward: s.Forward,
		Back:    s.Back,
		Left:    s.Left,
		Right:   s.Right,
		Jump:    s.Jump,
		Sprint:  s.Sprint,
	}
	if s.Cursor != nil {
		si.cursorX += s.Cursor.X
		si.cursorY += s.Cursor.Y
		in.CursorX = si.cursorX
		in.CursorY = si.cursorY
		in.HasCursor = true
	}

	si.left--
	if si.left == 0 {
		si.step++
		if si.step < len(si.script.Steps) {
			si.left = si.script.Steps[si.step].Ticks
		}
	}
	return in, true
}

// ConstantInput повторяет один и тот же ввод; N == 0 - бесконечно
type ConstantInput struct {
	Input agent.Input
	N     int
	given int
}

// Next возвращает Input, пока не выдано N тиков
func (c *ConstantInput) Next() (agent.Input, bool) {
	if c.N > 0 && c.given >= c.N {
		return agent.Input{}, false
	}
	c.given++
	return c.Input, true
}
