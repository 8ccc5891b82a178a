package agent

import "github.com/annel0/voxelwalk/internal/physics"

// Константы движения по умолчанию
const (
	DefaultSpeed        = 5.0  // Блоков в секунду
	DefaultSprintSpeed  = 10.0 // Блоков в секунду при зажатом ускорении
	DefaultJumpVelocity = 5.0  // Начальная вертикальная скорость прыжка
	DefaultGravity      = 9.81 // Ускорение свободного падения
	DefaultSensitivity  = 0.1  // Градусов на пиксель курсора

	// MaxPitch ограничивает наклон камеры, чтобы избежать переворота базиса
	MaxPitch = 89.0
)

// Params - настраиваемые параметры движения агента
type Params struct {
	Speed        float64
	SprintSpeed  float64
	JumpVelocity float64
	Gravity      float64
	Sensitivity  float64
	Body         physics.Body
}

// DefaultParams возвращает параметры по умолчанию
func DefaultParams() Params {
	return Params{
		Speed:        DefaultSpeed,
		SprintSpeed:  DefaultSprintSpeed,
		JumpVelocity: DefaultJumpVelocity,
		Gravity:      DefaultGravity,
		Sensitivity:  DefaultSensitivity,
		Body:         physics.DefaultBody,
	}
}
