package agent

import (
	"math"

	"github.com/annel0/voxelwalk/internal/vec"
)

// Camera хранит ориентацию агента (рыскание и тангаж в градусах) и производный базис
type Camera struct {
	yaw   float64
	pitch float64

	front vec.Vec3Float
	right vec.Vec3Float
	up    vec.Vec3Float

	sensitivity float64

	// Последнее положение курсора. До первого сэмпла (initialized == false)
	// базовой точки нет, и первое движение мыши только запоминает её.
	lastX       float64
	lastY       float64
	initialized bool
}

// NewCamera создаёт камеру с заданной ориентацией и чувствительностью мыши
func NewCamera(yaw, pitch, sensitivity float64) *Camera {
	c := &Camera{
		yaw:         yaw,
		pitch:       clampPitch(pitch),
		sensitivity: sensitivity,
	}
	c.updateVectors()
	return c
}

// Yaw возвращает рыскание в градусах
func (c *Camera) Yaw() float64 { return c.yaw }

// Pitch возвращает тангаж в градусах
func (c *Camera) Pitch() float64 { return c.pitch }

// Front возвращает единичный вектор направления взгляда
func (c *Camera) Front() vec.Vec3Float { return c.front }

// Right возвращает единичный вектор вправо
func (c *Camera) Right() vec.Vec3Float { return c.right }

// Up возвращает единичный вектор вверх относительно камеры
func (c *Camera) Up() vec.Vec3Float { return c.up }

// MouseInitialized сообщает, получен ли уже базовый сэмпл курсора
func (c *Camera) MouseInitialized() bool { return c.initialized }

// SetOrientation задаёт ориентацию напрямую; тангаж ограничивается ±MaxPitch.
// Нечисловые углы игнорируются.
func (c *Camera) SetOrientation(yaw, pitch float64) {
	if !finite(yaw) || !finite(pitch) {
		return
	}
	c.yaw = yaw
	c.pitch = clampPitch(pitch)
	c.updateVectors()
}

// ProcessMouseMovement применяет смещение курсора к ориентации.
// Первый вызов только запоминает положение курсора и ничего не поворачивает.
func (c *Camera) ProcessMouseMovement(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	if !c.initialized {
		c.lastX = x
		c.lastY = y
		c.initialized = true
		return
	}

	xoffset := (x - c.lastX) * c.sensitivity
	// Ось Y экрана направлена вниз
	yoffset := (c.lastY - y) * c.sensitivity
	c.lastX = x
	c.lastY = y

	c.SetOrientation(c.yaw+xoffset, c.pitch+yoffset)
}

// ResetMouse сбрасывает базовую точку курсора (например, после захвата окна)
func (c *Camera) ResetMouse() {
	c.initialized = false
}

// ViewMatrix возвращает видовую матрицу для камеры в точке position
func (c *Camera) ViewMatrix(position vec.Vec3Float) vec.Mat4 {
	return vec.LookAt(position, position.Add(c.front), c.up)
}

// updateVectors пересчитывает базис из сферических координат
func (c *Camera) updateVectors() {
	yaw := c.yaw * math.Pi / 180
	pitch := c.pitch * math.Pi / 180

	direction := vec.Vec3Float{
		X: math.Cos(yaw) * math.Cos(pitch),
		Y: math.Sin(pitch),
		Z: math.Sin(yaw) * math.Cos(pitch),
	}
	c.front = direction.Normalized()
	c.right = c.front.Cross(vec.WorldUp).Normalized()
	c.up = c.right.Cross(c.front).Normalized()
}

func clampPitch(pitch float64) float64 {
	if pitch > MaxPitch {
		return MaxPitch
	}
	if pitch < -MaxPitch {
		return -MaxPitch
	}
	return pitch
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
