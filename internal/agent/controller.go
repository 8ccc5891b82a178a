package agent

import (
	"errors"
	"fmt"
	"math"

	"github.com/annel0/voxelwalk/internal/physics"
	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world"
)

// ErrInvalidPosition возвращается для позиции с NaN или Inf
var ErrInvalidPosition = errors.New("недопустимая позиция агента")

var _ world.Query = (*world.Volume)(nil)

// TickResult - итог одного шага симуляции для рендерера и наблюдателей
type TickResult struct {
	Tick             uint64
	Position         vec.Vec3Float
	VerticalVelocity float64
	Grounded         bool
	State            MotionState
	Transition       Transition
	Collision        CollisionKind
	Normal           vec.Vec3Float
	Slid             bool // Горизонтальное скольжение вдоль стены выполнено
	Clamped          bool // Сработала страховка по высоте колонки
	TerrainHeight    int  // Высота опоры под агентом после шага (или world.NoGround)
	Skipped          bool // Шаг пропущен из-за недопустимого dt
	Moving           bool // На тике была зажата клавиша направления
}

// View - то, что нужно рендереру для построения видовой матрицы
type View struct {
	Position vec.Vec3Float
	Front    vec.Vec3Float
	Right    vec.Vec3Float
	Up       vec.Vec3Float
	Yaw      float64
	Pitch    float64
	Grounded bool
}

// Controller владеет состоянием агента и выполняет интеграцию движения по тикам
type Controller struct {
	volume world.Query
	params Params
	camera *Camera

	position         vec.Vec3Float
	verticalVelocity float64
	onGround         bool

	// Первая проверка столкновений после создания пропускается:
	// агент может появиться в точке, ещё не согласованной с объёмом.
	initialized bool
	tick        uint64
}

// NewController создаёт контроллер агента в точке spawn с ориентацией yaw/pitch (градусы)
func NewController(volume world.Query, params Params, spawn vec.Vec3Float, yaw, pitch float64) (*Controller, error) {
	if volume == nil {
		return nil, fmt.Errorf("контроллер агента: объём не задан")
	}
	if !spawn.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, spawn)
	}

	return &Controller{
		volume:   volume,
		params:   params,
		camera:   NewCamera(yaw, pitch, params.Sensitivity),
		position: spawn,
	}, nil
}

// Position возвращает позицию ступней
func (c *Controller) Position() vec.Vec3Float { return c.position }

// VerticalVelocity возвращает вертикальную скорость
func (c *Controller) VerticalVelocity() float64 { return c.verticalVelocity }

// OnGround сообщает, стоит ли агент на опоре
func (c *Controller) OnGround() bool { return c.onGround }

// State возвращает именованное состояние опоры
func (c *Controller) State() MotionState {
	if c.onGround {
		return Grounded
	}
	return Airborne
}

// Camera возвращает камеру агента
func (c *Controller) Camera() *Camera { return c.camera }

// Params возвращает параметры движения
func (c *Controller) Params() Params { return c.params }

// Initialized сообщает, выполнялась ли уже проверка столкновений
func (c *Controller) Initialized() bool { return c.initialized }

// Ticks возвращает количество выполненных шагов
func (c *Controller) Ticks() uint64 { return c.tick }

// SetPosition телепортирует агента; скорость и флаг опоры сбрасываются
func (c *Controller) SetPosition(pos vec.Vec3Float) error {
	if !pos.IsFinite() {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}
	c.position = pos
	c.verticalVelocity = 0
	c.onGround = false
	return nil
}

// SetVerticalVelocity задаёт вертикальную скорость (толчок, отбрасывание)
func (c *Controller) SetVerticalVelocity(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	c.verticalVelocity = v
}

// Reset возвращает контроллер к состоянию сразу после создания в точке spawn
func (c *Controller) Reset(spawn vec.Vec3Float) error {
	if err := c.SetPosition(spawn); err != nil {
		return err
	}
	c.initialized = false
	c.tick = 0
	c.camera.ResetMouse()
	return nil
}

// View возвращает состояние для рендерера
func (c *Controller) View() View {
	return View{
		Position: c.position,
		Front:    c.camera.Front(),
		Right:    c.camera.Right(),
		Up:       c.camera.Up(),
		Yaw:      c.camera.Yaw(),
		Pitch:    c.camera.Pitch(),
		Grounded: c.onGround,
	}
}

// ViewMatrix возвращает видовую матрицу текущего положения
func (c *Controller) ViewMatrix() vec.Mat4 {
	return c.camera.ViewMatrix(c.position)
}

// Tick выполняет один шаг симуляции длительностью dt секунд
func (c *Controller) Tick(in Input, dt float64) TickResult {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		res := c.result(NoTransition)
		res.Skipped = true
		return res
	}

	c.tick++
	if in.HasCursor {
		c.camera.ProcessMouseMovement(in.CursorX, in.CursorY)
	}

	wasGrounded := c.onGround
	startY := c.position.Y
	jumped := false

	// 1. Горизонтальное намерение
	tentative := c.position.Add(c.horizontalIntent(in, dt))

	// 2. Прыжок только с опоры
	if in.Jump && c.onGround {
		c.verticalVelocity = c.params.JumpVelocity
		c.onGround = false
		jumped = true
	}

	// 3-4. Гравитация действует всегда
	c.verticalVelocity -= c.params.Gravity * dt
	tentative.Y += c.verticalVelocity * dt

	// 5. Проверка столкновений
	var hit physics.CollisionResult
	if c.initialized {
		hit = physics.CheckCollision(c.volume, c.params.Body, tentative)
	} else {
		c.initialized = true
	}

	kind := NoCollision
	slid := false

	switch {
	case !hit.Collided:
		// 6. Свободное движение. Опора пересчитывается каждый тик:
		// стоящего агента страховка ниже вернёт на поверхность.
		c.position = tentative
		c.onGround = false

	case hit.Normal.Y != 0:
		// 7. Вертикальное столкновение
		c.verticalVelocity = 0
		if hit.Normal.Y > 0 {
			if h := c.volume.TerrainHeight(hit.Cell.X, hit.Cell.Z); h != world.NoGround {
				c.position.Y = float64(h)
			}
			c.onGround = true
			kind = FloorCollision
		} else {
			c.position.X = tentative.X
			c.position.Z = tentative.Z
			c.onGround = false
			kind = CeilingCollision
		}

	default:
		// 8. Горизонтальное столкновение: скользим вдоль свободной оси
		kind = WallCollision
		c.onGround = false
		move := tentative.Sub(c.position)
		move.Y = 0
		if hit.Normal.X != 0 {
			move.X = 0
		}
		if hit.Normal.Z != 0 {
			move.Z = 0
		}
		if !move.IsZero() {
			candidate := c.position.Add(move)
			if !physics.IsBlocked(c.volume, c.params.Body, candidate) {
				c.position = candidate
				slid = true
			}
		}
	}

	// 9. Страховка: ступни не опускаются ниже поверхности колонки
	clamped := false
	terrain := c.groundHeight(startY)
	if terrain != world.NoGround && c.position.Y <= float64(terrain) {
		c.position.Y = float64(terrain)
		c.verticalVelocity = 0
		c.onGround = true
		clamped = true
	}

	transition := NoTransition
	switch {
	case jumped:
		transition = Jumped
	case wasGrounded && !c.onGround:
		transition = LeftGround
	case !wasGrounded && c.onGround:
		transition = Landed
	}
	// Прыжок и приземление в одном тике (упор в потолок сразу после отрыва)
	if jumped && c.onGround {
		transition = NoTransition
	}

	res := c.result(transition)
	res.Collision = kind
	res.Normal = hit.Normal
	res.Slid = slid
	res.Clamped = clamped
	res.TerrainHeight = terrain
	res.Moving = in.Moving()
	return res
}

// horizontalIntent возвращает желаемое горизонтальное смещение за тик
func (c *Controller) horizontalIntent(in Input, dt float64) vec.Vec3Float {
	speed := c.params.Speed
	if in.Sprint {
		speed = c.params.SprintSpeed
	}
	step := speed * dt

	forward := c.camera.Front().Horizontal()
	right := c.camera.Right().Horizontal()

	var delta vec.Vec3Float
	if in.Forward {
		delta = delta.Add(forward.Mul(step))
	}
	if in.Back {
		delta = delta.Sub(forward.Mul(step))
	}
	if in.Left {
		delta = delta.Sub(right.Mul(step))
	}
	if in.Right {
		delta = delta.Add(right.Mul(step))
	}
	return delta
}

// groundHeight возвращает высоту опоры: поверхность колонки под ступнями либо
// более высокую поверхность колонки под краем габаритов, если она не выше maxY.
// Колонки выше maxY - это стены и навесы, их разрешают столкновения.
func (c *Controller) groundHeight(maxY float64) int {
	ground := c.columnHeight()
	half := c.params.Body.HalfWidth
	minX, maxX := footprintCells(c.position.X, half)
	minZ, maxZ := footprintCells(c.position.Z, half)
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			if h := c.volume.TerrainHeight(x, z); h > ground && float64(h) <= maxY {
				ground = h
			}
		}
	}
	return ground
}

// footprintCells возвращает диапазон ячеек, строго пересекающихся с [p-half, p+half]
func footprintCells(p, half float64) (int, int) {
	lo := int(math.Floor(p-half-0.5)) + 1
	hi := int(math.Ceil(p+half+0.5)) - 1
	return lo, hi
}

// columnHeight возвращает высоту колонки, в ячейке которой стоят ступни.
// Воксель b занимает [b-0.5, b+0.5], поэтому ячейка - ближайшее целое.
func (c *Controller) columnHeight() int {
	x := int(math.Floor(c.position.X + 0.5))
	z := int(math.Floor(c.position.Z + 0.5))
	return c.volume.TerrainHeight(x, z)
}

func (c *Controller) result(transition Transition) TickResult {
	return TickResult{
		Tick:             c.tick,
		Position:         c.position,
		VerticalVelocity: c.verticalVelocity,
		Grounded:         c.onGround,
		State:            c.State(),
		Transition:       transition,
		TerrainHeight:    c.groundHeight(c.position.Y),
	}
}
