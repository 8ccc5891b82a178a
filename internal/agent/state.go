package agent

// MotionState - именованное состояние опоры агента. Хранится одним флагом onGround.
type MotionState int

const (
	Airborne MotionState = iota
	Grounded
)

// String возвращает строковое представление состояния
func (s MotionState) String() string {
	switch s {
	case Grounded:
		return "GROUNDED"
	case Airborne:
		return "AIRBORNE"
	default:
		return "UNKNOWN"
	}
}

// Transition - переход между состояниями опоры за тик
type Transition int

const (
	NoTransition Transition = iota
	Jumped                  // Grounded -> Airborne по прыжку
	LeftGround              // Grounded -> Airborne без прыжка (опора исчезла)
	Landed                  // Airborne -> Grounded
)

// String возвращает строковое представление перехода
func (t Transition) String() string {
	switch t {
	case NoTransition:
		return "none"
	case Jumped:
		return "jumped"
	case LeftGround:
		return "left_ground"
	case Landed:
		return "landed"
	default:
		return "unknown"
	}
}

// CollisionKind - как было разрешено столкновение за тик
type CollisionKind int

const (
	NoCollision CollisionKind = iota
	FloorCollision
	CeilingCollision
	WallCollision
)

// String возвращает строковое представление типа столкновения
func (k CollisionKind) String() string {
	switch k {
	case NoCollision:
		return "none"
	case FloorCollision:
		return "floor"
	case CeilingCollision:
		return "ceiling"
	case WallCollision:
		return "wall"
	default:
		return "unknown"
	}
}
