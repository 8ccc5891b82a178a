package sim

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/google/uuid"
)

// Session собирает статистику одного прогона симуляции
type Session struct {
	ID        uuid.UUID
	StartedAt time.Time

	mu         sync.Mutex
	ticks      uint64
	skipped    uint64
	jumps      uint64
	landings   uint64
	collisions map[agent.CollisionKind]uint64
	slides     uint64
	clamps     uint64
	minY       float64
	maxY       float64
	airborne   uint64
	moving     uint64
	last       agent.TickResult
}

// NewSession создаёт сессию с новым идентификатором
func NewSession() *Session {
	return &Session{
		ID:         uuid.New(),
		StartedAt:  time.Now(),
		collisions: make(map[agent.CollisionKind]uint64),
		minY:       math.Inf(1),
		maxY:       math.Inf(-1),
	}
}

// OnTick учитывает итог тика
func (s *Session) OnTick(res agent.TickResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Skipped {
		s.skipped++
		return
	}

	s.ticks++
	switch res.Transition {
	case agent.Jumped:
		s.jumps++
	case agent.Landed:
		s.landings++
	}
	if res.Collision != agent.NoCollision {
		s.collisions[res.Collision]++
	}
	if res.Slid {
		s.slides++
	}
	if res.Clamped {
		s.clamps++
	}
	if !res.Grounded {
		s.airborne++
	}
	if res.Moving {
		s.moving++
	}
	s.minY = math.Min(s.minY, res.Position.Y)
	s.maxY = math.Max(s.maxY, res.Position.Y)
	s.last = res
}

// Stats - снимок статистики сессии
type Stats struct {
	ID             string
	Ticks          uint64
	Skipped        uint64
	Jumps          uint64
	Landings       uint64
	Floor          uint64
	Ceiling        uint64
	Wall           uint64
	Slides         uint64
	Clamps         uint64
	AirborneTicks  uint64
	MovingTicks    uint64
	MinY           float64
	MaxY           float64
	Last           agent.TickResult
	ElapsedSeconds float64
}

// Stats возвращает снимок статистики
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		ID:             s.ID.String(),
		Ticks:          s.ticks,
		Skipped:        s.skipped,
		Jumps:          s.jumps,
		Landings:       s.landings,
		Floor:          s.collisions[agent.FloorCollision],
		Ceiling:        s.collisions[agent.CeilingCollision],
		Wall:           s.collisions[agent.WallCollision],
		Slides:         s.slides,
		Clamps:         s.clamps,
		AirborneTicks:  s.airborne,
		MovingTicks:    s.moving,
		MinY:           s.minY,
		MaxY:           s.maxY,
		Last:           s.last,
		ElapsedSeconds: time.Since(s.StartedAt).Seconds(),
	}
}

// String возвращает краткую сводку для лога
func (st Stats) String() string {
	return fmt.Sprintf("session %s: ticks=%d skipped=%d jumps=%d landings=%d collisions(floor=%d ceiling=%d wall=%d) slides=%d clamps=%d moving=%d y=[%.3f..%.3f] final=(%.3f,%.3f,%.3f) grounded=%t",
		st.ID, st.Ticks, st.Skipped, st.Jumps, st.Landings, st.Floor, st.Ceiling, st.Wall,
		st.Slides, st.Clamps, st.MovingTicks, st.MinY, st.MaxY,
		st.Last.Position.X, st.Last.Position.Y, st.Last.Position.Z, st.Last.Grounded)
}
