package implementations

import "github.com/annel0/voxelwalk/internal/world/block"

// WaterBehavior реализует поведение блока воды.
// Вода не участвует в столкновениях: агент проходит сквозь неё и падает до дна.
type WaterBehavior struct{}

// ID возвращает идентификатор блока
func (b *WaterBehavior) ID() block.BlockID {
	return block.WaterBlockID
}

// Name возвращает имя блока
func (b *WaterBehavior) Name() string {
	return "Water"
}

// IsSolid возвращает false
func (b *WaterBehavior) IsSolid() bool {
	return false
}
