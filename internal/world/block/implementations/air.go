package implementations

import "github.com/annel0/voxelwalk/internal/world/block"

// AirBehavior реализует поведение пустого блока (воздуха)
type AirBehavior struct{}

// ID возвращает идентификатор блока
func (b *AirBehavior) ID() block.BlockID {
	return block.AirBlockID
}

// Name возвращает имя блока
func (b *AirBehavior) Name() string {
	return "Air"
}

// IsSolid возвращает false, сквозь воздух можно проходить
func (b *AirBehavior) IsSolid() bool {
	return false
}
