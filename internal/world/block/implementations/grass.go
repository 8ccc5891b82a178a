package implementations

import "github.com/annel0/voxelwalk/internal/world/block"

// GrassBehavior реализует поведение блока травы.
// Трава всегда лежит поверх земли, генератор ставит её верхним блоком колонки.
type GrassBehavior struct{}

// ID возвращает идентификатор блока
func (b *GrassBehavior) ID() block.BlockID {
	return block.GrassBlockID
}

// Name возвращает имя блока
func (b *GrassBehavior) Name() string {
	return "Grass"
}

// IsSolid возвращает true
func (b *GrassBehavior) IsSolid() bool {
	return true
}
