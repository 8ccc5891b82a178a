package implementations

import "github.com/annel0/voxelwalk/internal/world/block"

// DeepWaterBehavior реализует поведение глубокой воды (ниже уровня DeepWaterMax генератора)
type DeepWaterBehavior struct{}

// ID возвращает идентификатор блока
func (b *DeepWaterBehavior) ID() block.BlockID {
	return block.DeepWaterBlockID
}

// Name возвращает имя блока
func (b *DeepWaterBehavior) Name() string {
	return "Deep Water"
}

// IsSolid возвращает false
func (b *DeepWaterBehavior) IsSolid() bool {
	return false
}
