package implementations

import "github.com/annel0/voxelwalk/internal/world/block"

// Регистрируем все типы блоков при импорте пакета
func init() {
	// Базовые блоки
	block.Register(block.AirBlockID, &AirBehavior{})
	block.Register(block.StoneBlockID, &StoneBehavior{})
	block.Register(block.GrassBlockID, &GrassBehavior{})
	block.Register(block.WaterBlockID, &WaterBehavior{})
	block.Register(block.SandBlockID, &SandBehavior{})
	block.Register(block.DirtBlockID, &DirtBehavior{})
	block.Register(block.DeepWaterBlockID, &DeepWaterBehavior{})
}
