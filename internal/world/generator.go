package world

import (
	"math"

	"github.com/annel0/voxelwalk/internal/util"
	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world/block"
)

// BiomeType представляет тип биома
type BiomeType int

const (
	BiomePlains BiomeType = iota
	BiomeDesert
	BiomeForest
	BiomeMountains
	BiomeWater
	BiomeDeepWater
)

// Константы высот для генерации (доли от 0 до 1)
const (
	DeepWaterMax    = 0.20 // Ниже - глубинная вода
	ShallowWaterMax = 0.30 // Ниже - мелководье
	MountainStart   = 0.80 // Выше - горы
)

// Generator строит объём до начала симуляции
type Generator interface {
	Generate() (*Volume, error)
}

// WorldGenerator генерирует ландшафт по карте высот из шума Перлина
type WorldGenerator struct {
	Seed       int64    // Сид для генерации шума
	Size       vec.Vec3 // Размер объёма
	NoiseScale float64  // Масштаб основного шума (высота)
	BiomeScale float64  // Масштаб шума биомов
	MinHeight  int      // Минимальная высота поверхности
	MaxHeight  int      // Максимальная высота поверхности
}

// NewWorldGenerator создаёт новый генератор мира для стандартного объёма 16x16x16
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:       seed,
		Size:       vec.Vec3{X: ChunkSize, Y: ChunkSize, Z: ChunkSize},
		NoiseScale: 0.08, // Настройка сглаженности ландшафта
		BiomeScale: 0.02, // Настройка размера биомов
		MinHeight:  2,
		MaxHeight:  ChunkSize - 4,
	}
}

// Generate строит объём: каждая колонка заполняется до высоты, заданной шумом
func (wg *WorldGenerator) Generate() (*Volume, error) {
	builder, err := NewVolumeBuilder(wg.Size)
	if err != nil {
		return nil, err
	}

	heightNoise := util.NewNoise(wg.Seed)
	biomeNoise := util.NewNoise(wg.Seed + 42)

	minH, maxH := wg.heightRange()
	waterLevel := minH + int(math.Round(ShallowWaterMax*float64(maxH-minH)))

	for x := 0; x < wg.Size.X; x++ {
		for z := 0; z < wg.Size.Z; z++ {
			// Генерация высоты на основе шума Перлина
			height := heightNoise.Noise2D(float64(x)*wg.NoiseScale, float64(z)*wg.NoiseScale)
			biomeValue := biomeNoise.Noise2D(float64(x)*wg.BiomeScale, float64(z)*wg.BiomeScale)
			biome := wg.getBiomeType(height, biomeValue)

			top := minH + int(math.Round(height*float64(maxH-minH)))
			surfaceID, fillerID := wg.getBlocksForBiome(biome)

			// Камень в основании, затем слой наполнителя и поверхность
			builder.FillColumn(x, z, 0, top-3, block.StoneBlockID)
			builder.FillColumn(x, z, max(top-2, 0), top-1, fillerID)
			builder.Set(x, top, z, surfaceID)

			// Заливаем низины водой до уровня моря
			for y := top + 1; y <= waterLevel; y++ {
				if biome == BiomeDeepWater {
					builder.Set(x, y, z, block.DeepWaterBlockID)
				} else {
					builder.Set(x, y, z, block.WaterBlockID)
				}
			}
		}
	}

	return builder.Build(), nil
}

// heightRange ограничивает диапазон высот размерами объёма
func (wg *WorldGenerator) heightRange() (int, int) {
	minH := max(wg.MinHeight, 0)
	maxH := min(wg.MaxHeight, wg.Size.Y-1)
	if maxH < minH {
		maxH = minH
	}
	return minH, maxH
}

// getBlocksForBiome возвращает верхний блок и блок наполнителя для биома
func (wg *WorldGenerator) getBlocksForBiome(biome BiomeType) (surface, filler block.BlockID) {
	switch biome {
	case BiomeDesert, BiomeWater, BiomeDeepWater:
		return block.SandBlockID, block.SandBlockID
	case BiomeMountains:
		return block.StoneBlockID, block.StoneBlockID
	default:
		return block.GrassBlockID, block.DirtBlockID
	}
}

// getBiomeType определяет тип биома на основе значений шума
func (wg *WorldGenerator) getBiomeType(height, biomeValue float64) BiomeType {
	// Водные биомы в низинах
	if height < DeepWaterMax {
		return BiomeDeepWater
	}
	if height < ShallowWaterMax {
		return BiomeWater
	}

	// Горные биомы на возвышенностях
	if height > MountainStart {
		return BiomeMountains
	}

	// Для средних высот выбираем биом на основе biomeValue
	if biomeValue < 0.35 {
		return BiomeDesert
	} else if biomeValue > 0.65 {
		return BiomeForest
	}

	return BiomePlains
}

// FlatGenerator строит ровный пол заданной высоты
type FlatGenerator struct {
	Size   vec.Vec3
	Height int // Высота поверхности: заполняются слои 0..Height-1
	Block  block.BlockID
}

// NewFlatGenerator создаёт генератор ровного каменного пола в объёме 16x16x16
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{
		Size:   vec.Vec3{X: ChunkSize, Y: ChunkSize, Z: ChunkSize},
		Height: height,
		Block:  block.StoneBlockID,
	}
}

// Generate строит объём с ровным полом
func (fg *FlatGenerator) Generate() (*Volume, error) {
	builder, err := NewVolumeBuilder(fg.Size)
	if err != nil {
		return nil, err
	}
	for y := 0; y < fg.Height; y++ {
		builder.FillLayer(y, fg.Block)
	}
	return builder.Build(), nil
}
