package world

import (
	"errors"
	"fmt"

	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world/block"
)

const (
	// ChunkSize - сторона стандартного объёма (16x16x16)
	ChunkSize = 16

	// NoGround возвращается TerrainHeight для пустой колонки или колонки вне сетки
	NoGround = -1

	// MaxSide - максимальная сторона объёма, помещающаяся в заголовок сериализации
	MaxSide = 1024
)

// ErrInvalidSize возвращается при попытке создать объём с неположительным или слишком большим размером
var ErrInvalidSize = errors.New("недопустимый размер объёма")

// Query - доступ к объёму только для чтения, нужный физике и контроллеру агента
type Query interface {
	// IsSolid возвращает true, если воксель твёрдый; вне сетки всегда false
	IsSolid(x, y, z int) bool
	// TerrainHeight возвращает высоту поверхности колонки или NoGround
	TerrainHeight(x, z int) int
}

// Volume - неизменяемая трёхмерная сетка блоков.
// После Build изменения невозможны, поэтому Volume безопасен для одновременного чтения.
type Volume struct {
	size    vec.Vec3
	blocks  []block.BlockID
	solid   []bool
	heights []int // высота поверхности для каждой колонки, индекс x*size.Z+z
}

// Size возвращает размеры объёма
func (v *Volume) Size() vec.Vec3 {
	return v.size
}

// InBounds проверяет, что координаты лежат внутри сетки
func (v *Volume) InBounds(x, y, z int) bool {
	return x >= 0 && x < v.size.X &&
		y >= 0 && y < v.size.Y &&
		z >= 0 && z < v.size.Z
}

// Block возвращает ID блока; вне сетки - воздух
func (v *Volume) Block(x, y, z int) block.BlockID {
	if !v.InBounds(x, y, z) {
		return block.AirBlockID
	}
	return v.blocks[v.index(x, y, z)]
}

// IsSolid возвращает false для любых координат вне сетки
func (v *Volume) IsSolid(x, y, z int) bool {
	if !v.InBounds(x, y, z) {
		return false
	}
	return v.solid[v.index(x, y, z)]
}

// TerrainHeight возвращает высоту, на которой стоят ноги агента над колонкой (x, z):
// индекс самого верхнего твёрдого вокселя плюс один. Для пустой колонки - NoGround.
func (v *Volume) TerrainHeight(x, z int) int {
	if x < 0 || x >= v.size.X || z < 0 || z >= v.size.Z {
		return NoGround
	}
	return v.heights[x*v.size.Z+z]
}

// HighestSolid возвращает индекс самого верхнего твёрдого вокселя колонки
func (v *Volume) HighestSolid(x, z int) (int, bool) {
	h := v.TerrainHeight(x, z)
	if h == NoGround {
		return 0, false
	}
	return h - 1, true
}

// SolidCount возвращает количество твёрдых вокселей
func (v *Volume) SolidCount() int {
	count := 0
	for _, s := range v.solid {
		if s {
			count++
		}
	}
	return count
}

func (v *Volume) index(x, y, z int) int {
	return (x*v.size.Y+y)*v.size.Z + z
}

// VolumeBuilder наполняет объём до начала симуляции
type VolumeBuilder struct {
	size   vec.Vec3
	blocks []block.BlockID
}

// NewVolumeBuilder создаёт построитель объёма с указанными размерами, заполненного воздухом
func NewVolumeBuilder(size vec.Vec3) (*VolumeBuilder, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}
	return &VolumeBuilder{
		size:   size,
		blocks: make([]block.BlockID, size.Volume()),
	}, nil
}

func validateSize(size vec.Vec3) error {
	if size.Volume() == 0 || size.X > MaxSide || size.Y > MaxSide || size.Z > MaxSide {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidSize, size.X, size.Y, size.Z)
	}
	return nil
}

// NewChunkBuilder создаёт построитель стандартного объёма 16x16x16
func NewChunkBuilder() *VolumeBuilder {
	b, _ := NewVolumeBuilder(vec.Vec3{X: ChunkSize, Y: ChunkSize, Z: ChunkSize})
	return b
}

// Size возвращает размеры будущего объёма
func (b *VolumeBuilder) Size() vec.Vec3 {
	return b.size
}

// Set устанавливает блок. Возвращает false, если координаты вне сетки.
func (b *VolumeBuilder) Set(x, y, z int, id block.BlockID) bool {
	if x < 0 || x >= b.size.X || y < 0 || y >= b.size.Y || z < 0 || z >= b.size.Z {
		return false
	}
	b.blocks[(x*b.size.Y+y)*b.size.Z+z] = id
	return true
}

// SetSolid ставит камень в указанную ячейку
func (b *VolumeBuilder) SetSolid(x, y, z int) bool {
	return b.Set(x, y, z, block.StoneBlockID)
}

// FillColumn заполняет колонку (x, z) блоком id от fromY до toY включительно
func (b *VolumeBuilder) FillColumn(x, z, fromY, toY int, id block.BlockID) {
	for y := fromY; y <= toY; y++ {
		b.Set(x, y, z, id)
	}
}

// FillLayer заполняет горизонтальный слой y целиком
func (b *VolumeBuilder) FillLayer(y int, id block.BlockID) {
	for x := 0; x < b.size.X; x++ {
		for z := 0; z < b.size.Z; z++ {
			b.Set(x, y, z, id)
		}
	}
}

// Build фиксирует содержимое: вычисляет твёрдость и кэш высот колонок.
// Построитель можно продолжать использовать, готовый объём от этого не меняется.
func (b *VolumeBuilder) Build() *Volume {
	v := &Volume{
		size:    b.size,
		blocks:  make([]block.BlockID, len(b.blocks)),
		solid:   make([]bool, len(b.blocks)),
		heights: make([]int, b.size.X*b.size.Z),
	}
	copy(v.blocks, b.blocks)

	for i, id := range v.blocks {
		v.solid[i] = block.IsSolid(id)
	}

	// Кэшируем высоты колонок сверху вниз
	for x := 0; x < b.size.X; x++ {
		for z := 0; z < b.size.Z; z++ {
			height := NoGround
			for y := b.size.Y - 1; y >= 0; y-- {
				if v.solid[v.index(x, y, z)] {
					height = y + 1
					break
				}
			}
			v.heights[x*b.size.Z+z] = height
		}
	}

	return v
}
