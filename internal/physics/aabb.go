package physics

import (
	"math"

	"github.com/annel0/voxelwalk/internal/vec"
)

// voxelHalf - половина стороны вокселя. Воксель (bx, by, bz) занимает [b-0.5, b+0.5] по каждой оси.
const voxelHalf = 0.5

// AABB - выровненный по осям ограничивающий параллелепипед
type AABB struct {
	Min vec.Vec3Float
	Max vec.Vec3Float
}

// VoxelAABB возвращает параллелепипед вокселя с центром в целочисленных координатах
func VoxelAABB(cell vec.Vec3) AABB {
	c := cell.ToFloat()
	return AABB{
		Min: vec.Vec3Float{X: c.X - voxelHalf, Y: c.Y - voxelHalf, Z: c.Z - voxelHalf},
		Max: vec.Vec3Float{X: c.X + voxelHalf, Y: c.Y + voxelHalf, Z: c.Z + voxelHalf},
	}
}

// Intersects проверяет строгое пересечение интервалов по всем трём осям.
// Касание гранями пересечением не считается.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X &&
		a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y &&
		a.Min.Z < b.Max.Z && a.Max.Z > b.Min.Z
}

// Penetration возвращает глубину взаимного проникновения по каждой оси
// (минимальный сдвиг, разделяющий интервалы). Осмысленно только при Intersects.
func (a AABB) Penetration(b AABB) vec.Vec3Float {
	return vec.Vec3Float{
		X: math.Min(a.Max.X-b.Min.X, b.Max.X-a.Min.X),
		Y: math.Min(a.Max.Y-b.Min.Y, b.Max.Y-a.Min.Y),
		Z: math.Min(a.Max.Z-b.Min.Z, b.Max.Z-a.Min.Z),
	}
}

// Body описывает габариты агента
type Body struct {
	HalfWidth float64 // Половина ширины по X и Z
	Height    float64 // Высота от ступней
}

// DefaultBody - габариты игрока: 0.6 x 1.8
var DefaultBody = Body{HalfWidth: 0.3, Height: 1.8}

// AABBAt возвращает параллелепипед агента, стоящего ступнями в точке feet
func (b Body) AABBAt(feet vec.Vec3Float) AABB {
	return AABB{
		Min: vec.Vec3Float{X: feet.X - b.HalfWidth, Y: feet.Y, Z: feet.Z - b.HalfWidth},
		Max: vec.Vec3Float{X: feet.X + b.HalfWidth, Y: feet.Y + b.Height, Z: feet.Z + b.HalfWidth},
	}
}
