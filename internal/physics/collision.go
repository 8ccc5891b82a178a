package physics

import (
	"github.com/annel0/voxelwalk/internal/vec"
)

// VoxelQuery - то, что физике нужно знать об объёме
type VoxelQuery interface {
	IsSolid(x, y, z int) bool
}

// CollisionResult описывает первое найденное пересечение с вокселем
type CollisionResult struct {
	Collided bool
	// Normal - нормаль разделяющей оси: ровно одна ненулевая компонента (±1)
	// при Collided, нулевой вектор иначе. Указывает, в какую сторону выталкивать агента.
	Normal vec.Vec3Float
	// Cell - координаты вокселя, с которым произошло столкновение
	Cell vec.Vec3
}

// scanOffsets - окно поиска 3x3x2 вокруг ступней в порядке возрастания (dx, dy, dz)
var scanOffsets = func() []vec.Vec3 {
	offsets := make([]vec.Vec3, 0, 18)
	for dx := -1; dx <= 1; dx++ {
		for dy := 0; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				offsets = append(offsets, vec.Vec3{X: dx, Y: dy, Z: dz})
			}
		}
	}
	return offsets
}()

// CheckCollision проверяет, пересекается ли агент с габаритами body, стоящий в pos,
// с твёрдыми вокселями. Возвращается первое пересечение в порядке обхода окна.
// Функция чистая: результат зависит только от объёма, габаритов и позиции.
func CheckCollision(q VoxelQuery, body Body, pos vec.Vec3Float) CollisionResult {
	box := body.AABBAt(pos)
	base := pos.Floor()

	for _, off := range scanOffsets {
		cell := base.Add(off)
		if !q.IsSolid(cell.X, cell.Y, cell.Z) {
			continue
		}

		voxel := VoxelAABB(cell)
		if !box.Intersects(voxel) {
			continue
		}

		return CollisionResult{
			Collided: true,
			Normal:   separatingNormal(pos, cell, box.Penetration(voxel)),
			Cell:     cell,
		}
	}

	return CollisionResult{}
}

// separatingNormal выбирает ось наименьшего проникновения (при равенстве X, затем Y, затем Z)
// и знак по смещению ступней относительно центра вокселя: pos >= центра даёт +1.
// Нормаль намеренно одна и направлена наружу из вокселя: приземление даёт +Y, потолок -Y.
func separatingNormal(pos vec.Vec3Float, cell vec.Vec3, pen vec.Vec3Float) vec.Vec3Float {
	center := cell.ToFloat()

	switch {
	case pen.X <= pen.Y && pen.X <= pen.Z:
		return vec.Vec3Float{X: axisSign(pos.X, center.X)}
	case pen.Y <= pen.Z:
		return vec.Vec3Float{Y: axisSign(pos.Y, center.Y)}
	default:
		return vec.Vec3Float{Z: axisSign(pos.Z, center.Z)}
	}
}

func axisSign(p, center float64) float64 {
	if p < center {
		return -1
	}
	return 1
}

// IsBlocked сообщает, занята ли позиция твёрдыми вокселями
func IsBlocked(q VoxelQuery, body Body, pos vec.Vec3Float) bool {
	return CheckCollision(q, body, pos).Collided
}
