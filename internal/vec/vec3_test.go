package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Float_CrossIsOrthogonal(t *testing.T) {
	a := Vec3Float{X: 1, Y: 2, Z: 3}
	b := Vec3Float{X: -4, Y: 0.5, Z: 2}

	c := a.Cross(b)

	assert.InDelta(t, 0, c.Dot(a), 1e-9, "Векторное произведение должно быть ортогонально a")
	assert.InDelta(t, 0, c.Dot(b), 1e-9, "Векторное произведение должно быть ортогонально b")
	assert.Equal(t, Vec3Float{X: 0, Y: 0, Z: 1}, Vec3Float{X: 1}.Cross(Vec3Float{Y: 1}))
}

func TestVec3Float_Normalized(t *testing.T) {
	v := Vec3Float{X: 3, Y: 0, Z: 4}.Normalized()
	assert.InDelta(t, 1.0, v.Length(), 1e-12)
	assert.InDelta(t, 0.6, v.X, 1e-12)

	// Нулевой вектор остаётся нулевым, без NaN
	zero := Vec3Float{}.Normalized()
	assert.True(t, zero.IsZero())
	assert.True(t, zero.IsFinite())
}

func TestVec3Float_Horizontal(t *testing.T) {
	// Взгляд почти вертикально вниз не должен уменьшать горизонтальную скорость
	v := Vec3Float{X: 0.1, Y: -0.99, Z: 0}.Horizontal()
	assert.InDelta(t, 1.0, v.Length(), 1e-12)
	assert.Equal(t, 0.0, v.Y)

	assert.True(t, Vec3Float{Y: 1}.Horizontal().IsZero(), "Чисто вертикальный вектор даёт ноль")
}

func TestVec3Float_Floor(t *testing.T) {
	assert.Equal(t, Vec3{X: 8, Y: 9, Z: -1}, Vec3Float{X: 8.99, Y: 9, Z: -0.2}.Floor())
}

func TestVec3Float_IsFinite(t *testing.T) {
	assert.True(t, Vec3Float{X: 1, Y: 2, Z: 3}.IsFinite())
	assert.False(t, Vec3Float{X: math.NaN()}.IsFinite())
	assert.False(t, Vec3Float{Z: math.Inf(-1)}.IsFinite())
}

func TestVec3_Volume(t *testing.T) {
	assert.Equal(t, 4096, Vec3{X: 16, Y: 16, Z: 16}.Volume())
	assert.Equal(t, 0, Vec3{X: 16, Y: 0, Z: 16}.Volume())
	assert.Equal(t, 0, Vec3{X: -1, Y: 2, Z: 2}.Volume())
}

func TestLookAt_EyeMapsToOrigin(t *testing.T) {
	eye := Vec3Float{X: 8, Y: 15, Z: 8}
	front := Vec3Float{X: 0, Y: 0, Z: -1}

	view := LookAt(eye, eye.Add(front), WorldUp)

	origin := view.MulPoint(eye)
	assert.InDelta(t, 0, origin.Length(), 1e-9, "Позиция камеры должна переходить в начало координат")

	// Точка перед камерой оказывается на отрицательной оси Z пространства камеры
	ahead := view.MulPoint(eye.Add(front.Mul(5)))
	assert.InDelta(t, -5, ahead.Z, 1e-9)
	assert.InDelta(t, 0, ahead.X, 1e-9)
	assert.InDelta(t, 0, ahead.Y, 1e-9)
}
