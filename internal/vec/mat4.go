package vec

// Mat4 - матрица 4x4, хранится по столбцам (column-major), как ожидает OpenGL
type Mat4 [16]float64

// Identity возвращает единичную матрицу
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At возвращает элемент в строке row и столбце col
func (m Mat4) At(row, col int) float64 {
	return m[col*4+row]
}

// MulPoint применяет матрицу к точке (w = 1)
func (m Mat4) MulPoint(p Vec3Float) Vec3Float {
	return Vec3Float{
		X: m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2)*p.Z + m.At(0, 3),
		Y: m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2)*p.Z + m.At(1, 3),
		Z: m.At(2, 0)*p.X + m.At(2, 1)*p.Y + m.At(2, 2)*p.Z + m.At(2, 3),
	}
}

// LookAt строит правостороннюю видовую матрицу: камера в eye смотрит на center
func LookAt(eye, center, up Vec3Float) Mat4 {
	f := center.Sub(eye).Normalized()
	s := f.Cross(up).Normalized()
	u := s.Cross(f)

	m := Identity()
	m[0], m[4], m[8] = s.X, s.Y, s.Z
	m[1], m[5], m[9] = u.X, u.Y, u.Z
	m[2], m[6], m[10] = -f.X, -f.Y, -f.Z
	m[12] = -s.Dot(eye)
	m[13] = -u.Dot(eye)
	m[14] = f.Dot(eye)
	return m
}
