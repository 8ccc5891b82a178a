package agent

// Input - состояние ввода на один тик. Источник ввода опрашивается каждый кадр.
type Input struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool
	Sprint  bool

	// Положение курсора в пикселях экрана; учитывается только при HasCursor
	CursorX   float64
	CursorY   float64
	HasCursor bool
}

// Moving сообщает, зажата ли хотя бы одна клавиша направления
func (in Input) Moving() bool {
	return in.Forward || in.Back || in.Left || in.Right
}
