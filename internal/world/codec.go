package world

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world/block"
)

// Формат сериализованного объёма:
//
//	magic "VXW1" | uint16 X | uint16 Y | uint16 Z | X*Y*Z x uint16 BlockID
//
// Все числа little-endian, блоки в порядке x, y, z (z меняется быстрее всего).
var volumeMagic = [4]byte{'V', 'X', 'W', '1'}

var (
	// ErrBadMagic возвращается, если данные не являются сериализованным объёмом
	ErrBadMagic = errors.New("неизвестный формат объёма")
	// ErrTruncated возвращается, если данных меньше, чем требует заголовок
	ErrTruncated = errors.New("данные объёма обрезаны")
)

type volumeHeader struct {
	Magic   [4]byte
	X, Y, Z uint16
}

// EncodeVolume сериализует объём в бинарный формат.
// Стороны любого построенного объёма не превышают MaxSide, поэтому помещаются в uint16.
func EncodeVolume(v *Volume) []byte {
	var buf bytes.Buffer
	buf.Grow(10 + 2*len(v.blocks))

	header := volumeHeader{
		Magic: volumeMagic,
		X:     uint16(v.size.X),
		Y:     uint16(v.size.Y),
		Z:     uint16(v.size.Z),
	}
	// Запись в bytes.Buffer не возвращает ошибок
	_ = binary.Write(&buf, binary.LittleEndian, header)
	_ = binary.Write(&buf, binary.LittleEndian, v.blocks)

	return buf.Bytes()
}

// DecodeVolume восстанавливает объём из бинарного формата
func DecodeVolume(data []byte) (*Volume, error) {
	reader := bytes.NewReader(data)

	var header volumeHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: заголовок: %v", ErrTruncated, err)
	}
	if header.Magic != volumeMagic {
		return nil, ErrBadMagic
	}

	size := vec.Vec3{X: int(header.X), Y: int(header.Y), Z: int(header.Z)}
	if err := validateSize(size); err != nil {
		return nil, err
	}

	// Длину проверяем до выделения памяти под блоки
	if need := 2 * size.Volume(); reader.Len() < need {
		return nil, fmt.Errorf("%w: ожидалось %d байт блоков, получено %d", ErrTruncated, need, reader.Len())
	}

	builder, err := NewVolumeBuilder(size)
	if err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.LittleEndian, builder.blocks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	return builder.Build(), nil
}

// Blocks возвращает копию всех блоков объёма в порядке сериализации
func (v *Volume) Blocks() []block.BlockID {
	out := make([]block.BlockID, len(v.blocks))
	copy(out, v.blocks)
	return out
}
