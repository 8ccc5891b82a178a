package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world"
	"github.com/klauspost/compress/zstd"
)

// SnapshotFormat - версия формата файла снимка
const SnapshotFormat = "voxelwalk.volume.v1"

// SnapshotHeader - первая строка файла снимка (JSON), читается без разбора тела
type SnapshotHeader struct {
	Format    string    `json:"format"`
	Size      vec.Vec3  `json:"size"`
	Solid     int       `json:"solid"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WriteVolumeFile сохраняет объём в файл: строка заголовка и тело кодека, всё под zstd
func WriteVolumeFile(path string, v *world.Volume, source string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("создание каталога %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("открытие %s: %w", path, err)
	}
	defer f.Close()

	if err := writeSnapshot(f, v, source); err != nil {
		return fmt.Errorf("запись снимка %s: %w", path, err)
	}
	return f.Close()
}

func writeSnapshot(w io.Writer, v *world.Volume, source string) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)

	header := SnapshotHeader{
		Format:    SnapshotFormat,
		Size:      v.Size(),
		Solid:     v.SolidCount(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	hb, err := json.Marshal(header)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := bw.Write(world.EncodeVolume(v)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadVolumeFile загружает объём, сохранённый WriteVolumeFile
func ReadVolumeFile(path string) (*world.Volume, SnapshotHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, SnapshotHeader{}, fmt.Errorf("открытие %s: %w", path, err)
	}
	defer f.Close()

	v, header, err := readSnapshot(f)
	if err != nil {
		return nil, header, fmt.Errorf("чтение снимка %s: %w", path, err)
	}
	return v, header, nil
}

// ReadVolumeHeader читает только заголовок снимка
func ReadVolumeHeader(path string) (SnapshotHeader, error) {
	var header SnapshotHeader
	f, err := os.Open(path)
	if err != nil {
		return header, fmt.Errorf("открытие %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return header, err
	}
	defer dec.Close()

	header, err = readHeader(bufio.NewReader(dec))
	return header, err
}

func readSnapshot(r io.Reader) (*world.Volume, SnapshotHeader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, SnapshotHeader{}, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	header, err := readHeader(br)
	if err != nil {
		return nil, header, err
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, header, err
	}
	v, err := world.DecodeVolume(body)
	if err != nil {
		return nil, header, err
	}
	if v.Size() != header.Size {
		return nil, header, fmt.Errorf("размер в заголовке %v не совпадает с телом %v", header.Size, v.Size())
	}
	return v, header, nil
}

func readHeader(br *bufio.Reader) (SnapshotHeader, error) {
	var header SnapshotHeader
	line, err := br.ReadBytes('\n')
	if err != nil {
		return header, fmt.Errorf("заголовок снимка: %w", err)
	}
	if err := json.Unmarshal(line, &header); err != nil {
		return header, fmt.Errorf("заголовок снимка: %w", err)
	}
	if header.Format != SnapshotFormat {
		return header, fmt.Errorf("неподдерживаемый формат снимка %q", header.Format)
	}
	return header, nil
}
