package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrVolumeNotFound возвращается, если объёма с таким именем нет
	ErrVolumeNotFound = errors.New("объём не найден")
	// ErrStorageClosed возвращается при обращении к закрытому хранилищу
	ErrStorageClosed = errors.New("хранилище не готово")
)

const (
	volumePrefix = "volume:"
	metaPrefix   = "meta:"
)

// VolumeMeta - сведения об объёме, доступные без распаковки
type VolumeMeta struct {
	Name    string    `json:"name"`
	Size    vec.Vec3  `json:"size"`
	Solid   int       `json:"solid"`
	Bytes   int       `json:"bytes"` // размер сжатых данных
	SavedAt time.Time `json:"saved_at"`
}

// VolumeStorage представляет собой хранилище именованных объёмов в BadgerDB
type VolumeStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewVolumeStorage открывает хранилище в каталоге dataPath
func NewVolumeStorage(dataPath string) (*VolumeStorage, error) {
	dbPath := filepath.Join(dataPath, "volumes")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	return openVolumeStorage(opts, dbPath)
}

// NewMemoryVolumeStorage создаёт хранилище в памяти (для тестов и разовых прогонов)
func NewMemoryVolumeStorage() (*VolumeStorage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return openVolumeStorage(opts, "")
}

func openVolumeStorage(opts badger.Options, dbPath string) (*VolumeStorage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	// EncodeAll/DecodeAll безопасны для одновременного использования
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("создание zstd кодера: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("создание zstd декодера: %w", err)
	}

	return &VolumeStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Path возвращает каталог базы (пусто для хранилища в памяти)
func (vs *VolumeStorage) Path() string { return vs.dbPath }

// Close закрывает хранилище данных
func (vs *VolumeStorage) Close() error {
	vs.mutex.Lock()
	defer vs.mutex.Unlock()

	if !vs.isReady {
		return nil
	}

	vs.isReady = false
	vs.encoder.Close()
	vs.decoder.Close()
	return vs.db.Close()
}

// SaveVolume сохраняет объём под именем name, перезаписывая прежний
func (vs *VolumeStorage) SaveVolume(name string, v *world.Volume) (VolumeMeta, error) {
	vs.mutex.RLock()
	defer vs.mutex.RUnlock()

	if !vs.isReady {
		return VolumeMeta{}, ErrStorageClosed
	}
	if name == "" || strings.ContainsRune(name, ':') {
		return VolumeMeta{}, fmt.Errorf("недопустимое имя объёма %q", name)
	}

	data := vs.encoder.EncodeAll(world.EncodeVolume(v), nil)
	meta := VolumeMeta{
		Name:    name,
		Size:    v.Size(),
		Solid:   v.SolidCount(),
		Bytes:   len(data),
		SavedAt: time.Now().UTC(),
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return meta, fmt.Errorf("ошибка сериализации метаданных: %w", err)
	}

	err = vs.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(volumePrefix+name), data); err != nil {
			return err
		}
		return txn.Set([]byte(metaPrefix+name), metaData)
	})
	if err != nil {
		return meta, fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	return meta, nil
}

// LoadVolume загружает объём по имени
func (vs *VolumeStorage) LoadVolume(name string) (*world.Volume, error) {
	vs.mutex.RLock()
	defer vs.mutex.RUnlock()

	if !vs.isReady {
		return nil, ErrStorageClosed
	}

	var data []byte
	err := vs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(volumePrefix + name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVolumeNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	raw, err := vs.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("распаковка объёма %s: %w", name, err)
	}
	v, err := world.DecodeVolume(raw)
	if err != nil {
		return nil, fmt.Errorf("объём %s: %w", name, err)
	}
	return v, nil
}

// DeleteVolume удаляет объём; отсутствие объёма ошибкой не считается
func (vs *VolumeStorage) DeleteVolume(name string) error {
	vs.mutex.RLock()
	defer vs.mutex.RUnlock()

	if !vs.isReady {
		return ErrStorageClosed
	}

	return vs.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(volumePrefix + name)); err != nil {
			return err
		}
		return txn.Delete([]byte(metaPrefix + name))
	})
}

// ListVolumes возвращает метаданные всех сохранённых объёмов в порядке имён
func (vs *VolumeStorage) ListVolumes() ([]VolumeMeta, error) {
	vs.mutex.RLock()
	defer vs.mutex.RUnlock()

	if !vs.isReady {
		return nil, ErrStorageClosed
	}

	var metas []VolumeMeta
	err := vs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(metaPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var meta VolumeMeta
				if err := json.Unmarshal(val, &meta); err != nil {
					return err
				}
				metas = append(metas, meta)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка объёмов: %w", err)
	}
	return metas, nil
}
