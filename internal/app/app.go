package app

import (
	"fmt"

	"github.com/annel0/voxelwalk/internal/agent"
	"github.com/annel0/voxelwalk/internal/config"
	"github.com/annel0/voxelwalk/internal/logging"
	"github.com/annel0/voxelwalk/internal/physics"
	"github.com/annel0/voxelwalk/internal/storage"
	"github.com/annel0/voxelwalk/internal/vec"
	"github.com/annel0/voxelwalk/internal/world"
	// Регистрация поведений блоков
	_ "github.com/annel0/voxelwalk/internal/world/block/implementations"
)

// BuildVolume создаёт объём из источника, указанного в конфигурации
func BuildVolume(cfg config.VolumeConfig) (*world.Volume, string, error) {
	var (
		v      *world.Volume
		source string
		err    error
	)

	switch cfg.Source {
	case config.SourcePerlin, "":
		gen := world.NewWorldGenerator(cfg.Seed)
		gen.Size = cubicSize(cfg.Size)
		v, err = gen.Generate()
		source = fmt.Sprintf("perlin:%d", cfg.Seed)

	case config.SourceFlat:
		gen := world.NewFlatGenerator(cfg.FlatHeight)
		gen.Size = cubicSize(cfg.Size)
		v, err = gen.Generate()
		source = fmt.Sprintf("flat:%d", cfg.FlatHeight)

	case config.SourceFile:
		v, _, err = storage.ReadVolumeFile(cfg.Path)
		source = "file:" + cfg.Path

	case config.SourceStore:
		var vs *storage.VolumeStorage
		vs, err = storage.NewVolumeStorage(cfg.DataDir)
		if err != nil {
			return nil, "", err
		}
		defer vs.Close()
		v, err = vs.LoadVolume(cfg.Key)
		source = "store:" + cfg.Key

	default:
		return nil, "", fmt.Errorf("неизвестный источник объёма %q", cfg.Source)
	}

	if err != nil {
		return nil, source, fmt.Errorf("построение объёма (%s): %w", source, err)
	}

	size := v.Size()
	logging.LogVolumeLoaded(logging.GetStorageLogger(), source, size.X, size.Y, size.Z, v.SolidCount())
	return v, source, nil
}

// Params переводит конфигурацию в параметры движения агента
func Params(cfg *config.Config) agent.Params {
	return agent.Params{
		Speed:        cfg.Agent.Speed,
		SprintSpeed:  cfg.Agent.SprintSpeed,
		JumpVelocity: cfg.Physics.JumpVelocity,
		Gravity:      cfg.Physics.Gravity,
		Sensitivity:  cfg.Agent.Sensitivity,
		Body: physics.Body{
			HalfWidth: cfg.Physics.BodyHalfWidth,
			Height:    cfg.Physics.BodyHeight,
		},
	}
}

// Spawn возвращает точку появления из конфигурации
func Spawn(cfg *config.Config) vec.Vec3Float {
	return vec.Vec3Float{X: cfg.Agent.Spawn.X, Y: cfg.Agent.Spawn.Y, Z: cfg.Agent.Spawn.Z}
}

// NewController создаёт контроллер агента по конфигурации в объёме v
func NewController(cfg *config.Config, v world.Query) (*agent.Controller, error) {
	return agent.NewController(v, Params(cfg), Spawn(cfg), cfg.Agent.Yaw, cfg.Agent.Pitch)
}

func cubicSize(n int) vec.Vec3 {
	if n <= 0 {
		n = world.ChunkSize
	}
	return vec.Vec3{X: n, Y: n, Z: n}
}
