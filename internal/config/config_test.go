package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 9.81, cfg.Physics.Gravity)
	assert.Equal(t, SourcePerlin, cfg.Volume.Source)
	assert.InDelta(t, 1.0/60.0, cfg.Simulation.TickInterval(), 1e-12)
}

func TestParse_OverridesDefaults(t *testing.T) {
	data := []byte(`
physics:
  gravity: 20
agent:
  speed: 3
  spawn: {x: 1.5, y: 9, z: 2.5}
volume:
  source: flat
  flat_height: 6
simulation:
  tick_rate: 30
  max_ticks: 600
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.Physics.Gravity)
	assert.Equal(t, 5.0, cfg.Physics.JumpVelocity, "Незаданные поля сохраняют значения по умолчанию")
	assert.Equal(t, 3.0, cfg.Agent.Speed)
	assert.Equal(t, Position{X: 1.5, Y: 9, Z: 2.5}, cfg.Agent.Spawn)
	assert.Equal(t, SourceFlat, cfg.Volume.Source)
	assert.Equal(t, 6, cfg.Volume.FlatHeight)
	assert.Equal(t, uint64(600), cfg.Simulation.MaxTicks)
	assert.InDelta(t, 1.0/30.0, cfg.Simulation.TickInterval(), 1e-12)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"отрицательная гравитация": "physics: {gravity: -1}",
		"нулевая скорость":         "agent: {speed: 0}",
		"неизвестный источник":     "volume: {source: lava}",
		"файл без пути":            "volume: {source: file}",
		"нулевой размер":           "volume: {size: 0}",
		"нулевая частота":          "simulation: {tick_rate: 0}",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}

	_, err := Parse([]byte("physics: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Setenv("VOXELWALK_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "voxelwalk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("volume: {seed: 42}\n"), 0644))

	t.Setenv("VOXELWALK_CONFIG", path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Volume.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetMetricsPort(t *testing.T) {
	m := MetricsConfig{Port: 9100}
	assert.Equal(t, 9100, m.GetMetricsPort())

	m.Port = 0
	t.Setenv("VOXELWALK_METRICS_PORT", "9200")
	assert.Equal(t, 9200, m.GetMetricsPort())

	t.Setenv("VOXELWALK_METRICS_PORT", "not-a-port")
	assert.Equal(t, 2112, m.GetMetricsPort())
}
