package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается Validate для некорректных значений
var ErrInvalidConfig = errors.New("некорректная конфигурация")

// Источники объёма
const (
	SourcePerlin = "perlin"
	SourceFlat   = "flat"
	SourceFile   = "file"
	SourceStore  = "store"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Agent      AgentConfig      `yaml:"agent"`
	Volume     VolumeConfig     `yaml:"volume"`
	Simulation SimulationConfig `yaml:"simulation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	JumpVelocity  float64 `yaml:"jump_velocity"`
	BodyHalfWidth float64 `yaml:"body_half_width"`
	BodyHeight    float64 `yaml:"body_height"`
}

type AgentConfig struct {
	Speed       float64  `yaml:"speed"`
	SprintSpeed float64  `yaml:"sprint_speed"`
	Sensitivity float64  `yaml:"sensitivity"`
	Spawn       Position `yaml:"spawn"`
	Yaw         float64  `yaml:"yaw"`
	Pitch       float64  `yaml:"pitch"`
}

// Position - точка в мировых координатах
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type VolumeConfig struct {
	Source     string `yaml:"source"` // perlin | flat | file | store
	Seed       int64  `yaml:"seed"`
	Size       int    `yaml:"size"`
	FlatHeight int    `yaml:"flat_height"`
	Path       string `yaml:"path"`     // файл снимка для source=file
	DataDir    string `yaml:"data_dir"` // каталог badger для source=store
	Key        string `yaml:"key"`      // имя объёма в хранилище
}

type SimulationConfig struct {
	TickRate int    `yaml:"tick_rate"` // тиков в секунду
	MaxTicks uint64 `yaml:"max_ticks"` // 0 - без ограничения
	Script   string `yaml:"script"`   // YAML-сценарий ввода
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	FileLevel string `yaml:"file_level"`
	Dir       string `yaml:"dir"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Physics: PhysicsConfig{
			Gravity:       9.81,
			JumpVelocity:  5.0,
			BodyHalfWidth: 0.3,
			BodyHeight:    1.8,
		},
		Agent: AgentConfig{
			Speed:       5.0,
			SprintSpeed: 10.0,
			Sensitivity: 0.1,
			Spawn:       Position{X: 8, Y: 14, Z: 8},
			Yaw:         -90,
		},
		Volume: VolumeConfig{
			Source:     SourcePerlin,
			Seed:       1,
			Size:       16,
			FlatHeight: 4,
			DataDir:    "data/volumes",
			Key:        "default",
		},
		Simulation: SimulationConfig{
			TickRate: 60,
		},
		Metrics: MetricsConfig{
			Port: 2112,
		},
		Logging: LoggingConfig{
			Level:     "info",
			FileLevel: "debug",
			Dir:       "logs",
		},
	}
}

// TickInterval возвращает длительность тика в секундах
func (s *SimulationConfig) TickInterval() float64 {
	if s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "VOXELWALK_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Validate проверяет значения, без которых симуляция не имеет смысла
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"physics.gravity", c.Physics.Gravity},
		{"physics.body_half_width", c.Physics.BodyHalfWidth},
		{"physics.body_height", c.Physics.BodyHeight},
		{"agent.speed", c.Agent.Speed},
		{"agent.sprint_speed", c.Agent.SprintSpeed},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s должно быть положительным, получено %v", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.Physics.JumpVelocity < 0 {
		return fmt.Errorf("%w: physics.jump_velocity не может быть отрицательной", ErrInvalidConfig)
	}
	if c.Volume.Size <= 0 {
		return fmt.Errorf("%w: volume.size должен быть положительным", ErrInvalidConfig)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("%w: simulation.tick_rate должен быть положительным", ErrInvalidConfig)
	}

	switch c.Volume.Source {
	case SourcePerlin, SourceFlat:
	case SourceFile:
		if c.Volume.Path == "" {
			return fmt.Errorf("%w: для source=file нужен volume.path", ErrInvalidConfig)
		}
	case SourceStore:
		if c.Volume.DataDir == "" || c.Volume.Key == "" {
			return fmt.Errorf("%w: для source=store нужны volume.data_dir и volume.key", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: неизвестный источник объёма %q", ErrInvalidConfig, c.Volume.Source)
	}

	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV VOXELWALK_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXELWALK_CONFIG")
		if path == "" {
			return Default(), nil // конфиг не задан, используем дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	return Parse(data)
}

// Parse разбирает YAML поверх значений по умолчанию и проверяет результат
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
