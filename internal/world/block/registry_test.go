package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type glassBehavior struct{}

func (glassBehavior) ID() BlockID   { return 300 }
func (glassBehavior) Name() string  { return "Glass" }
func (glassBehavior) IsSolid() bool { return true }

func TestIsSolid_Fallback(t *testing.T) {
	// Без регистрации работает встроенная таблица
	assert.False(t, IsSolid(AirBlockID), "Воздух проходим")
	assert.False(t, IsSolid(WaterBlockID), "Вода проходима")
	assert.False(t, IsSolid(DeepWaterBlockID), "Глубокая вода проходима")
	assert.True(t, IsSolid(BlockID(999)), "Неизвестный блок считается твёрдым")
	assert.Equal(t, "Unknown", Name(BlockID(999)))
}

func TestRegister(t *testing.T) {
	Register(300, glassBehavior{})

	assert.True(t, IsValidBlockID(300))
	assert.True(t, IsSolid(300))
	assert.Equal(t, "Glass", Name(300))

	behavior, ok := Get(300)
	assert.True(t, ok)
	assert.Equal(t, BlockID(300), behavior.ID())
}
