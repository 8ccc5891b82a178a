package block

import "sync"

var (
	registryMu sync.RWMutex
	registry   = make(map[BlockID]BlockBehavior)
)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := Get(id)
	return exists
}

// IsSolid сообщает, блокирует ли блок движение.
// Для незарегистрированных ID используется встроенная таблица:
// воздух и жидкости проходимы, всё остальное твёрдое.
func IsSolid(id BlockID) bool {
	if behavior, ok := Get(id); ok {
		return behavior.IsSolid()
	}
	switch id {
	case AirBlockID, WaterBlockID, DeepWaterBlockID:
		return false
	default:
		return true
	}
}

// Name возвращает имя блока или "Unknown"
func Name(id BlockID) string {
	if behavior, ok := Get(id); ok {
		return behavior.Name()
	}
	return "Unknown"
}

// BlockID представляет идентификатор блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые типы блоков
	AirBlockID       BlockID = iota // 0
	StoneBlockID                    // 1
	GrassBlockID                    // 2
	WaterBlockID                    // 3
	SandBlockID                     // 4
	DirtBlockID                     // 5
	DeepWaterBlockID                // 6
)
