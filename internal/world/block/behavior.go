package block

// BlockBehavior определяет свойства типа блока, важные для симуляции
type BlockBehavior interface {
	ID() BlockID
	Name() string
	// IsSolid возвращает true, если блок участвует в столкновениях
	IsSolid() bool
}
