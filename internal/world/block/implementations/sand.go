package implementations

import "github.com/annel0/voxelwalk/internal/world/block"

// SandBehavior реализует поведение блока песка
type SandBehavior struct{}

func (b *SandBehavior) ID() block.BlockID { return block.SandBlockID }

func (b *SandBehavior) Name() string { return "Sand" }

func (b *SandBehavior) IsSolid() bool { return true }
