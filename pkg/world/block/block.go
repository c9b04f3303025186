// Package block defines the block states produced by the terrain generator.
package block

// State is a packed block state: blockID<<4 | metadata.
type State uint16

// Block IDs matching the 1.8 protocol numbering.
const (
	idAir          = 0
	idStone        = 1
	idGrass        = 2
	idDirt         = 3
	idBedrock      = 7
	idFlowingWater = 8
	idWater        = 9
	idFlowingLava  = 10
	idLava         = 11
	idSand         = 12
	idGravel       = 13
	idGoldOre      = 14
	idIronOre      = 15
	idCoalOre      = 16
	idLog          = 17
	idLeaves       = 18
	idLapisOre     = 21
	idSandstone    = 24
	idTallGrass    = 31
	idDeadBush     = 32
	idDandelion    = 37
	idFlower       = 38
	idBrownShroom  = 39
	idRedShroom    = 40
	idMossyCobble  = 48
	idDiamondOre   = 56
	idRedstoneOre  = 73
	idSnowLayer    = 78
	idIce          = 79
	idClay         = 82
	idCactus       = 81
	idReeds        = 83
	idPumpkin      = 86
	idStoneBrick   = 98
	idLilyPad      = 111
	idEndFrame     = 120
	idEmeraldOre   = 129
	idStainedClay  = 159
	idLeaves2      = 161
	idLog2         = 162
	idHardenedClay = 172
	idRedSandstone = 179
	idCobblestone  = 4
	idPlanks       = 5
	idGlassPane    = 102
	idSilverFish   = 97
	idBigShroom    = 99
)

// Clay band colours (metadata of stained hardened clay).
const (
	ColorWhite  = 0
	ColorOrange = 1
	ColorYellow = 4
	ColorSilver = 8
	ColorBrown  = 12
	ColorRed    = 14
)

// Common states.
const (
	Air          State = idAir << 4
	Stone        State = idStone << 4
	Granite      State = idStone<<4 | 1
	Diorite      State = idStone<<4 | 3
	Andesite     State = idStone<<4 | 5
	Grass        State = idGrass << 4
	Dirt         State = idDirt << 4
	CoarseDirt   State = idDirt<<4 | 1
	Podzol       State = idDirt<<4 | 2
	Cobblestone  State = idCobblestone << 4
	Planks       State = idPlanks << 4
	Bedrock      State = idBedrock << 4
	FlowingWater State = idFlowingWater << 4
	Water        State = idWater << 4
	FlowingLava  State = idFlowingLava << 4
	Lava         State = idLava << 4
	Sand         State = idSand << 4
	RedSand      State = idSand<<4 | 1
	Gravel       State = idGravel << 4
	GoldOre      State = idGoldOre << 4
	IronOre      State = idIronOre << 4
	CoalOre      State = idCoalOre << 4
	LapisOre     State = idLapisOre << 4
	Sandstone    State = idSandstone << 4
	RedSandstone State = idRedSandstone << 4
	TallGrass    State = idTallGrass<<4 | 1
	Fern         State = idTallGrass<<4 | 2
	DeadBush     State = idDeadBush << 4
	Dandelion    State = idDandelion << 4
	Poppy        State = idFlower << 4
	BrownShroom  State = idBrownShroom << 4
	RedShroom    State = idRedShroom << 4
	BigShroom    State = idBigShroom << 4
	MossyCobble  State = idMossyCobble << 4
	DiamondOre   State = idDiamondOre << 4
	RedstoneOre  State = idRedstoneOre << 4
	SnowLayer    State = idSnowLayer << 4
	Ice          State = idIce << 4
	Clay         State = idClay << 4
	Cactus       State = idCactus << 4
	Reeds        State = idReeds << 4
	Pumpkin      State = idPumpkin << 4
	StoneBrick   State = idStoneBrick << 4
	Silverfish   State = idSilverFish << 4
	GlassPane    State = idGlassPane << 4
	LilyPad      State = idLilyPad << 4
	EndFrame     State = idEndFrame << 4
	EmeraldOre   State = idEmeraldOre << 4
	HardenedClay State = idHardenedClay << 4

	OakLog     State = idLog << 4
	SpruceLog  State = idLog<<4 | 1
	BirchLog   State = idLog<<4 | 2
	AcaciaLog  State = idLog2 << 4
	OakLeaves  State = idLeaves << 4
	SpruceLeaf State = idLeaves<<4 | 1
	BirchLeaf  State = idLeaves<<4 | 2
	AcaciaLeaf State = idLeaves2 << 4
)

// StainedClay returns stained hardened clay of the given colour.
func StainedClay(color int) State {
	return State(idStainedClay<<4 | color&0xF)
}

// ID returns the block ID without metadata.
func (s State) ID() int { return int(s >> 4) }

// Meta returns the metadata nibble.
func (s State) Meta() int { return int(s & 0xF) }

// IsAir reports whether s is empty space.
func (s State) IsAir() bool { return s.ID() == idAir }

// IsLiquid reports whether s is water or lava, flowing or still.
func (s State) IsLiquid() bool {
	switch s.ID() {
	case idFlowingWater, idWater, idFlowingLava, idLava:
		return true
	}
	return false
}

// IsSand reports whether s is any sand variant.
func (s State) IsSand() bool { return s.ID() == idSand }

// IsSolid reports whether entities can stand on s.
func (s State) IsSolid() bool {
	if s.IsAir() || s.IsLiquid() {
		return false
	}
	switch s.ID() {
	case idTallGrass, idDeadBush, idDandelion, idFlower, idBrownShroom, idRedShroom,
		idSnowLayer, idReeds, idLilyPad:
		return false
	}
	return true
}

// IsOpaque reports whether s blocks light, used for surface searches.
func (s State) IsOpaque() bool {
	if !s.IsSolid() {
		return false
	}
	switch s.ID() {
	case idLeaves, idLeaves2, idIce, idGlassPane, idCactus:
		return false
	}
	return true
}

// SandstoneFor maps a sand variant to its sandstone counterpart.
// Non-sand states are returned unchanged.
func SandstoneFor(s State) State {
	switch s {
	case Sand:
		return Sandstone
	case RedSand:
		return RedSandstone
	}
	return s
}

// Set is an immutable membership set of block states.
type Set map[State]struct{}

// NewSet builds a Set from the given states.
func NewSet(states ...State) Set {
	s := make(Set, len(states))
	for _, st := range states {
		s[st] = struct{}{}
	}
	return s
}

// Contains reports whether st is in the set. A nil set contains nothing.
func (s Set) Contains(st State) bool {
	_, ok := s[st]
	return ok
}
