package domain

import "math"

// TowerId addresses a cell in the 512x512 tower grid. The tower type and
// sub-cell position of every id are derived deterministically, so the map
// never needs to be transmitted.
type TowerId struct {
	X, Y uint16
}

// TowerIdConversion is the width of a tower cell in world units.
const TowerIdConversion = 5

// 32 bit fnv hash because it's fast.
const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

func NewTowerId(x, y uint16) TowerId {
	return TowerId{X: x, Y: y}
}

func fnvHashU16Pair(x, y uint16) uint8 {
	hash := fnvOffset
	write := func(u uint8) {
		hash *= fnvPrime
		hash ^= uint32(u)
	}
	write(uint8(x))
	write(uint8(x >> 8))
	write(uint8(y))
	write(uint8(y >> 8))
	// Certain fnv bits can be low quality so combine them with xor.
	c16 := uint16(hash) ^ uint16(hash>>16)
	return uint8(c16) ^ uint8(c16>>8)
}

// Type is the deterministic tower type at this id.
func (t TowerId) Type() TowerType {
	// Offset to be different from the position offset hash.
	return generateTowerType(fnvHashU16Pair(t.X+31415, t.Y+31415))
}

// Split divides the id into its chunk and position within the chunk.
func (t TowerId) Split() (ChunkId, RelativeTowerId) {
	return ChunkIdOf(t), RelativeTowerIdOf(t)
}

func (t TowerId) IsValid() bool {
	return t.X < WorldSize && t.Y < WorldSize
}

// Less orders tower ids y first, then x, matching chunk iteration.
func (t TowerId) Less(other TowerId) bool {
	if t.Y != other.Y {
		return t.Y < other.Y
	}
	return t.X < other.X
}

// Offset is the deterministic sub-cell offset in world units.
func (t TowerId) Offset() (uint16, uint16) {
	o := offsetTable[t.Y&(WorldSize-1)][t.X&(WorldSize-1)]
	return uint16(o & 15), uint16(o >> 4)
}

// IntegerPosition is the offset world position (id * conversion + offset).
func (t TowerId) IntegerPosition() (uint16, uint16) {
	ox, oy := t.Offset()
	return t.X*TowerIdConversion + ox, t.Y*TowerIdConversion + oy
}

// DistanceSquared is a deterministic squared world distance.
func (t TowerId) DistanceSquared(other TowerId) uint64 {
	ax, ay := t.IntegerPosition()
	bx, by := other.IntegerPosition()
	dx := uint64(absDiffU16(ax, bx))
	dy := uint64(absDiffU16(ay, by))
	return dx*dx + dy*dy
}

// Distance is the truncating, deterministic world distance.
func (t TowerId) Distance(other TowerId) uint32 {
	return integerSqrt(t.DistanceSquared(other))
}

func (t TowerId) ManhattanDistance(other TowerId) uint32 {
	return uint32(absDiffU16(t.X, other.X)) + uint32(absDiffU16(t.Y, other.Y))
}

func absDiffU16(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}

// integerSqrt is a deterministic, precisely rounded down integer sqrt.
func integerSqrt(y uint64) uint32 {
	if y == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(y)))
	for r*r > y {
		r--
	}
	for (r+1)*(r+1) <= y {
		r++
	}
	return uint32(r)
}

// IsNeighbor reports whether other is connected to this id by a road.
func (t TowerId) IsNeighbor(other TowerId) bool {
	_, ok := t.NeighborTo(other)
	return ok
}

// Neighbors visits towers connected by roads.
func (t TowerId) Neighbors(f func(TowerId) bool) {
	t.NeighborsEnumerated(func(_ TowerNeighbor, id TowerId) bool {
		return f(id)
	})
}

// NeighborsEnumerated visits road-connected towers with their direction.
// Stops early if f returns false.
func (t TowerId) NeighborsEnumerated(f func(TowerNeighbor, TowerId) bool) {
	bits := neighborTable[t.Y][t.X]
	for bits != 0 {
		i := uint8(trailingZeros8(bits))
		bits ^= 1 << i
		n := TowerNeighbor(i)
		if !f(n, t.NeighborUnchecked(n)) {
			return
		}
	}
}

// NeighborIds collects road-connected towers.
func (t TowerId) NeighborIds() []TowerId {
	ids := make([]TowerId, 0, 8)
	t.Neighbors(func(id TowerId) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func trailingZeros8(b uint8) int {
	for i := 0; i < 8; i++ {
		if b&(1<<i) != 0 {
			return i
		}
	}
	return 8
}

// NeighborTo returns the direction of other relative to this id, if they
// are connected by a road.
func (t TowerId) NeighborTo(other TowerId) (TowerNeighbor, bool) {
	n, ok := neighborFromDelta(int32(other.X)-int32(t.X), int32(other.Y)-int32(t.Y))
	if !ok {
		return 0, false
	}
	if neighborTable[t.Y][t.X]&(1<<uint8(n)) == 0 {
		return 0, false
	}
	return n, true
}

// NeighborUnchecked assumes the neighbor exists.
func (t TowerId) NeighborUnchecked(n TowerNeighbor) TowerId {
	dx, dy := n.Delta()
	return TowerId{X: uint16(int32(t.X) + dx), Y: uint16(int32(t.Y) + dy)}
}

// Neighbor returns the road-connected tower in the given direction.
func (t TowerId) Neighbor(n TowerNeighbor) (TowerId, bool) {
	other := t.NeighborUnchecked(n)
	if t.IsNeighbor(other) {
		return other, true
	}
	return TowerId{}, false
}

// IterRadius visits tower ids within a radius in world units.
func (t TowerId) IterRadius(radius uint16, f func(TowerId) bool) {
	cx, cy := t.IntegerPosition()
	radiusSquared := uint64(radius) * uint64(radius)
	r := (radius + TowerIdConversion - 1) / TowerIdConversion
	rect := TowerRectangle{
		BottomLeft: TowerId{X: saturatingSubU16(t.X, r), Y: saturatingSubU16(t.Y, r)},
		TopRight:   TowerId{X: saturatingAddU16(t.X, r), Y: saturatingAddU16(t.Y, r)},
	}
	rect.ForEach(func(id TowerId) bool {
		ix, iy := id.IntegerPosition()
		dx := uint64(absDiffU16(ix, cx))
		dy := uint64(absDiffU16(iy, cy))
		if dx*dx+dy*dy <= radiusSquared {
			return f(id)
		}
		return true
	})
}

func saturatingSubU16(a, b uint16) uint16 {
	if b > a {
		return 0
	}
	return a - b
}

func saturatingAddU16(a, b uint16) uint16 {
	if s := a + b; s >= a {
		return s
	}
	return 0xffff
}

// TowerNeighbor is one of the 8 directions to an adjacent tower cell.
type TowerNeighbor uint8

const (
	NeighborN TowerNeighbor = iota
	NeighborNE
	NeighborE
	NeighborSE
	NeighborS
	NeighborSW
	NeighborW
	NeighborNW
)

// Opposite returns the reverse direction, e.g. N returns S.
func (n TowerNeighbor) Opposite() TowerNeighbor {
	return TowerNeighbor((uint8(n) + 4) & 7)
}

func (n TowerNeighbor) Delta() (int32, int32) {
	switch n {
	case NeighborN:
		return 0, 1
	case NeighborNE:
		return 1, 1
	case NeighborE:
		return 1, 0
	case NeighborSE:
		return 1, -1
	case NeighborS:
		return 0, -1
	case NeighborSW:
		return -1, -1
	case NeighborW:
		return -1, 0
	default:
		return -1, 1
	}
}

func neighborFromDelta(dx, dy int32) (TowerNeighbor, bool) {
	switch {
	case dx == 0 && dy == 1:
		return NeighborN, true
	case dx == 1 && dy == 1:
		return NeighborNE, true
	case dx == 1 && dy == 0:
		return NeighborE, true
	case dx == 1 && dy == -1:
		return NeighborSE, true
	case dx == 0 && dy == -1:
		return NeighborS, true
	case dx == -1 && dy == -1:
		return NeighborSW, true
	case dx == -1 && dy == 0:
		return NeighborW, true
	case dx == -1 && dy == 1:
		return NeighborNW, true
	default:
		return 0, false
	}
}

// offsetTable holds packed sub-cell offsets (x in low nibble, y in high).
var offsetTable = newOffsetTable()

func newOffsetTable() *[WorldSize][WorldSize]uint8 {
	table := new([WorldSize][WorldSize]uint8)
	for y := range table {
		for x := range table[y] {
			hash := fnvHashU16Pair(uint16(x), uint16(y))
			ox := hash&3 + 1
			oy := (hash>>4)&3 + 1
			table[y][x] = ox | oy<<4
		}
	}
	return table
}

// neighborTable holds a road bitmask per tower id, one bit per direction.
var neighborTable = newNeighborTable()

func newNeighborTable() *[WorldSize][WorldSize]uint8 {
	table := new([WorldSize][WorldSize]uint8)
	areNeighbors := func(a, b TowerId) bool {
		if a == b || !WorldRectangle.Contains(b) {
			return false
		}
		distance := a.DistanceSquared(b)
		if distance > MaxRoadLengthSquared {
			return false
		}
		if b.X != a.X && b.Y != a.Y {
			// A diagonal road is blocked by a shorter crossing road.
			other1 := TowerId{X: a.X, Y: b.Y}
			other2 := TowerId{X: b.X, Y: a.Y}
			if other1.DistanceSquared(other2) <= distance {
				return false
			}
		}
		return true
	}
	for y := range table {
		for x := range table[y] {
			id := TowerId{X: uint16(x), Y: uint16(y)}
			var bits uint8
			for n := NeighborN; n <= NeighborNW; n++ {
				dx, dy := n.Delta()
				other := TowerId{X: uint16(int32(x) + dx), Y: uint16(int32(y) + dy)}
				if areNeighbors(id, other) {
					bits |= 1 << uint8(n)
				}
			}
			table[y][x] = bits
		}
	}
	return table
}
