package domain

// World dimensions and road limits.
const (
	// WorldSize is the edge length of the tower grid.
	WorldSize = 512
	// MaxRoadLength is the longest road in world units.
	MaxRoadLength = 5
	// MaxRoadLengthSquared trims diagonals slightly (35 < 36).
	MaxRoadLengthSquared = 35
	// MaxPathRoads caps the number of roads in a force's path.
	MaxPathRoads = 16
)

// WorldCenter is the tower id at the middle of the grid.
var WorldCenter = TowerId{X: WorldSize / 2, Y: WorldSize / 2}

// WorldRectangle covers every valid tower id.
var WorldRectangle = TowerRectangle{
	BottomLeft: TowerId{X: 0, Y: 0},
	TopRight:   TowerId{X: WorldSize - 1, Y: WorldSize - 1},
}

// TowerRectangle is an inclusive axis-aligned range of tower ids.
type TowerRectangle struct {
	BottomLeft TowerId `json:"bottomLeft"`
	TopRight   TowerId `json:"topRight"`
}

// InvalidTowerRectangle returns one potential invalid rectangle.
func InvalidTowerRectangle() TowerRectangle {
	return TowerRectangle{
		BottomLeft: TowerId{X: WorldSize - 1, Y: WorldSize - 1},
		TopRight:   TowerId{X: 0, Y: 0},
	}
}

func (r TowerRectangle) IsValid() bool {
	return r.TopRight.X >= r.BottomLeft.X && r.TopRight.Y >= r.BottomLeft.Y
}

func (r TowerRectangle) Dimensions() (uint16, uint16) {
	return r.TopRight.X - r.BottomLeft.X + 1, r.TopRight.Y - r.BottomLeft.Y + 1
}

func (r TowerRectangle) Area() uint32 {
	if !r.IsValid() {
		return 0
	}
	w, h := r.Dimensions()
	return uint32(w) * uint32(h)
}

func (r TowerRectangle) Contains(id TowerId) bool {
	return id.X >= r.BottomLeft.X && id.Y >= r.BottomLeft.Y &&
		id.X <= r.TopRight.X && id.Y <= r.TopRight.Y
}

// BoundingTowerRectangle is the smallest rectangle containing all ids.
func BoundingTowerRectangle(ids []TowerId) TowerRectangle {
	ret := TowerRectangle{
		BottomLeft: TowerId{X: 0xffff, Y: 0xffff},
		TopRight:   TowerId{X: 0, Y: 0},
	}
	for _, id := range ids {
		ret = ret.Extended(id)
	}
	return ret
}

// Extended grows the rectangle to contain id.
func (r TowerRectangle) Extended(id TowerId) TowerRectangle {
	if id.X < r.BottomLeft.X {
		r.BottomLeft.X = id.X
	}
	if id.Y < r.BottomLeft.Y {
		r.BottomLeft.Y = id.Y
	}
	if id.X > r.TopRight.X {
		r.TopRight.X = id.X
	}
	if id.Y > r.TopRight.Y {
		r.TopRight.Y = id.Y
	}
	return r
}

// AddMargin pads a valid rectangle on all sides. Invalid rectangles never
// become valid.
func (r TowerRectangle) AddMargin(margin uint16) TowerRectangle {
	if !r.IsValid() {
		return r
	}
	r.BottomLeft.X = saturatingSubU16(r.BottomLeft.X, margin)
	r.BottomLeft.Y = saturatingSubU16(r.BottomLeft.Y, margin)
	r.TopRight.X = saturatingAddU16(r.TopRight.X, margin)
	r.TopRight.Y = saturatingAddU16(r.TopRight.Y, margin)
	return r
}

// ClampTo returns a rectangle not in (valid) excess of other.
func (r TowerRectangle) ClampTo(other TowerRectangle) TowerRectangle {
	return TowerRectangle{
		BottomLeft: TowerId{
			X: maxU16(r.BottomLeft.X, other.BottomLeft.X),
			Y: maxU16(r.BottomLeft.Y, other.BottomLeft.Y),
		},
		TopRight: TowerId{
			X: minU16(r.TopRight.X, other.TopRight.X),
			Y: minU16(r.TopRight.Y, other.TopRight.Y),
		},
	}
}

func (r TowerRectangle) Union(other TowerRectangle) TowerRectangle {
	if !r.IsValid() {
		return other
	}
	if !other.IsValid() {
		return r
	}
	return TowerRectangle{
		BottomLeft: TowerId{
			X: minU16(r.BottomLeft.X, other.BottomLeft.X),
			Y: minU16(r.BottomLeft.Y, other.BottomLeft.Y),
		},
		TopRight: TowerId{
			X: maxU16(r.TopRight.X, other.TopRight.X),
			Y: maxU16(r.TopRight.Y, other.TopRight.Y),
		},
	}
}

// CenteredTowerRectangle builds a rectangle of the given dimensions
// around a center.
func CenteredTowerRectangle(center TowerId, width, height uint16) TowerRectangle {
	if width == 0 || height == 0 {
		return TowerRectangle{}
	}
	return TowerRectangle{
		BottomLeft: TowerId{
			X: saturatingSubU16(center.X, width/2),
			Y: saturatingSubU16(center.Y, height/2),
		},
		TopRight: TowerId{
			X: saturatingAddU16(center.X, (width+1)/2-1),
			Y: saturatingAddU16(center.Y, (height+1)/2-1),
		},
	}
}

// ForEach visits ids row by row. Stops early if f returns false.
func (r TowerRectangle) ForEach(f func(TowerId) bool) {
	if !r.IsValid() {
		return
	}
	for y := r.BottomLeft.Y; ; y++ {
		for x := r.BottomLeft.X; ; x++ {
			if !f(TowerId{X: x, Y: y}) {
				return
			}
			if x == r.TopRight.X {
				break
			}
		}
		if y == r.TopRight.Y {
			break
		}
	}
}

func minU16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

func maxU16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

// ChunkRectangle is an inclusive range of chunk ids.
type ChunkRectangle struct {
	BottomLeft ChunkId `json:"bottomLeft"`
	TopRight   ChunkId `json:"topRight"`
}

func InvalidChunkRectangle() ChunkRectangle {
	return ChunkRectangle{
		BottomLeft: ChunkId{X: 0xff, Y: 0xff},
		TopRight:   ChunkId{X: 0, Y: 0},
	}
}

func (r ChunkRectangle) IsValid() bool {
	return r.TopRight.X >= r.BottomLeft.X && r.TopRight.Y >= r.BottomLeft.Y
}

func (r ChunkRectangle) Contains(id ChunkId) bool {
	return id.X >= r.BottomLeft.X && id.Y >= r.BottomLeft.Y &&
		id.X <= r.TopRight.X && id.Y <= r.TopRight.Y
}

func (r ChunkRectangle) ClampTo(other ChunkRectangle) ChunkRectangle {
	return ChunkRectangle{
		BottomLeft: ChunkId{
			X: maxU8(r.BottomLeft.X, other.BottomLeft.X),
			Y: maxU8(r.BottomLeft.Y, other.BottomLeft.Y),
		},
		TopRight: ChunkId{
			X: minU8(r.TopRight.X, other.TopRight.X),
			Y: minU8(r.TopRight.Y, other.TopRight.Y),
		},
	}
}

// ForEach visits chunk ids row by row. Stops early if f returns false.
func (r ChunkRectangle) ForEach(f func(ChunkId) bool) {
	if !r.IsValid() {
		return
	}
	for y := r.BottomLeft.Y; ; y++ {
		for x := r.BottomLeft.X; ; x++ {
			if !f(ChunkId{X: x, Y: y}) {
				return
			}
			if x == r.TopRight.X {
				break
			}
		}
		if y == r.TopRight.Y {
			break
		}
	}
}

// ChunkRectangleOf converts a tower rectangle to chunk granularity.
func ChunkRectangleOf(r TowerRectangle) ChunkRectangle {
	return ChunkRectangle{
		BottomLeft: ChunkIdOf(r.BottomLeft),
		TopRight:   ChunkIdOf(r.TopRight),
	}
}

// TowerRectangleOf converts a chunk rectangle to tower granularity.
func TowerRectangleOf(r ChunkRectangle) TowerRectangle {
	return TowerRectangle{
		BottomLeft: r.BottomLeft.BottomLeftTower(),
		TopRight:   r.TopRight.TopRightTower(),
	}
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
