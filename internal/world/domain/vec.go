package domain

import "math"

// Vec2 is a world position in world units (tower grid times the
// conversion factor). Used for client rendering and area effects.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func (v Vec2) Lerp(other Vec2, t float32) Vec2 {
	return Vec2{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
	}
}

func (v Vec2) DistanceSquared(other Vec2) float32 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

func (v Vec2) Distance(other Vec2) float32 {
	return float32(math.Sqrt(float64(v.DistanceSquared(other))))
}

// Vec2 is the tower's jittered world position.
func (t TowerId) Vec2() Vec2 {
	x, y := t.IntegerPosition()
	return Vec2{X: float32(x), Y: float32(y)}
}

// CenterPosition is the center of the tower's grid cell, ignoring jitter.
func (t TowerId) CenterPosition() Vec2 {
	return Vec2{
		X: float32(t.X)*TowerIdConversion + TowerIdConversion*0.5,
		Y: float32(t.Y)*TowerIdConversion + TowerIdConversion*0.5,
	}
}

// RoundedTowerId is the tower id whose jitter-free center is nearest to a
// world position.
func RoundedTowerId(position Vec2) TowerId {
	round := func(v float32) uint16 {
		if v <= 0 {
			return 0
		}
		r := uint32(v/TowerIdConversion + 0.5)
		if r > WorldSize-1 {
			r = WorldSize - 1
		}
		return uint16(r)
	}
	return TowerId{X: round(position.X), Y: round(position.Y)}
}
