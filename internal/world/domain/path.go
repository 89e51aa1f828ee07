package domain

import "github.com/SoftbearStudios/kiomet/modules/kit/errx"

// Path validation failures are client errors.
var (
	ErrPathTooShort  = errx.NewBiz(CodeInvalidPath, "path too short")
	ErrPathTooLong   = errx.NewBiz(CodeInvalidPath, "path too long")
	ErrPathSource    = errx.NewBiz(CodeInvalidPath, "source mismatch")
	ErrPathDuplicate = errx.NewBiz(CodeInvalidPath, "duplicate tower in path")
	ErrPathOutside   = errx.NewBiz(CodeInvalidPath, "outside world")
	ErrPathEdge      = errx.NewBiz(CodeInvalidPath, "edge too long")
	ErrPathNeighbor  = errx.NewBiz(CodeInvalidPath, "not neighbor")
	ErrPathMissing   = errx.NewBiz(CodeInvalidPath, "tower not generated")
)

// Path is the route a force takes, stored in reverse order so the next
// hop pops off the end cheaply.
type Path struct {
	reversed []TowerId
}

// NewPath builds a path from towers in travel order. Panics if fewer than
// two towers are given; validate client input with Validate.
func NewPath(towers []TowerId) Path {
	if len(towers) < 2 {
		panic("path needs at least two towers")
	}
	reversed := make([]TowerId, len(towers))
	for i, id := range towers {
		reversed[len(towers)-1-i] = id
	}
	return Path{reversed: reversed}
}

// Validate checks a client-submitted path. Ranged units travel one edge
// of at most maxEdgeDistance; road-bound forces follow neighbor roads.
// contains reports whether a tower exists at an id.
func (p Path) Validate(contains func(TowerId) bool, source TowerId, maxEdgeDistance uint32) error {
	if len(p.reversed) < 2 {
		return ErrPathTooShort
	}
	ranged := maxEdgeDistance != 0
	if (ranged && len(p.reversed) != 2) || (!ranged && len(p.reversed) > MaxPathRoads) {
		return ErrPathTooLong
	}
	if p.reversed[len(p.reversed)-1] != source {
		return ErrPathSource
	}
	var maxDistanceSquared uint64
	if ranged {
		d := uint64(maxEdgeDistance) + 1
		maxDistanceSquared = d*d - 1
	}
	prev := source
	for i := len(p.reversed) - 2; i >= 0; i-- {
		next := p.reversed[i]
		if next == prev {
			return ErrPathDuplicate
		}
		if !WorldRectangle.Contains(next) {
			return ErrPathOutside
		}
		if ranged {
			if prev.DistanceSquared(next) > maxDistanceSquared {
				return ErrPathEdge
			}
		} else if !prev.IsNeighbor(next) {
			return ErrPathNeighbor
		}
		if !contains(next) {
			return ErrPathMissing
		}
		prev = next
	}
	return nil
}

// ComingFrom is where the force is coming from.
func (p Path) ComingFrom() TowerId {
	return p.reversed[len(p.reversed)-1]
}

// GoingTo is where the force is going next.
func (p Path) GoingTo() TowerId {
	return p.reversed[len(p.reversed)-2]
}

// Source is where the path starts.
func (p Path) Source() TowerId {
	return p.ComingFrom()
}

// Destination is where the path ends.
func (p Path) Destination() TowerId {
	return p.reversed[0]
}

// ForEach visits towers from first to last.
func (p Path) ForEach(f func(TowerId) bool) {
	for i := len(p.reversed) - 1; i >= 0; i-- {
		if !f(p.reversed[i]) {
			return
		}
	}
}

// Towers returns the path in travel order.
func (p Path) Towers() []TowerId {
	out := make([]TowerId, len(p.reversed))
	for i, id := range p.reversed {
		out[len(p.reversed)-1-i] = id
	}
	return out
}

// Len is the number of towers in the path.
func (p Path) Len() int {
	return len(p.reversed)
}

func (p Path) IsZero() bool {
	return len(p.reversed) == 0
}

// pop drops the reached tower off the front of the path.
func (p *Path) pop() {
	p.reversed = p.reversed[:len(p.reversed)-1]
}

// isSpent reports whether the path has no segments left.
func (p Path) isSpent() bool {
	return len(p.reversed) < 2
}

// Clone copies the path so mutations don't alias.
func (p Path) Clone() Path {
	reversed := make([]TowerId, len(p.reversed))
	copy(reversed, p.reversed)
	return Path{reversed: reversed}
}

// truncated keeps only the current segment of the path.
func (p Path) truncated() Path {
	reversed := make([]TowerId, 2)
	copy(reversed, p.reversed[len(p.reversed)-2:])
	return Path{reversed: reversed}
}
