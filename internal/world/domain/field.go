package domain

// Field is the vertical layer a unit occupies during combat. Air units
// fight before surface units and are immune to some surface damage.
type Field uint8

const (
	FieldSurface Field = iota
	FieldAir
)

func (f Field) String() string {
	if f == FieldAir {
		return "air"
	}
	return "surface"
}
