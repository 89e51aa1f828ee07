package protocol

import "github.com/SoftbearStudios/kiomet/internal/world/domain"

// DeathReason explains to a dead player how they died.
type DeathReason struct {
	// Alias is the killer's name. Empty when the killer was a zombie
	// tower or the shrinking border.
	Alias string
	// Unit is what killed the ruler.
	Unit domain.Unit
}
