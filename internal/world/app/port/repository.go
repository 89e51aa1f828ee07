package port

import (
	"context"

	"github.com/SoftbearStudios/kiomet/internal/world/snapshot"
)

// WorldRepository persists world snapshots. Load returns nil without an
// error when no snapshot exists yet.
type WorldRepository interface {
	Load(ctx context.Context, serverId int) (*snapshot.World, error)
	Save(ctx context.Context, snap *snapshot.World) error
}
