package memory

import (
	"context"
	"sync"

	"github.com/SoftbearStudios/kiomet/internal/world/snapshot"
)

// WorldRepository keeps the latest snapshot in memory. Used when MongoDB
// is not configured; the world does not survive a restart.
type WorldRepository struct {
	mu    sync.Mutex
	snaps map[int]*snapshot.World
}

func NewWorldRepository() *WorldRepository {
	return &WorldRepository{snaps: make(map[int]*snapshot.World)}
}

func (r *WorldRepository) Load(_ context.Context, serverId int) (*snapshot.World, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[serverId], nil
}

func (r *WorldRepository) Save(_ context.Context, snap *snapshot.World) error {
	if snap == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps[snap.ServerId] = snap
	return nil
}
