package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SoftbearStudios/kiomet/internal/world/app/port"
	"github.com/SoftbearStudios/kiomet/internal/world/snapshot"
)

const defaultFlushEvery = 30 * time.Second

// WorldDC is a write-behind cache between the world actor and the
// snapshot repository. The actor enqueues snapshots at its own pace; a
// background writer persists the newest one, so a slow database never
// stalls the simulation.
type WorldDC struct {
	repo       port.WorldRepository
	serverId   int
	flushEvery time.Duration

	mu      sync.Mutex
	pending *snapshot.World
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewWorldDC(repo port.WorldRepository, serverId int, flushEvery time.Duration) *WorldDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	d := &WorldDC{
		repo:       repo,
		serverId:   serverId,
		flushEvery: flushEvery,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

func (d *WorldDC) Load(ctx context.Context) (*snapshot.World, error) {
	if d.repo == nil {
		return nil, errors.New("world repository is nil")
	}
	return d.repo.Load(ctx, d.serverId)
}

func (d *WorldDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Enqueue schedules a snapshot for persistence. Only the newest pending
// snapshot survives; intermediate ones are superseded.
func (d *WorldDC) Enqueue(snap *snapshot.World) {
	if snap == nil || d.repo == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.version++
	snap.ServerId = d.serverId
	snap.Version = d.version
	if d.pending == nil || d.pending.Version < snap.Version {
		d.pending = snap
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Close drains the pending snapshot and stops the writer.
func (d *WorldDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *WorldDC) popPending() *snapshot.World {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

func (d *WorldDC) requeueOnError(s *snapshot.World) {
	d.mu.Lock()
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *WorldDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *WorldDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		if err := d.repo.Save(context.TODO(), s); err != nil {
			// Requeue the failed snapshot; a newer version, if one
			// arrives, supersedes it.
			d.requeueOnError(s)
			time.Sleep(200 * time.Millisecond)
			return
		}
	}
}
