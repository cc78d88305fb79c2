// Package refresh implements the process-wide refresh bus: a monotonically
// increasing version counter that admin writes bump and every dashboard
// reader subscribes to. Instances of the service announce bumps to each
// other over Redis so a save on one instance refreshes clients connected
// anywhere.
package refresh

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/winterhq/socialboard/internal/logger"
)

// Announcer carries refresh announcements between instances. An announcer
// failing to send must never fail or block local delivery; the bus only
// logs announce errors.
type Announcer interface {
	// Announce broadcasts a payload to every other instance, best effort
	Announce(ctx context.Context, payload string) error
	// Listen blocks delivering foreign payloads until ctx is done
	Listen(ctx context.Context, deliver func(payload string))
}

// Bus is the refresh signal service. It is constructed once at startup and
// handed to everything that publishes or subscribes; there is no ambient
// package-level instance.
type Bus struct {
	announcer  Announcer // nil means local-only
	instanceID string

	version atomic.Int64

	// pubMu serializes version bumps and subscriber notification so no
	// subscriber ever observes a version lower than one it has seen.
	pubMu sync.Mutex

	subMu       sync.RWMutex
	subscribers map[int64]func(version int64)
	nextSubID   int64

	// recent stamps, for collapsing the same announcement arriving on
	// both the pub/sub channel and the fallback key
	stampMu    sync.Mutex
	seenStamps [32]string
	seenNext   int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewBus creates a refresh bus. Pass a nil announcer for a local-only bus
// (fully functional in-process, no cross-instance propagation).
func NewBus(announcer Announcer) *Bus {
	return &Bus{
		announcer:   announcer,
		instanceID:  uuid.NewString(),
		subscribers: make(map[int64]func(int64)),
		done:        make(chan struct{}),
	}
}

// Version returns the current refresh version
func (b *Bus) Version() int64 {
	return b.version.Load()
}

// Subscribe registers a callback invoked on every version bump. The
// returned function unregisters it; calling it more than once is fine.
func (b *Bus) Subscribe(fn func(version int64)) (unsubscribe func()) {
	b.subMu.Lock()
	b.nextSubID++
	id := b.nextSubID
	b.subscribers[id] = fn
	b.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.subMu.Lock()
			delete(b.subscribers, id)
			b.subMu.Unlock()
		})
	}
}

// Publish bumps the version, synchronously notifies every currently
// registered local subscriber, then best-effort announces the bump to
// other instances. Announce failures are logged, never returned.
func (b *Bus) Publish(ctx context.Context) {
	b.fanout()

	if b.announcer == nil {
		return
	}
	stamp := uuid.NewString()
	b.rememberStamp(stamp)
	payload := b.instanceID + " " + stamp
	if err := b.announcer.Announce(ctx, payload); err != nil {
		logger.Log.Warn("refresh announce failed", zap.Error(err))
	}
}

// fanout increments exactly once and notifies all subscribers before
// returning. Callbacks run on the publisher's goroutine and must not
// re-enter the bus.
func (b *Bus) fanout() int64 {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	v := b.version.Add(1)

	b.subMu.RLock()
	subs := make([]func(int64), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.subMu.RUnlock()

	for _, fn := range subs {
		fn(v)
	}
	return v
}

// Start spawns the announcement listener. A bus without an announcer has
// nothing to listen to; Start is then a no-op.
func (b *Bus) Start() {
	if b.announcer == nil {
		close(b.done)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go func() {
		defer close(b.done)
		b.announcer.Listen(ctx, b.receive)
	}()
	logger.Log.Info("refresh bus started", zap.String("instance", b.instanceID))
}

// Close stops the listener and waits for it to exit
func (b *Bus) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	<-b.done
}

// receive handles a foreign announcement: same effect as a local Publish
// minus re-announcing. Own announcements and duplicates (the same stamp
// arriving on both channels) are ignored.
func (b *Bus) receive(payload string) {
	instance, stamp, ok := strings.Cut(payload, " ")
	if !ok || instance == b.instanceID {
		return
	}
	if !b.rememberStamp(stamp) {
		return
	}
	b.fanout()
}

// rememberStamp records a stamp, reporting false if it was already seen
func (b *Bus) rememberStamp(stamp string) bool {
	b.stampMu.Lock()
	defer b.stampMu.Unlock()
	for _, s := range b.seenStamps {
		if s != "" && s == stamp {
			return false
		}
	}
	b.seenStamps[b.seenNext] = stamp
	b.seenNext = (b.seenNext + 1) % len(b.seenStamps)
	return true
}
