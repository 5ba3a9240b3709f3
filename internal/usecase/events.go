package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	"PhonePortal/pkg/logger"
	"PhonePortal/pkg/util"

	"github.com/google/uuid"
)

// eventEmitter publishes portal events best-effort: a failed publish is
// logged and counted but never fails the write that caused it.
type eventEmitter struct {
	pub     domrepo.EventPublisher
	metrics domrepo.Metrics
	log     *logger.Logger
}

func (e eventEmitter) emit(ctx context.Context, typ, key string, payload interface{}, at time.Time) {
	if e.pub == nil {
		return
	}
	ev := models.PortalEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		Key:       key,
		CreatedAt: util.NowISO(at),
		Payload:   payload,
	}
	if err := e.pub.PublishEvent(ctx, ev); err != nil {
		e.metrics.RecordError("event_publish")
		e.log.Warn("publish portal event",
			logger.String("type", typ),
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

// idGen issues prefix+unix-millisecond ids, bumping the millisecond when
// two ids would otherwise collide.
type idGen struct {
	mu   sync.Mutex
	last int64
}

func (g *idGen) next(prefix string, now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return prefix + strconv.FormatInt(ms, 10)
}
