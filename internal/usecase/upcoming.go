package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	"PhonePortal/pkg/logger"
	"PhonePortal/pkg/util"

	"github.com/google/uuid"
)

const defaultUpcomingDays = 365

// UpcomingUseCase lists announced phones and records release
// notification requests.
type UpcomingUseCase struct {
	phones        domrepo.RecordReader[models.UpcomingPhone]
	notifications domrepo.RecordStore[models.Notification]
	metrics       domrepo.Metrics
	events        eventEmitter
	now           func() time.Time
}

func NewUpcomingUseCase(
	phones domrepo.RecordReader[models.UpcomingPhone],
	notifications domrepo.RecordStore[models.Notification],
	events domrepo.EventPublisher,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *UpcomingUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UpcomingUseCase{
		phones:        phones,
		notifications: notifications,
		metrics:       metrics,
		events:        eventEmitter{pub: events, metrics: metrics, log: log},
		now:           time.Now,
	}
}

// List returns upcoming phones matching q. Unless q.All is "1", phones
// with a known release date outside [today, today+days] are left out;
// phones without a parseable date are always kept.
func (uc *UpcomingUseCase) List(ctx context.Context, q models.UpcomingQuery) ([]models.UpcomingItem, error) {
	phones, err := uc.phones.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load upcoming phones: %w", err)
	}
	text, brand := util.Normalize(q.Q), util.Normalize(q.Brand)
	showAll := strings.TrimSpace(q.All) == "1"
	days := q.Days
	if days <= 0 {
		days = defaultUpcomingDays
	}
	today := util.TruncateDay(uc.now().UTC())

	out := make([]models.UpcomingItem, 0, len(phones))
	for _, p := range phones {
		if !util.ContainsAny(text, p.Brand, p.Model, p.Description, p.Notes) {
			continue
		}
		if brand != "" && util.Normalize(p.Brand) != brand {
			continue
		}
		item := models.UpcomingItem{UpcomingPhone: p}
		if rd, ok := parseReleaseDate(p.ReleaseDate); ok {
			until := int(rd.Sub(today).Hours() / 24)
			if !showAll && (until < 0 || until > days) {
				continue
			}
			item.DaysUntil = &until
		}
		out = append(out, item)
	}

	latest := util.Normalize(q.Sort) == "latest"
	sort.SliceStable(out, func(i, j int) bool {
		a, b := sortDays(out[i]), sortDays(out[j])
		if latest {
			return a > b
		}
		return a < b
	})
	return out, nil
}

// unknown release dates sort as far in the future
func sortDays(it models.UpcomingItem) int {
	if it.DaysUntil == nil {
		return 99999
	}
	return *it.DaysUntil
}

func parseReleaseDate(s string) (time.Time, bool) {
	t, err := time.Parse(util.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Get returns one upcoming phone.
func (uc *UpcomingUseCase) Get(ctx context.Context, id string) (models.UpcomingPhone, error) {
	phones, err := uc.phones.GetAll(ctx)
	if err != nil {
		return models.UpcomingPhone{}, fmt.Errorf("load upcoming phones: %w", err)
	}
	for _, p := range phones {
		if p.ID == id {
			return p, nil
		}
	}
	return models.UpcomingPhone{}, fmt.Errorf("upcoming phone %q: %w", id, models.ErrNotFound)
}

// Notify records a request to be told when phone_id is released.
func (uc *UpcomingUseCase) Notify(ctx context.Context, req models.NotifyRequest) (models.Notification, error) {
	phoneID := strings.TrimSpace(req.PhoneID)
	if phoneID == "" {
		return models.Notification{}, models.Invalid("phone_id", "phone_id required")
	}
	now := uc.now()
	n := models.Notification{
		ID:        uuid.NewString(),
		PhoneID:   phoneID,
		Name:      strings.TrimSpace(req.Name),
		Contact:   strings.TrimSpace(req.Contact),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: util.NowISO(now),
	}
	if err := uc.notifications.Append(ctx, n); err != nil {
		uc.metrics.RecordError("notification_store")
		return models.Notification{}, fmt.Errorf("store notification: %w", err)
	}
	uc.metrics.RecordStoreWrite("notifications")
	uc.events.emit(ctx, models.EventNotificationRequested, n.PhoneID, n, now)
	return n, nil
}

// Notifications lists every stored request.
func (uc *UpcomingUseCase) Notifications(ctx context.Context) ([]models.Notification, error) {
	out, err := uc.notifications.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	return out, nil
}
