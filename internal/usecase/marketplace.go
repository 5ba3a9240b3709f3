package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	"PhonePortal/pkg/logger"
	"PhonePortal/pkg/util"
)

// MarketplaceUseCase manages used-phone buy and sell listings.
type MarketplaceUseCase struct {
	listings domrepo.RecordStore[models.Listing]
	metrics  domrepo.Metrics
	events   eventEmitter
	ids      idGen
	now      func() time.Time
}

func NewMarketplaceUseCase(listings domrepo.RecordStore[models.Listing], events domrepo.EventPublisher, metrics domrepo.Metrics, log *logger.Logger) *MarketplaceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MarketplaceUseCase{
		listings: listings,
		metrics:  metrics,
		events:   eventEmitter{pub: events, metrics: metrics, log: log},
		now:      time.Now,
	}
}

// List returns matching listings, newest first. An empty status means
// any status.
func (uc *MarketplaceUseCase) List(ctx context.Context, q models.ListingQuery) ([]models.Listing, error) {
	all, err := uc.listings.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	text := util.Normalize(q.Q)
	city, state := util.Normalize(q.City), util.Normalize(q.State)
	typ, status := util.Normalize(q.Type), util.Normalize(q.Status)

	out := make([]models.Listing, 0, len(all))
	for _, l := range all {
		switch {
		case status != "" && l.Status != status:
		case typ != "" && l.Type != typ:
		case city != "" && util.Normalize(l.City) != city:
		case state != "" && util.Normalize(l.State) != state:
		case !util.ContainsAny(text, l.Brand, l.Model, l.Description):
		default:
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PostedAt > out[j].PostedAt })
	return out, nil
}

var sellRequired = []string{"seller_name", "contact_phone", "brand", "model", "price", "condition", "city", "state"}

// Create validates and stores a new listing. Sell listings must carry the
// seller's contact and the phone details; buy listings may be sparse.
func (uc *MarketplaceUseCase) Create(ctx context.Context, req models.CreateListingRequest) (models.Listing, error) {
	typ := util.Normalize(req.Type)
	if typ == "" {
		typ = "sell"
	}
	if typ != "sell" && typ != "buy" {
		return models.Listing{}, models.Invalid("type", "type must be 'sell' or 'buy'")
	}

	if typ == "sell" {
		present := map[string]bool{
			"seller_name":   strings.TrimSpace(req.SellerName) != "",
			"contact_phone": strings.TrimSpace(req.ContactPhone) != "",
			"brand":         strings.TrimSpace(req.Brand) != "",
			"model":         strings.TrimSpace(req.Model) != "",
			"price":         req.Price > 0,
			"condition":     strings.TrimSpace(req.Condition) != "",
			"city":          strings.TrimSpace(req.City) != "",
			"state":         strings.TrimSpace(req.State) != "",
		}
		var missing []string
		for _, f := range sellRequired {
			if !present[f] {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			return models.Listing{}, models.Invalid(missing[0], "missing fields for sell: "+strings.Join(missing, ", "))
		}
	}

	now := uc.now()
	images := req.Images
	if images == nil {
		images = []string{}
	}
	listing := models.Listing{
		ID:           uc.ids.next("L", now),
		Type:         typ,
		Brand:        strings.TrimSpace(req.Brand),
		Model:        strings.TrimSpace(req.Model),
		Condition:    strings.TrimSpace(req.Condition),
		Price:        req.Price,
		Description:  strings.TrimSpace(req.Description),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		SellerName:   strings.TrimSpace(req.SellerName),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		Images:       images,
		Status:       models.ListingAvailable,
		PostedAt:     util.NowISO(now),
	}
	if err := uc.listings.Append(ctx, listing); err != nil {
		uc.metrics.RecordError("listing_store")
		return models.Listing{}, fmt.Errorf("store listing: %w", err)
	}
	uc.metrics.RecordStoreWrite("listings")
	uc.events.emit(ctx, models.EventListingCreated, listing.ID, listing, now)
	return listing, nil
}

// MarkSold flips a listing to sold.
func (uc *MarketplaceUseCase) MarkSold(ctx context.Context, id string) (models.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Listing{}, models.Invalid("id", "missing id")
	}
	l, err := uc.listings.UpdateByKey(ctx, id, func(l *models.Listing) error {
		l.Status = models.ListingSold
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return models.Listing{}, fmt.Errorf("id not found: %w", models.ErrNotFound)
	}
	if err != nil {
		uc.metrics.RecordError("listing_store")
		return models.Listing{}, fmt.Errorf("mark sold: %w", err)
	}
	uc.metrics.RecordStoreWrite("listings")
	uc.events.emit(ctx, models.EventListingSold, l.ID, l, uc.now())
	return l, nil
}
